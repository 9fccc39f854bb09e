package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clinichq/portal-api/internal/auth"
	"github.com/clinichq/portal-api/internal/booking"
	"github.com/clinichq/portal-api/internal/catalog"
	"github.com/clinichq/portal-api/internal/directory"
	httpmiddleware "github.com/clinichq/portal-api/internal/http/middleware"
	"github.com/clinichq/portal-api/internal/notify"
	"github.com/clinichq/portal-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger           *logging.Logger
	TokenIssuer      *auth.TokenIssuer
	BookingHandler   *booking.Handler
	CatalogHandler   *catalog.Handler
	DirectoryHandler *directory.Handler
	Roles            auth.RoleFinder
	MetricsHandler   http.Handler

	CORSAllowedOrigins []string

	// POST /booking rate limit; disabled when Rate <= 0.
	BookingRateLimit float64
	BookingRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	requireAuth := auth.RequireAuth(cfg.TokenIssuer)
	requireAdmin := auth.RequireAdmin(cfg.Roles, cfg.Logger)

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		public.Get("/service", cfg.CatalogHandler.ListServices)
		public.Get("/available", cfg.CatalogHandler.Availability)
		// Issues the bearer token used by every protected route below.
		public.Put("/user/{email}", cfg.DirectoryHandler.UpsertUser)
		public.Get("/admin/{email}", cfg.DirectoryHandler.AdminStatus)
		if cfg.BookingRateLimit > 0 {
			public.With(httpmiddleware.RateLimit(cfg.BookingRateLimit, cfg.BookingRateBurst)).
				Post("/booking", cfg.BookingHandler.Create)
		} else {
			public.Post("/booking", cfg.BookingHandler.Create)
		}
	})

	// Authenticated endpoints
	r.Group(func(private chi.Router) {
		private.Use(requireAuth)

		private.Get("/user", cfg.DirectoryHandler.ListUsers)
		private.Get("/booking", cfg.BookingHandler.ListByPatient)
		private.Get("/booking/{id}", cfg.BookingHandler.GetByID)

		// Admin-only endpoints
		private.Group(func(admin chi.Router) {
			admin.Use(requireAdmin)

			admin.Put("/user/admin/{email}", cfg.DirectoryHandler.PromoteUser)
			admin.Post("/doctor", cfg.DirectoryHandler.AddDoctor)
			admin.Get("/doctor", cfg.DirectoryHandler.ListDoctors)
			admin.Delete("/doctor/{email}", cfg.DirectoryHandler.DeleteDoctor)
		})
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// EmailNotifier bridges booking creation events to the email dispatcher.
type EmailNotifier struct {
	dispatcher *notify.Dispatcher
}

func NewEmailNotifier(d *notify.Dispatcher) *EmailNotifier {
	return &EmailNotifier{dispatcher: d}
}

// BookingCreated queues a confirmation email for a freshly created booking.
func (n *EmailNotifier) BookingCreated(b booking.Booking) {
	if n == nil || n.dispatcher == nil {
		return
	}
	n.dispatcher.Enqueue(notify.ConfirmationEmail(notify.Appointment{
		Patient:     b.Patient,
		PatientName: b.PatientName,
		Treatment:   b.Treatment,
		Date:        b.Date,
		Slot:        b.Slot,
	}))
}
