package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/clinichq/portal-api/pkg/logging"
)

// BookingSource reports which slots are already taken on a date, keyed by
// treatment name.
type BookingSource interface {
	SlotsBookedOn(ctx context.Context, date string) (map[string][]string, error)
}

// Handler serves the service catalog and daily availability.
type Handler struct {
	repo     Repository
	bookings BookingSource
	logger   *logging.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(repo Repository, bookings BookingSource, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, bookings: bookings, logger: logger}
}

// ServiceName is the projection returned by GET /service.
type ServiceName struct {
	Name string `json:"name"`
}

// ListServices handles GET /service, returning service names only.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.repo.ListServices(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", "error", err)
		http.Error(w, "failed to list services", http.StatusServiceUnavailable)
		return
	}

	names := make([]ServiceName, 0, len(services))
	for _, svc := range services {
		names = append(names, ServiceName{Name: svc.Name})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(names)
}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Availability handles GET /available?date=YYYY-MM-DD. It returns every
// service with its slots reduced to the ones still open on that date.
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if !datePattern.MatchString(date) {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	services, err := h.repo.ListServices(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", "error", err, "date", date)
		http.Error(w, "failed to compute availability", http.StatusServiceUnavailable)
		return
	}

	booked, err := h.bookings.SlotsBookedOn(r.Context(), date)
	if err != nil {
		h.logger.Error("failed to load bookings", "error", err, "date", date)
		http.Error(w, "failed to compute availability", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(OpenSlots(services, booked))
}
