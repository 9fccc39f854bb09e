package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinichq/portal-api/internal/auth"
	"github.com/clinichq/portal-api/internal/observability/metrics"
	"github.com/clinichq/portal-api/pkg/logging"
)

// Notifier receives fire-and-forget confirmation work for new bookings.
// Implementations must not block the request path.
type Notifier interface {
	BookingCreated(b Booking)
}

// Handler handles HTTP requests for bookings.
type Handler struct {
	repo     Repository
	notifier Notifier
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

// NewHandler creates a new booking handler. notifier and m may be nil.
func NewHandler(repo Repository, notifier Notifier, m *metrics.BookingMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, notifier: notifier, metrics: m, logger: logger}
}

// CreateResponse is the response for POST /booking. Exactly one of Result
// and Booking is set: Result on a fresh insert, Booking when the submission
// duplicated an existing appointment.
type CreateResponse struct {
	Success bool          `json:"success"`
	Result  *CreateResult `json:"result,omitempty"`
	Booking *Booking      `json:"booking,omitempty"`
}

// CreateResult carries the storage outcome of a fresh insert.
type CreateResult struct {
	ID string `json:"id"`
}

// Create handles POST /booking. A resubmission of an existing
// (treatment, date, patient) triple is a safe no-op: no insert, no email,
// success=false with the existing booking attached.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	b, created, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		if isValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to create booking", "error", err, "patient", req.Patient)
		http.Error(w, "failed to create booking", http.StatusServiceUnavailable)
		return
	}

	h.metrics.ObserveCreate(created)

	if !created {
		h.logger.Info("duplicate booking suppressed",
			"treatment", b.Treatment, "date", b.Date, "patient", b.Patient)
		writeJSON(w, http.StatusOK, CreateResponse{Success: false, Booking: b})
		return
	}

	h.logger.Info("booking created",
		"id", b.ID, "treatment", b.Treatment, "date", b.Date, "slot", b.Slot)
	if h.notifier != nil {
		h.notifier.BookingCreated(*b)
	}
	writeJSON(w, http.StatusOK, CreateResponse{Success: true, Result: &CreateResult{ID: b.ID}})
}

// ListByPatient handles GET /booking?patient=email. The requested patient
// must match the authenticated identity.
func (h *Handler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing authorization header", http.StatusUnauthorized)
		return
	}

	patient := r.URL.Query().Get("patient")
	if patient == "" {
		http.Error(w, "missing patient parameter", http.StatusBadRequest)
		return
	}
	if patient != identity {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	bookings, err := h.repo.ListByPatient(r.Context(), patient)
	if err != nil {
		h.logger.Error("failed to list bookings", "error", err, "patient", patient)
		http.Error(w, "failed to list bookings", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, bookings)
}

// GetByID handles GET /booking/{id}. Authenticated callers may fetch any
// booking by id; the payment flow fetches bookings it does not own.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "invalid booking id", http.StatusBadRequest)
		return
	}

	b, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, ErrBookingNotFound) {
		http.Error(w, "booking not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch booking", "error", err, "id", id)
		http.Error(w, "failed to fetch booking", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrInvalidPatient) ||
		errors.Is(err, ErrMissingPatientName) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrMissingTreatment) ||
		errors.Is(err, ErrMissingSlot)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
