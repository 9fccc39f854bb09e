package directory

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinichq/portal-api/internal/auth"
	"github.com/clinichq/portal-api/pkg/logging"
)

// Handler handles HTTP requests for the user and staff directory.
type Handler struct {
	repo   Repository
	issuer *auth.TokenIssuer
	logger *logging.Logger
}

// NewHandler creates a new directory handler.
func NewHandler(repo Repository, issuer *auth.TokenIssuer, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, issuer: issuer, logger: logger}
}

// UpsertResponse is the response for PUT /user/{email}.
type UpsertResponse struct {
	Result *User  `json:"result"`
	Token  string `json:"token"`
}

// UpsertUser handles PUT /user/{email}. No authentication: this is the
// self-service profile write, and the fresh token it returns is how
// callers obtain credentials in the first place.
func (h *Handler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	var req UpsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.repo.UpsertUser(r.Context(), email, &req)
	if errors.Is(err, ErrInvalidEmail) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("failed to upsert user", "error", err, "email", email)
		http.Error(w, "failed to upsert user", http.StatusServiceUnavailable)
		return
	}

	token, err := h.issuer.Issue(u.Email)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err, "email", email)
		http.Error(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	h.logger.Info("user upserted", "email", u.Email)
	writeJSON(w, http.StatusOK, UpsertResponse{Result: u, Token: token})
}

// ListUsers handles GET /user.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		http.Error(w, "failed to list users", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// AdminStatusResponse is the response for GET /admin/{email}.
type AdminStatusResponse struct {
	Admin bool `json:"admin"`
}

// AdminStatus handles GET /admin/{email}. Unknown identities are plain
// non-admins, not errors.
func (h *Handler) AdminStatus(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	u, err := h.repo.GetUser(r.Context(), email)
	if errors.Is(err, ErrUserNotFound) {
		writeJSON(w, http.StatusOK, AdminStatusResponse{Admin: false})
		return
	}
	if err != nil {
		h.logger.Error("failed to check admin status", "error", err, "email", email)
		http.Error(w, "failed to check admin status", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, AdminStatusResponse{Admin: u.Role == RoleAdmin})
}

// PromoteResponse is the response for PUT /user/admin/{email}.
type PromoteResponse struct {
	Result *User `json:"result"`
}

// PromoteUser handles PUT /user/admin/{email}.
func (h *Handler) PromoteUser(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	u, err := h.repo.PromoteUser(r.Context(), email)
	if errors.Is(err, ErrUserNotFound) {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to promote user", "error", err, "email", email)
		http.Error(w, "failed to promote user", http.StatusServiceUnavailable)
		return
	}

	h.logger.Info("user promoted to admin", "email", email)
	writeJSON(w, http.StatusOK, PromoteResponse{Result: u})
}

// AddDoctor handles POST /doctor.
func (h *Handler) AddDoctor(w http.ResponseWriter, r *http.Request) {
	var d Doctor
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := h.repo.AddDoctor(r.Context(), &d)
	switch {
	case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrMissingName), errors.Is(err, ErrMissingSpecialty):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, ErrDoctorExists):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("failed to add doctor", "error", err, "email", d.Email)
		http.Error(w, "failed to add doctor", http.StatusServiceUnavailable)
		return
	}

	h.logger.Info("doctor added", "email", d.Email, "specialty", d.Specialty)
	writeJSON(w, http.StatusCreated, map[string]*Doctor{"result": &d})
}

// ListDoctors handles GET /doctor.
func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.repo.ListDoctors(r.Context())
	if err != nil {
		h.logger.Error("failed to list doctors", "error", err)
		http.Error(w, "failed to list doctors", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, doctors)
}

// DeleteDoctor handles DELETE /doctor/{email}.
func (h *Handler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	err := h.repo.DeleteDoctor(r.Context(), email)
	if errors.Is(err, ErrDoctorNotFound) {
		http.Error(w, "doctor not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to delete doctor", "error", err, "email", email)
		http.Error(w, "failed to delete doctor", http.StatusServiceUnavailable)
		return
	}

	h.logger.Info("doctor removed", "email", email)
	writeJSON(w, http.StatusOK, map[string]string{"result": "deleted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
