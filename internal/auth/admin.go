package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/clinichq/portal-api/pkg/logging"
)

// ErrUserNotFound is returned by RoleFinder implementations when no
// directory record exists for the identity.
var ErrUserNotFound = errors.New("auth: user not found")

// RoleFinder resolves the stored role for an identity.
type RoleFinder interface {
	FindRole(ctx context.Context, email string) (string, error)
}

// RoleAdmin is the only role that passes the admin gate.
const RoleAdmin = "admin"

// RequireAdmin permits the request only when the authenticated identity
// resolves to an admin directory record. An identity with no record denies
// rather than erroring: a valid token whose subject was since removed from
// the directory carries no privileges.
func RequireAdmin(roles RoleFinder, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			role, err := roles.FindRole(r.Context(), email)
			if errors.Is(err, ErrUserNotFound) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			if err != nil {
				logger.Error("admin gate: role lookup failed", "error", err, "email", email)
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}
			if role != RoleAdmin {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
