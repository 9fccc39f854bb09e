package directory

import (
	"regexp"
	"strings"
	"time"
)

// Role is the closed set of directory roles. Anything else stored in the
// role column compares as non-admin.
type Role string

const (
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
)

// User is a directory record keyed by email.
type User struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertUserRequest carries the self-service profile fields. The role is
// never writable through the upsert.
type UpsertUserRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Doctor is a staff record, independent of the users collection.
type Doctor struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	ImageURL  string    `json:"img,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidEmail reports whether s can key a directory record.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// Validate validates a staff record before insertion.
func (d *Doctor) Validate() error {
	if !ValidEmail(d.Email) {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(d.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(d.Specialty) == "" {
		return ErrMissingSpecialty
	}
	return nil
}
