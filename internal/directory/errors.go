package directory

import "errors"

var (
	// ErrInvalidEmail is returned when an identity is not email-shaped
	ErrInvalidEmail = errors.New("email is invalid")

	// ErrMissingName is returned when a staff record has no name
	ErrMissingName = errors.New("name is required")

	// ErrMissingSpecialty is returned when a staff record has no specialty
	ErrMissingSpecialty = errors.New("specialty is required")

	// ErrUserNotFound is returned when an email matches no user record
	ErrUserNotFound = errors.New("user not found")

	// ErrDoctorNotFound is returned when an email matches no staff record
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrDoctorExists is returned when adding a staff email already on file
	ErrDoctorExists = errors.New("doctor already exists")
)
