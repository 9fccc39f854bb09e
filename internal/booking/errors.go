package booking

import "errors"

var (
	// ErrInvalidPatient is returned when the patient identity is not email-shaped
	ErrInvalidPatient = errors.New("patient must be an email address")

	// ErrMissingPatientName is returned when the display name is absent
	ErrMissingPatientName = errors.New("patientName is required")

	// ErrInvalidDate is returned when the date is not YYYY-MM-DD
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

	// ErrMissingTreatment is returned when no treatment is named
	ErrMissingTreatment = errors.New("treatment is required")

	// ErrMissingSlot is returned when no slot is named
	ErrMissingSlot = errors.New("slot is required")

	// ErrBookingNotFound is returned when an id matches no booking
	ErrBookingNotFound = errors.New("booking not found")
)
