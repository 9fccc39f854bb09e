package booking

import (
	"regexp"
	"strings"
	"time"
)

// Booking is a confirmed appointment. The storage id is incidental; the
// (treatment, date, patient) triple is the natural key and at most one
// booking may exist per triple.
type Booking struct {
	ID          string    `json:"id"`
	Patient     string    `json:"patient"`
	PatientName string    `json:"patientName"`
	Date        string    `json:"date"`
	Treatment   string    `json:"treatment"`
	Slot        string    `json:"slot"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateBookingRequest is the request body for creating a booking.
type CreateBookingRequest struct {
	Patient     string `json:"patient"`
	PatientName string `json:"patientName"`
	Date        string `json:"date"`
	Treatment   string `json:"treatment"`
	Slot        string `json:"slot"`
}

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Validate validates the create booking request
func (r *CreateBookingRequest) Validate() error {
	if !emailPattern.MatchString(strings.TrimSpace(r.Patient)) {
		return ErrInvalidPatient
	}
	if strings.TrimSpace(r.PatientName) == "" {
		return ErrMissingPatientName
	}
	if !datePattern.MatchString(r.Date) {
		return ErrInvalidDate
	}
	if strings.TrimSpace(r.Treatment) == "" {
		return ErrMissingTreatment
	}
	if strings.TrimSpace(r.Slot) == "" {
		return ErrMissingSlot
	}
	return nil
}
