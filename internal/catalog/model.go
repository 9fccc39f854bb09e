package catalog

import "errors"

// Service is a bookable treatment with its fixed daily slot schedule.
// Slot ordering is part of the catalog and is preserved everywhere.
type Service struct {
	ID    int      `json:"id,omitempty"`
	Name  string   `json:"name"`
	Slots []string `json:"slots"`
}

// ErrServiceNotFound is returned when a treatment name matches no service.
var ErrServiceNotFound = errors.New("catalog: service not found")
