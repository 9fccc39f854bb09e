package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirmationEmail(t *testing.T) {
	msg := ConfirmationEmail(Appointment{
		Patient:     "pat@example.com",
		PatientName: "Pat Doe",
		Treatment:   "Teeth Cleaning",
		Date:        "2026-09-15",
		Slot:        "10:00",
	})

	assert.Equal(t, "pat@example.com", msg.To)
	assert.Equal(t, "Pat Doe", msg.ToName)
	for _, want := range []string{"Teeth Cleaning", "2026-09-15", "10:00"} {
		assert.Contains(t, msg.Subject, want)
		assert.Contains(t, msg.Body, want)
		assert.Contains(t, msg.HTML, want)
	}
	assert.Contains(t, msg.Body, "Hello Pat Doe")
}
