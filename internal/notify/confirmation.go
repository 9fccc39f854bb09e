package notify

import "fmt"

// Appointment carries the booking fields the confirmation email needs.
type Appointment struct {
	Patient     string
	PatientName string
	Treatment   string
	Date        string
	Slot        string
}

// ConfirmationEmail composes the booking confirmation message for a patient.
func ConfirmationEmail(a Appointment) EmailMessage {
	subject := fmt.Sprintf("Your appointment for %s on %s at %s is confirmed", a.Treatment, a.Date, a.Slot)
	body := fmt.Sprintf(`Hello %s,

Your appointment for %s is confirmed.
We look forward to seeing you on %s at %s.

Doctors Portal
AndorKilla Bandorbon, Bangladesh`, a.PatientName, a.Treatment, a.Date, a.Slot)

	html := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<p>Hello %s,</p>
<h3>Your appointment for %s is confirmed</h3>
<p>We look forward to seeing you on <strong>%s</strong> at <strong>%s</strong>.</p>
<h3>Our Address</h3>
<p>AndorKilla Bandorbon, Bangladesh</p>
</div>`, a.PatientName, a.Treatment, a.Date, a.Slot)

	return EmailMessage{
		To:      a.Patient,
		ToName:  a.PatientName,
		Subject: subject,
		Body:    body,
		HTML:    html,
	}
}
