package core

import "net/mail"

type (
	EmailMessage struct {
		To      []mail.Address
		Subject string
		Body    string
	}
)

func (m EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m EmailMessage) HasContent() bool    { return m.Subject != "" || m.Body != "" }

type (

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)
