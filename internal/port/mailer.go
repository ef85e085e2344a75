package port

import "context"

type MailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	// Send delivers the message and returns the transport's message id
	Send(ctx context.Context, msg MailMessage) (string, error)
}
