// Package mailx sends outbound email. SMTPSender delivers through an SMTP relay;
// LogSender only logs, for local development and tests.
package mailx

import (
	"context"
	"errors"
)

// Message is a single HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ErrNoRecipient is returned for a message without a To address.
var ErrNoRecipient = errors.New("mailx: message has no recipient")
