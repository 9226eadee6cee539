package mailx

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrInvalidConfig  = errors.New("mailx: invalid config")
	ErrInvalidMessage = errors.New("mailx: invalid message")
	ErrSendFailed     = errors.New("mailx: send failed")
)

// Intentionally loose; the real validation happened when the address was
// collected. This only catches obviously broken recipients.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidAddress reports whether s looks like a deliverable email address.
func ValidAddress(s string) bool { return emailRegex.MatchString(s) }

// Sender dispatches a notification email. Delivery is best effort: callers
// log failures but never roll back the state change that triggered the mail.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a single outbound notification.
type Message struct {
	To      string // recipient address
	Subject string
	Body    string // plain text body
	Tag     string // optional category tag for provider-side analytics
}

// Validate checks the message is deliverable.
func (m Message) Validate() error {
	if !emailRegex.MatchString(m.To) {
		return fmt.Errorf("%w: bad recipient %q", ErrInvalidMessage, m.To)
	}
	if m.Subject == "" {
		return fmt.Errorf("%w: empty subject", ErrInvalidMessage)
	}
	if m.Body == "" {
		return fmt.Errorf("%w: empty body", ErrInvalidMessage)
	}
	return nil
}
