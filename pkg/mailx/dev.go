package mailx

import (
	"context"
	"log/slog"
)

// DevSender logs notifications instead of sending them. Used in dev and in
// tests where outbound mail would be noise.
type DevSender struct {
	Logger *slog.Logger
}

func NewDevSender(logger *slog.Logger) *DevSender {
	return &DevSender{Logger: logger}
}

func (s *DevSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	s.Logger.Info("dev mail (not sent)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("tag", msg.Tag),
		slog.String("body", msg.Body),
	)
	return nil
}
