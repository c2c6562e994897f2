package mail

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Default is the process-wide mailer used by handlers.
var Default Mailer = NopMailer{}

type Config struct {
	Provider string // "smtp" | "ses" | "" (log only)
	From     string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	AWSRegion string
}

// New picks the provider named in cfg.
func New(ctx context.Context, cfg Config, log *zap.Logger) (Mailer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("smtp mailer requires SMTP_HOST")
		}
		return NewSMTPMailer(cfg), nil
	case "ses":
		return NewSESMailer(ctx, cfg)
	case "", "none", "log":
		return NopMailer{Log: log}, nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

// NopMailer only logs. Used in development and tests.
type NopMailer struct {
	Log *zap.Logger
}

func (m NopMailer) Send(_ context.Context, msg Message) error {
	if m.Log != nil {
		m.Log.Info("mail not sent (no provider)",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
		)
	}
	return nil
}
