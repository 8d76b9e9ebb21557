// Package mailer delivers notification emails through a session-based
// transport.
package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/assignment-organizer/pkg/config"
	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
)

// Message is a single HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Transport sends messages over a session that must be opened with Login.
// Transports are not safe for concurrent use; one worker owns the session.
type Transport interface {
	Login(ctx context.Context) error
	Send(ctx context.Context, msg Message) error
	Close() error
}

// New builds the transport selected by cfg.Driver.
func New(cfg config.MailConfig, logger *zap.Logger) (Transport, error) {
	switch cfg.Driver {
	case config.MailDriverSMTP:
		return NewSMTPTransport(cfg, logger), nil
	case config.MailDriverSendgrid:
		if cfg.SendgridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid driver requires SENDGRID_API_KEY")
		}
		return NewSendgridTransport(cfg, logger), nil
	case config.MailDriverConsole, "":
		return NewConsoleTransport(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.Driver)
	}
}

func transient(err error) error {
	return appErrors.WrapAs(appErrors.ErrTransientTransport, err, "")
}
