package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/noah-isme/assignment-organizer/pkg/config"
)

const smtpTimeout = 30 * time.Second

// SMTPTransport keeps one authenticated SMTP session open between Login calls.
type SMTPTransport struct {
	cfg    config.MailConfig
	logger *zap.Logger
	client *mail.Client
}

func NewSMTPTransport(cfg config.MailConfig, logger *zap.Logger) *SMTPTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPTransport{cfg: cfg, logger: logger}
}

// Login drops any existing session and authenticates a new one.
func (t *SMTPTransport) Login(ctx context.Context) error {
	_ = t.Close()

	opts := []mail.Option{
		mail.WithPort(t.cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(smtpTimeout),
	}
	if t.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(t.cfg.Username),
			mail.WithPassword(t.cfg.Password),
		)
	}

	client, err := mail.NewClient(t.cfg.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("configure smtp client: %w", err)
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp login: %w", err)
	}
	t.client = client
	t.logger.Sugar().Infow("smtp session opened", "host", t.cfg.SMTPHost, "port", t.cfg.SMTPPort)
	return nil
}

func (t *SMTPTransport) Send(_ context.Context, msg Message) error {
	if t.client == nil {
		return transient(errors.New("smtp session not established"))
	}

	m := mail.NewMsg()
	if err := m.From(t.cfg.From); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("set recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)

	if err := t.client.Send(m); err != nil {
		return classifySMTPError(err)
	}
	return nil
}

func (t *SMTPTransport) Close() error {
	if t.client == nil {
		return nil
	}
	err := t.client.Close()
	t.client = nil
	return err
}

// classifySMTPError marks sender refusals, temporary 4xx replies and lost
// connections as transient. A fresh session is expected to clear them.
func classifySMTPError(err error) error {
	var sendErr *mail.SendError
	if errors.As(err, &sendErr) {
		if sendErr.IsTemp() || sendErr.Reason == mail.ErrSMTPMailFrom || sendErr.Reason == mail.ErrConnCheck {
			return transient(err)
		}
	}
	return fmt.Errorf("smtp send: %w", err)
}
