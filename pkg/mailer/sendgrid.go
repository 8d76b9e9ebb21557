package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/noah-isme/assignment-organizer/pkg/config"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridTransport delivers through the SendGrid v3 HTTP API. The API is
// stateless so Login only checks configuration.
type SendgridTransport struct {
	key    string
	host   string
	from   *sgmail.Email
	logger *zap.Logger
}

func NewSendgridTransport(cfg config.MailConfig, logger *zap.Logger) *SendgridTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SendgridTransport{
		key:    cfg.SendgridAPIKey,
		host:   sendgridHost,
		from:   sgmail.NewEmail(cfg.Subject, cfg.From),
		logger: logger,
	}
}

func (t *SendgridTransport) Login(context.Context) error {
	if t.key == "" {
		return fmt.Errorf("sendgrid api key missing")
	}
	return nil
}

func (t *SendgridTransport) Send(ctx context.Context, msg Message) error {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail("", msg.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(t.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", msg.HTML))

	req := sendgrid.GetRequest(t.key, sendgridEndpoint, t.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return transient(fmt.Errorf("sendgrid request: %w", err))
	}
	switch {
	case res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= http.StatusInternalServerError:
		return transient(fmt.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body))
	case res.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("sendgrid rejected message to %s: status %d: %s", msg.To, res.StatusCode, res.Body)
	}
	return nil
}

func (t *SendgridTransport) Close() error { return nil }
