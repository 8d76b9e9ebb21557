package mailer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/assignment-organizer/pkg/config"
	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
)

func TestNewSelectsDriver(t *testing.T) {
	tr, err := New(config.MailConfig{Driver: config.MailDriverConsole}, nil)
	require.NoError(t, err)
	assert.IsType(t, &ConsoleTransport{}, tr)

	tr, err = New(config.MailConfig{Driver: config.MailDriverSMTP, SMTPHost: "smtp.example.com", SMTPPort: 587}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SMTPTransport{}, tr)

	_, err = New(config.MailConfig{Driver: config.MailDriverSendgrid}, nil)
	require.Error(t, err)

	_, err = New(config.MailConfig{Driver: "pigeon"}, nil)
	require.Error(t, err)
}

func TestClassifySMTPError(t *testing.T) {
	refused := &mail.SendError{Reason: mail.ErrSMTPMailFrom}
	assert.True(t, appErrors.IsTransientTransport(classifySMTPError(refused)))

	dropped := &mail.SendError{Reason: mail.ErrConnCheck}
	assert.True(t, appErrors.IsTransientTransport(classifySMTPError(dropped)))

	badRecipient := &mail.SendError{Reason: mail.ErrSMTPRcptTo}
	assert.False(t, appErrors.IsTransientTransport(classifySMTPError(badRecipient)))

	assert.False(t, appErrors.IsTransientTransport(classifySMTPError(errors.New("boom"))))
}

func TestSMTPSendWithoutSessionIsTransient(t *testing.T) {
	tr := NewSMTPTransport(config.MailConfig{From: "noreply@example.com"}, nil)
	err := tr.Send(context.Background(), Message{To: "a@example.com", Subject: "s", HTML: "b"})
	assert.True(t, appErrors.IsTransientTransport(err))
	assert.NoError(t, tr.Close())
}

func TestSendgridTransport(t *testing.T) {
	status := http.StatusAccepted
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.WriteHeader(status)
	}))
	defer srv.Close()

	tr := NewSendgridTransport(config.MailConfig{SendgridAPIKey: "key", From: "noreply@example.com", Subject: "Assignment Organizer"}, nil)
	tr.host = srv.URL
	require.NoError(t, tr.Login(context.Background()))

	msg := Message{To: "alice@example.com", Subject: "Assignment Organizer", HTML: "Dear Alice,<br>"}
	require.NoError(t, tr.Send(context.Background(), msg))
	assert.Contains(t, body, "alice@example.com")

	status = http.StatusServiceUnavailable
	assert.True(t, appErrors.IsTransientTransport(tr.Send(context.Background(), msg)))

	status = http.StatusBadRequest
	err := tr.Send(context.Background(), msg)
	require.Error(t, err)
	assert.False(t, appErrors.IsTransientTransport(err))
}

func TestConsoleTransportLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	tr := NewConsoleTransport(zap.New(core))

	require.NoError(t, tr.Login(context.Background()))
	require.NoError(t, tr.Send(context.Background(), Message{To: "bob@example.com", Subject: "hi", HTML: "body"}))

	entries := logs.FilterMessage("email").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "bob@example.com", entries[0].ContextMap()["to"])
}
