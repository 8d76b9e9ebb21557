package mailer

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleTransport writes messages to the log instead of sending them.
type ConsoleTransport struct {
	logger *zap.Logger
}

func NewConsoleTransport(logger *zap.Logger) *ConsoleTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleTransport{logger: logger}
}

func (t *ConsoleTransport) Login(context.Context) error { return nil }

func (t *ConsoleTransport) Send(_ context.Context, msg Message) error {
	t.logger.Info("email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.HTML),
	)
	return nil
}

func (t *ConsoleTransport) Close() error { return nil }
