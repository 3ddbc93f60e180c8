package local

import (
	"context"
	"log/slog"

	"poltem/internal/identity"
)

// OTPSender delivers one-time codes. Production SMS and e-mail delivery
// belong to the hosted auth service; the local provider only logs.
type OTPSender interface {
	Send(ctx context.Context, purpose identity.OTPPurpose, destination, code string) error
}

type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, purpose identity.OTPPurpose, destination, code string) error {
	s.logger.InfoContext(ctx, "one-time code issued",
		"purpose", string(purpose),
		"destination", destination,
		"code", code,
	)
	return nil
}
