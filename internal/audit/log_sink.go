package audit

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSink writes events as structured log lines on a dedicated channel.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("channel", "audit").Logger()}
}

func (s *LogSink) Write(_ context.Context, e Event) error {
	level := zerolog.InfoLevel
	if e.Type == UnauthorizedAccess || e.Type == AuthFailure {
		level = zerolog.WarnLevel
	}

	ev := s.log.WithLevel(level).
		Str("eventId", e.ID).
		Str("eventType", string(e.Type)).
		Str("username", e.Username).
		Time("occurredAt", e.OccurredAt)

	if e.CustomerID != 0 {
		ev = ev.Int64("customerId", e.CustomerID)
	}

	if e.WalletID != 0 {
		ev = ev.Int64("walletId", e.WalletID)
	}

	if e.TransactionID != 0 {
		ev = ev.Int64("transactionId", e.TransactionID)
	}

	for k, v := range e.Details {
		ev = ev.Str(k, v)
	}

	ev.Msg(string(e.Type))

	return nil
}
