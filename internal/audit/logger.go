// Package audit records security and money-movement events. A Logger fans
// every event out to its sinks; sink failures are logged and never returned,
// so auditing cannot abort the operation being audited.
package audit

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const defaultSinkTimeout = 3 * time.Second

type Sink interface {
	Write(ctx context.Context, e Event) error
}

type SinkFunc func(ctx context.Context, e Event) error

func (f SinkFunc) Write(ctx context.Context, e Event) error { return f(ctx, e) }

type Logger struct {
	sinks   []Sink
	log     zerolog.Logger
	now     func() time.Time
	timeout time.Duration
}

type Option func(*Logger)

func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

func WithSinkTimeout(d time.Duration) Option {
	return func(l *Logger) { l.timeout = d }
}

func New(log zerolog.Logger, sinks []Sink, opts ...Option) *Logger {
	l := &Logger{
		sinks:   sinks,
		log:     log,
		now:     time.Now,
		timeout: defaultSinkTimeout,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Record stamps e and hands it to every sink. A nil Logger drops the event.
// Sinks run detached from ctx cancellation with their own timeout.
func (l *Logger) Record(ctx context.Context, e Event) {
	if l == nil {
		return
	}

	if e.OccurredAt.IsZero() {
		e.OccurredAt = l.now().UTC()
	}

	sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
	defer cancel()

	for _, s := range l.sinks {
		err := s.Write(sinkCtx, e)
		if err != nil {
			l.log.Error().Err(err).
				Str("eventId", e.ID).
				Str("eventType", string(e.Type)).
				Msg("audit sink failed")
		}
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
