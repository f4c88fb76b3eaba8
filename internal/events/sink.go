package events

import (
	"context"
	"log/slog"
)

// Sink delivers an Event to an upstream controller. Implementations are
// expected to be best-effort: Push returning an error only logs, it never
// blocks or retries subsequent events.
type Sink interface {
	Push(ctx context.Context, ev Event) error
}

// LogSink is a Sink that logs every event instead of delivering it
// anywhere. It is the default when no upstream push target is configured.
// Pump does not use it: Pump logs a configured Sink's failures through its
// own logger.
type LogSink struct {
	Log *slog.Logger
}

// Push logs ev at debug level and never fails.
func (s LogSink) Push(_ context.Context, ev Event) error {
	s.Log.Debug("device event",
		slog.String("kind", string(ev.Kind)),
		slog.Uint64("address", uint64(ev.Address)),
		slog.Int("subDevice", int(ev.SubDevice)),
	)
	return nil
}

// Pump drains a Subscription and offers each decoded Event to sink,
// logging and continuing on any per-event failure so one bad push never
// stalls the rest. It returns once ctx is done or the subscription's
// channel is closed.
func Pump(ctx context.Context, sub Subscription, sink Sink, log *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-sub.Channel():
			if !ok {
				return
			}
			ev, err := Decode(raw)
			if err != nil {
				log.Warn("dropping malformed device event", slog.String("error", err.Error()))
				continue
			}
			if err := sink.Push(ctx, ev); err != nil {
				log.Warn("upstream push failed", slog.String("kind", string(ev.Kind)), slog.String("error", err.Error()))
			}
		}
	}
}
