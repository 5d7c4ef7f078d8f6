package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes events to an slog.Logger.
// Useful for development when you want to see object events in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("object", event.Object.String()),
		slog.String("source", event.Source.String()),
		slog.String("category", event.Category.String()),
	}
	if event.EventID != "" {
		attrs = append(attrs, slog.String("event_id", event.EventID))
	}

	switch {
	case event.Notification != nil:
		n := event.Notification
		attrs = append(attrs,
			slog.Uint64("class", uint64(n.NotificationClass)),
			slog.Uint64("priority", uint64(n.Priority)),
			slog.String("notify_type", n.NotifyType.String()),
			slog.String("from", n.FromState.String()),
			slog.String("to", n.ToState.String()),
			slog.Bool("ack_required", n.AckRequired),
		)
		if n.Message != "" {
			attrs = append(attrs, slog.String("message", n.Message))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState.String()),
			slog.String("new_state", event.StateChange.NewState.String()),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Write != nil:
		attrs = append(attrs,
			slog.String("property", event.Write.Property.String()),
			slog.String("status", event.Write.Status),
		)
		if event.Write.Priority != 0 {
			attrs = append(attrs, slog.Uint64("priority", uint64(event.Write.Priority)))
		}
		if event.Write.ArrayIndex != nil {
			attrs = append(attrs, slog.Uint64("array_index", uint64(*event.Write.ArrayIndex)))
		}
	case event.Ack != nil:
		attrs = append(attrs,
			slog.String("event_state", event.Ack.EventState.String()),
			slog.String("status", event.Ack.Status),
		)
		if event.Ack.AckSource != "" {
			attrs = append(attrs, slog.String("ack_source", event.Ack.AckSource))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_source", event.Error.Source.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
		if event.Error.Code != nil {
			attrs = append(attrs, slog.Int("error_code", *event.Error.Code))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "object event", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
