package api

import (
	"log/slog"
)

// CallEvent records metadata about a single API round trip.
type CallEvent struct {
	Method    string
	Path      string
	Status    int // zero when no response was received
	RequestID string
	LatencyMs int64
	ErrorCode string
}

// Observer receives events about API calls for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a structured logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events through logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		"method", event.Method,
		"path", event.Path,
		"status", event.Status,
		"request_id", event.RequestID,
		"latency_ms", event.LatencyMs,
	}
	if event.ErrorCode != "" {
		o.logger.Warn("api_call", append(attrs, "error", event.ErrorCode)...)
		return
	}
	o.logger.Debug("api_call", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
