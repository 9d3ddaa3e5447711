package state

import (
	"context"
	"log/slog"
)

// SlogSink logs every published state.
type SlogSink struct {
	// Logger defaults to slog.Default() when nil.
	Logger *slog.Logger
}

func (s SlogSink) Publish(ctx context.Context, states []State) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, st := range states {
		logger.InfoContext(ctx, "state", "key", st.Key, "value", st.Value)
	}
	return nil
}
