package audit

import (
	"context"
	"log/slog"

	"census/pkg/platform/circuit"
)

// FallbackStore appends to primary and diverts events to fallback while the
// breaker is open. Primary is still attempted for every event so consecutive
// successes can close the circuit again.
type FallbackStore struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewFallbackStore(primary, fallback Store, breaker *circuit.Breaker, logger *slog.Logger) *FallbackStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackStore{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (s *FallbackStore) Append(ctx context.Context, event Event) error {
	err := s.primary.Append(ctx, event)
	if err == nil {
		if _, change := s.breaker.RecordSuccess(); change.Closed {
			s.logger.InfoContext(ctx, "audit sink recovered", "breaker", s.breaker.Name())
		}
		return nil
	}

	useFallback, change := s.breaker.RecordFailure()
	if change.Opened {
		s.logger.WarnContext(ctx, "audit sink circuit opened", "breaker", s.breaker.Name(), "error", err)
	}
	if useFallback {
		return s.fallback.Append(ctx, event)
	}
	return err
}
