package quota

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Counter interface {
	Incr(ctx context.Context, userID int64, now time.Time) (int64, error)
}

// Service enforces the monthly allowance. A nil counter or a non-positive
// limit disables it.
type Service struct {
	counter Counter
	limit   int64
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(counter Counter, limit int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{counter: counter, limit: int64(limit), logger: logger, now: time.Now}
}

func (s *Service) Enabled() bool {
	return s != nil && s.counter != nil && s.limit > 0
}

// UseToken consumes one call from the user's allowance for the current month.
// Anonymous callers are not metered. Redis errors fail open.
func (s *Service) UseToken(ctx context.Context, userID int64) error {
	if !s.Enabled() || userID == 0 {
		return nil
	}
	n, err := s.counter.Incr(ctx, userID, s.now())
	if err != nil {
		s.logger.Warn("quota check failed; allowing request", zap.Int64("user_id", userID), zap.Error(err))
		return nil
	}
	if n > s.limit {
		return ErrExhausted
	}
	return nil
}
