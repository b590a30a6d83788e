package booking

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Record, error)
}

// Service absorbs persistence failures: callers only see a record or nil.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Lookup returns the booking, or nil when the id is empty, unknown or the
// database cannot be reached.
func (s *Service) Lookup(ctx context.Context, id int64) *Record {
	if id <= 0 {
		return nil
	}
	rec, err := s.repo.Get(ctx, id)
	switch {
	case err == nil:
		return rec
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnavailable):
		return nil
	default:
		s.logger.Warn("booking lookup failed", zap.Int64("booking_id", id), zap.Error(err))
		return nil
	}
}
