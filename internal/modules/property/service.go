package property

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

type Repository interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]Listing, error)
}

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

// ListForOwner never fails; an unreachable database yields an empty list.
func (s *Service) ListForOwner(ctx context.Context, ownerID int64) []Listing {
	if ownerID <= 0 {
		return []Listing{}
	}
	listings, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			s.logger.Warn("list owner properties failed", zap.Int64("owner_id", ownerID), zap.Error(err))
		}
		return []Listing{}
	}
	if listings == nil {
		return []Listing{}
	}
	return listings
}
