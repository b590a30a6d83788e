package conversation

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

type Repository interface {
	Insert(ctx context.Context, userID int64, message string, role Role) error
	Recent(ctx context.Context, userID int64, limit int) ([]Turn, error)
}

// Service is the conversation memory used by the freeform assistant. Failures are
// logged and swallowed so a broken database never fails a user request.
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

// History returns the most recent turns in chronological order.
func (s *Service) History(ctx context.Context, userID int64, limit int) []Turn {
	if userID == 0 || limit <= 0 {
		return []Turn{}
	}
	turns, err := s.repo.Recent(ctx, userID, limit)
	if err != nil {
		s.warn("read conversation history failed", userID, err)
		return []Turn{}
	}
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	if turns == nil {
		turns = []Turn{}
	}
	return turns
}

// Append stores one turn and reports whether it was saved. A zero userID is a no-op.
func (s *Service) Append(ctx context.Context, userID int64, message string, role Role) bool {
	if userID == 0 {
		return false
	}
	if err := s.repo.Insert(ctx, userID, message, role); err != nil {
		s.warn("save conversation message failed", userID, err)
		return false
	}
	return true
}

func (s *Service) warn(msg string, userID int64, err error) {
	if errors.Is(err, ErrUnavailable) {
		return
	}
	s.logger.Warn(msg, zap.Int64("user_id", userID), zap.Error(err))
}
