// README: Conversation store backed by PostgreSQL; creates its table on first write.
package conversation

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool

	schemaMu    sync.Mutex
	schemaReady bool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// ensureSchema creates ai_conversations until one attempt succeeds.
func (s *Store) ensureSchema(ctx context.Context) error {
	s.schemaMu.Lock()
	defer s.schemaMu.Unlock()
	if s.schemaReady {
		return nil
	}
	if _, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS ai_conversations (
			id         BIGSERIAL PRIMARY KEY,
			user_id    BIGINT NOT NULL,
			message    TEXT NOT NULL,
			role       TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx,
		`CREATE INDEX IF NOT EXISTS idx_ai_conversations_user ON ai_conversations (user_id, created_at DESC)`); err != nil {
		return err
	}
	s.schemaReady = true
	return nil
}

func (s *Store) Insert(ctx context.Context, userID int64, message string, role Role) error {
	if s.db == nil {
		return ErrUnavailable
	}
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO ai_conversations (user_id, message, role) VALUES ($1, $2, $3)`,
		userID, message, string(role),
	)
	return err
}

// Recent returns up to limit turns for the user, newest first.
func (s *Store) Recent(ctx context.Context, userID int64, limit int) ([]Turn, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	rows, err := s.db.Query(ctx, `
		SELECT message, role, created_at
		FROM ai_conversations
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Turn
	for rows.Next() {
		var t Turn
		var role string
		if err := rows.Scan(&t.Message, &role, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Role = Role(role)
		out = append(out, t)
	}
	return out, rows.Err()
}
