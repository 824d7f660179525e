package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type postgresStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewPostgresStore: сессии в таблице bot_sessions (драйвер lib/pq подключается в main).
func NewPostgresStore(db *sql.DB, ttl time.Duration) Store {
	return &postgresStore{db: db, ttl: ttl, now: time.Now}
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS bot_sessions (
			telegram_id BIGINT PRIMARY KEY,
			state       TEXT NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("create bot_sessions: %w", err)
	}
	return nil
}

func (s *postgresStore) Get(ctx context.Context, telegramID int64) (Session, error) {
	var (
		sess  Session
		state string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT telegram_id, state, updated_at
		FROM bot_sessions
		WHERE telegram_id = $1
	`, telegramID).Scan(&sess.TelegramID, &state, &sess.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return idle(telegramID), nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session %d: %w", telegramID, err)
	}

	sess.State = State(state)
	if !sess.State.Valid() || expired(sess.UpdatedAt, s.ttl, s.now()) {
		return idle(telegramID), nil
	}

	return sess, nil
}

func (s *postgresStore) Set(ctx context.Context, telegramID int64, state State) error {
	if !state.Valid() {
		return fmt.Errorf("unknown session state %q", state)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bot_sessions (telegram_id, state, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (telegram_id)
		DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at
	`, telegramID, string(state))
	if err != nil {
		return fmt.Errorf("set session %d: %w", telegramID, err)
	}
	return nil
}

func (s *postgresStore) Clear(ctx context.Context, telegramID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM bot_sessions
		WHERE telegram_id = $1
	`, telegramID)
	if err != nil {
		return fmt.Errorf("clear session %d: %w", telegramID, err)
	}
	return nil
}
