package sessions

import (
	"context"
	"time"
)

type State string

const (
	StateIdle              State = "idle"
	StateAwaitingOutline   State = "awaiting_outline"
	StateAwaitingCheckText State = "awaiting_check_text"
)

func (s State) Valid() bool {
	switch s {
	case StateIdle, StateAwaitingOutline, StateAwaitingCheckText:
		return true
	}
	return false
}

type Session struct {
	TelegramID int64     `json:"telegram_id"`
	State      State     `json:"state"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store: хранилище состояний диалога, ключ: telegram id пользователя.
// Отсутствующая (или протухшая) сессия читается как Idle.
type Store interface {
	Get(ctx context.Context, telegramID int64) (Session, error)
	Set(ctx context.Context, telegramID int64, state State) error
	Clear(ctx context.Context, telegramID int64) error
}

func idle(telegramID int64) Session {
	return Session{TelegramID: telegramID, State: StateIdle}
}

func expired(updatedAt time.Time, ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(updatedAt) > ttl
}
