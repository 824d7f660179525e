package archive

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindEssay      Kind = "essay"
	KindPlagiarism Kind = "plagiarism"
)

// Entry: завершённый запрос пользователя: что прислал и что получил в ответ
type Entry struct {
	ID         string    `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Kind       Kind      `json:"kind"`
	Input      string    `json:"input"`
	Output     string    `json:"output"`
	CreatedAt  time.Time `json:"created_at"`
}

type Archive interface {
	Save(ctx context.Context, e Entry) error
}

func NewEntry(telegramID int64, kind Kind, input, output string) Entry {
	return Entry{
		ID:         uuid.NewString(),
		TelegramID: telegramID,
		Kind:       kind,
		Input:      input,
		Output:     output,
		CreatedAt:  time.Now().UTC(),
	}
}
