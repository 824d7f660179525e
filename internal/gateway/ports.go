package gateway

import "context"

// EssayClient: генерация сочинения по структуре.
// error только для транспортных сбоев; ответы API с ошибкой возвращаются строкой.
type EssayClient interface {
	Generate(ctx context.Context, outline string) (string, error)
}

// PlagiarismClient: проверка уникальности текста, контракт ошибок тот же.
type PlagiarismClient interface {
	Check(ctx context.Context, text string) (string, error)
}
