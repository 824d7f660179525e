package dialog

import (
	"context"

	"github.com/Vovarama1992/essay_bot/internal/sessions"
)

type EventKind int

const (
	EventText EventKind = iota
	EventCommand
	EventCallback
	EventOther
)

// Event: входящее сообщение, уже отвязанное от транспорта
type Event struct {
	Kind    EventKind
	Command string // для EventCommand, без слэша
	Data    string // для EventCallback
	Text    string // текст сообщения (для EventCommand целиком, со слэшем)
}

type Menu int

const (
	MenuNone Menu = iota
	MenuMain
	MenuAfterEssay
)

type Reply struct {
	Text string
	Menu Menu
}

type CallKind int

const (
	CallGenerate CallKind = iota + 1
	CallCheck
)

type Call struct {
	Kind    CallKind
	Payload string
}

// Outcome: результат перехода: новое состояние, что ответить сразу
// и (опционально) какой внешний вызов сделать
type Outcome struct {
	Next    sessions.State
	Replies []Reply
	Call    *Call
}

type ReplyFunc func(ctx context.Context, r Reply) error

type Gateway interface {
	Generate(ctx context.Context, outline string) (string, error)
	CheckPlagiarism(ctx context.Context, text string) (string, error)
}
