package dialog

import (
	"strings"

	"github.com/Vovarama1992/essay_bot/internal/sessions"
)

// Dispatch: чистая функция переходов, без I/O.
// Выбор пункта меню всегда перезаписывает ожидание (последний выбор побеждает).
func Dispatch(state sessions.State, ev Event) Outcome {
	switch ev.Kind {

	case EventCommand:
		switch ev.Command {
		case CmdStart:
			return Outcome{
				Next:    sessions.StateIdle,
				Replies: []Reply{{Text: MsgGreeting, Menu: MenuMain}},
			}
		case CmdHelp:
			return stay(state, Reply{Text: MsgHelp})
		case CmdMenu:
			return stay(state, Reply{Text: MsgMainMenu, Menu: MenuMain})
		}
		// прочие команды считаем обычным текстом
		return onText(state, ev.Text)

	case EventCallback:
		switch ev.Data {
		case CbGenerate:
			return Outcome{
				Next:    sessions.StateAwaitingOutline,
				Replies: []Reply{{Text: MsgAskOutline}},
			}
		case CbCheck:
			return Outcome{
				Next:    sessions.StateAwaitingCheckText,
				Replies: []Reply{{Text: MsgAskCheck}},
			}
		case CbCheckText:
			return Outcome{
				Next:    sessions.StateAwaitingCheckText,
				Replies: []Reply{{Text: MsgAskCheckText}},
			}
		case CbHelp:
			return stay(state, Reply{Text: MsgHelp})
		case CbMenu:
			return stay(state, Reply{Text: MsgMainMenu, Menu: MenuMain})
		}
		return stay(state, Reply{Text: MsgUnknownAction, Menu: MenuMain})

	case EventText:
		return onText(state, ev.Text)
	}

	if state == sessions.StateIdle {
		return stay(state, Reply{Text: MsgChooseAction, Menu: MenuMain})
	}
	return stay(state, Reply{Text: MsgNeedText})
}

func onText(state sessions.State, text string) Outcome {
	payload := strings.TrimSpace(text)

	switch state {
	case sessions.StateAwaitingOutline:
		return Outcome{
			Next:    sessions.StateIdle,
			Replies: []Reply{{Text: MsgGenerating}},
			Call:    &Call{Kind: CallGenerate, Payload: payload},
		}
	case sessions.StateAwaitingCheckText:
		return Outcome{
			Next:    sessions.StateIdle,
			Replies: []Reply{{Text: MsgChecking}},
			Call:    &Call{Kind: CallCheck, Payload: payload},
		}
	}

	return stay(sessions.StateIdle, Reply{Text: MsgChooseAction, Menu: MenuMain})
}

func stay(state sessions.State, r Reply) Outcome {
	return Outcome{Next: state, Replies: []Reply{r}}
}
