package dialog

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/essay_bot/internal/archive"
	"github.com/Vovarama1992/essay_bot/internal/error_notificator"
	"github.com/Vovarama1992/essay_bot/internal/sessions"
	"go.uber.org/zap"
)

type Controller struct {
	store    sessions.Store
	locks    *sessions.Locks
	gateway  Gateway
	archive  archive.Archive
	notifier error_notificator.Notificator
	log      *zap.SugaredLogger
}

func NewController(
	store sessions.Store,
	gateway Gateway,
	arch archive.Archive,
	notifier error_notificator.Notificator,
	log *zap.SugaredLogger,
) *Controller {
	return &Controller{
		store:    store,
		locks:    sessions.NewLocks(),
		gateway:  gateway,
		archive:  arch,
		notifier: notifier,
		log:      log,
	}
}

// Handle обрабатывает одно событие пользователя. События одного пользователя
// выполняются строго по очереди.
func (c *Controller) Handle(ctx context.Context, telegramID int64, ev Event, reply ReplyFunc) error {
	unlock := c.locks.Lock(telegramID)
	defer unlock()

	sess, err := c.store.Get(ctx, telegramID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	out := Dispatch(sess.State, ev)

	// новое состояние пишем до внешнего вызова: после терминального ввода
	// сессия в Idle при любом исходе вызова
	if err := c.store.Set(ctx, telegramID, out.Next); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if out.Next != sess.State {
		c.log.Debugw("[dialog] transition", "tg", telegramID, "from", sess.State, "to", out.Next)
	}

	if out.Call == nil {
		for _, r := range out.Replies {
			if err := reply(ctx, r); err != nil {
				return err
			}
		}
		return nil
	}

	// ошибка промежуточного ответа не отменяет вызов
	for _, r := range out.Replies {
		if err := reply(ctx, r); err != nil {
			c.log.Warnw("[dialog] interim reply fail", "tg", telegramID, "err", err)
		}
	}
	return c.perform(ctx, telegramID, *out.Call, reply)
}

func (c *Controller) perform(ctx context.Context, telegramID int64, call Call, reply ReplyFunc) error {
	var (
		result string
		err    error
		kind   archive.Kind
		prefix string
		menu   Menu
	)

	switch call.Kind {
	case CallGenerate:
		kind, prefix, menu = archive.KindEssay, MsgEssayResult, MenuAfterEssay
		result, err = c.gateway.Generate(ctx, call.Payload)
	case CallCheck:
		kind, prefix, menu = archive.KindPlagiarism, MsgCheckResult, MenuMain
		result, err = c.gateway.CheckPlagiarism(ctx, call.Payload)
	default:
		return fmt.Errorf("unknown call kind %d", call.Kind)
	}

	if err != nil {
		_ = c.notifier.Notify(ctx, err, fmt.Sprintf("%s failed\nПользователь: %d", kind, telegramID))
		return reply(ctx, Reply{Text: MsgServiceUnavailable, Menu: MenuMain})
	}

	if err := reply(ctx, Reply{Text: prefix + result, Menu: menu}); err != nil {
		return err
	}

	if err := c.archive.Save(ctx, archive.NewEntry(telegramID, kind, call.Payload, result)); err != nil {
		c.log.Warnw("[dialog] archive fail", "tg", telegramID, "kind", kind, "err", err)
	}

	return nil
}
