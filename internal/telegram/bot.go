package telegram

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/essay_bot/internal/dialog"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/xid"
)

// Run: главный цикл получения апдейтов. Каждый апдейт обрабатывается
// в своей горутине; при отмене ctx ждём уже начатые обработки.
func (app *BotApp) Run(ctx context.Context) {
	app.registerCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := app.bot.GetUpdatesChan(u)
	app.log.Infow("[bot_loop] started")

	// начатые запросы доживают до ответа даже во время остановки
	handlerCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			app.bot.StopReceivingUpdates()
			app.inFlight.Wait()
			app.log.Infow("[bot_loop] stopped")
			return

		case upd, ok := <-updates:
			if !ok {
				app.inFlight.Wait()
				return
			}

			app.inFlight.Add(1)
			go func() {
				defer app.inFlight.Done()
				app.HandleUpdate(handlerCtx, upd)
			}()
		}
	}
}

func (app *BotApp) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	tgID, chatID, ev, ok := toEvent(upd)
	if !ok {
		return
	}

	reqID := xid.New().String()
	app.log.Infow("[bot_touch]", "req", reqID, "tg", tgID, "update", upd.UpdateID, "kind", ev.Kind)

	// всегда отвечаем Telegram на callback, иначе кнопка "висит"
	if upd.CallbackQuery != nil {
		if _, err := app.bot.Request(tgbotapi.NewCallback(upd.CallbackQuery.ID, "")); err != nil {
			app.log.Warnw("[callback] answer fail", "req", reqID, "err", err)
		}
	}

	reply := func(_ context.Context, r dialog.Reply) error {
		return app.send(chatID, r)
	}

	if err := app.controller.Handle(ctx, tgID, ev, reply); err != nil {
		app.log.Errorw("[bot_loop] handle fail", "req", reqID, "tg", tgID, "err", err)
		_ = app.notifier.Notify(ctx, err, fmt.Sprintf("Обработка апдейта %d\nПользователь: %d", upd.UpdateID, tgID))
	}
}

func toEvent(upd tgbotapi.Update) (tgID, chatID int64, ev dialog.Event, ok bool) {
	switch {
	case upd.Message != nil && upd.Message.From != nil && upd.Message.Chat != nil:
		msg := upd.Message

		switch {
		case msg.IsCommand():
			ev = dialog.Event{Kind: dialog.EventCommand, Command: msg.Command(), Text: msg.Text}
		case msg.Text != "":
			ev = dialog.Event{Kind: dialog.EventText, Text: msg.Text}
		default:
			ev = dialog.Event{Kind: dialog.EventOther}
		}
		return msg.From.ID, msg.Chat.ID, ev, true

	case upd.CallbackQuery != nil && upd.CallbackQuery.From != nil &&
		upd.CallbackQuery.Message != nil && upd.CallbackQuery.Message.Chat != nil:
		cb := upd.CallbackQuery
		ev = dialog.Event{Kind: dialog.EventCallback, Data: cb.Data}
		return cb.From.ID, cb.Message.Chat.ID, ev, true
	}

	return 0, 0, dialog.Event{}, false
}

func (app *BotApp) send(chatID int64, r dialog.Reply) error {
	parts := splitText(r.Text, maxMessageLen)

	for i, part := range parts {
		m := tgbotapi.NewMessage(chatID, part)
		if i == len(parts)-1 {
			if kb, ok := keyboardFor(r.Menu); ok {
				m.ReplyMarkup = kb
			}
		}

		if _, err := app.bot.Send(m); err != nil {
			return fmt.Errorf("send message chat=%d: %w", chatID, err)
		}
	}
	return nil
}
