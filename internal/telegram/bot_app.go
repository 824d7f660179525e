package telegram

import (
	"context"
	"sync"

	"github.com/Vovarama1992/essay_bot/internal/dialog"
	"github.com/Vovarama1992/essay_bot/internal/error_notificator"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// BotAPI: подмножество *tgbotapi.BotAPI, которым пользуется бот
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Handler interface {
	Handle(ctx context.Context, telegramID int64, ev dialog.Event, reply dialog.ReplyFunc) error
}

type BotApp struct {
	bot        BotAPI
	controller Handler
	notifier   error_notificator.Notificator
	log        *zap.SugaredLogger

	inFlight sync.WaitGroup
}

func NewBotApp(
	bot BotAPI,
	controller Handler,
	notifier error_notificator.Notificator,
	log *zap.SugaredLogger,
) *BotApp {
	return &BotApp{
		bot:        bot,
		controller: controller,
		notifier:   notifier,
		log:        log,
	}
}

func (app *BotApp) registerCommands() {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: dialog.CmdStart, Description: "Главное меню"},
		tgbotapi.BotCommand{Command: dialog.CmdHelp, Description: "Помощь"},
	)
	if _, err := app.bot.Request(cfg); err != nil {
		app.log.Warnw("[bot_app] setMyCommands fail", "err", err)
	}
}
