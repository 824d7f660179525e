package error_notificator

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Infra struct {
	bot         Sender
	adminChatID int64
	log         *zap.SugaredLogger
}

// NewInfra: adminChatID == 0 значит, что ошибки только пишутся в лог
func NewInfra(bot Sender, adminChatID int64, log *zap.SugaredLogger) *Infra {
	return &Infra{bot: bot, adminChatID: adminChatID, log: log}
}

func (i *Infra) Notify(ctx context.Context, err error, details string) error {
	i.log.Errorw("[error_notificator] "+details, "err", err)

	if i.adminChatID == 0 || i.bot == nil {
		return nil
	}

	text := fmt.Sprintf(
		"❗ Ошибка в боте\n\nОшибка: %v\n\nДетали: %s",
		err,
		details,
	)

	if _, sendErr := i.bot.Send(tgbotapi.NewMessage(i.adminChatID, text)); sendErr != nil {
		i.log.Warnw("[error_notificator] send fail", "chat_id", i.adminChatID, "err", sendErr)
		return sendErr
	}

	return nil
}
