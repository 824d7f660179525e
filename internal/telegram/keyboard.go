package telegram

import (
	"github.com/Vovarama1992/essay_bot/internal/dialog"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func mainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Сгенерировать сочинение", dialog.CbGenerate),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Проверить текст на плагиат", dialog.CbCheck),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Помощь", dialog.CbHelp),
		),
	)
}

// afterEssayKeyboard: под готовым сочинением
func afterEssayKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Проверить это сочинение на плагиат", dialog.CbCheckText),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Главное меню", dialog.CbMenu),
		),
	)
}

func keyboardFor(m dialog.Menu) (tgbotapi.InlineKeyboardMarkup, bool) {
	switch m {
	case dialog.MenuMain:
		return mainKeyboard(), true
	case dialog.MenuAfterEssay:
		return afterEssayKeyboard(), true
	}
	return tgbotapi.InlineKeyboardMarkup{}, false
}
