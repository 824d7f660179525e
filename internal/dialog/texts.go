package dialog

const (
	CbGenerate  = "generate"
	CbCheck     = "check"
	CbCheckText = "check_text"
	CbHelp      = "help"
	CbMenu      = "menu"

	CmdStart = "start"
	CmdHelp  = "help"
	CmdMenu  = "menu"
)

const (
	MsgGreeting = "Привет! Я бот для генерации итоговых сочинений и проверки уникальности.\nВыбери действие:"
	MsgHelp     = "Инструкция:\n\n" +
		"— Нажми 'Сгенерировать сочинение', затем отправь структуру.\n" +
		"— Получишь готовое сочинение.\n" +
		"— Можно проверить текст на плагиат через меню."
	MsgMainMenu      = "Главное меню:"
	MsgChooseAction  = "Выбери действие:"
	MsgUnknownAction = "Неизвестное действие. Выбери пункт меню:"
	MsgNeedText      = "Нужен текст. Отправь его обычным сообщением."

	MsgAskOutline   = "Отправь структуру сочинения или тезисы."
	MsgAskCheck     = "Отправь текст для проверки."
	MsgAskCheckText = "Отправь текст, который нужно проверить."

	MsgGenerating = "Генерирую сочинение..."
	MsgChecking   = "Проверяю..."

	MsgEssayResult = "Готовое сочинение:\n\n"
	MsgCheckResult = "Результат проверки:\n"

	MsgServiceUnavailable = "⚠️ Сервис временно недоступен. Попробуй ещё раз позже."
)
