package handler

import (
	"context"

	"attendance-tracker/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	switch command {
	case "start", "help":
		h.sendHelpMessage(message)

	// Выбор дня
	case "day", "select":
		h.selectDay(ctx, message, args)

	// Статусы выбранного дня
	case "work":
		h.setState(ctx, message, models.StatusWork)
	case "rest":
		h.setState(ctx, message, models.StatusRest)
	case "sick":
		h.setState(ctx, message, models.StatusSick)
	case "vacation":
		h.setState(ctx, message, models.StatusVacation)
	case "closed":
		h.setState(ctx, message, models.StatusClosed)
	case "edit":
		h.editDay(ctx, message, args)
	case "delete":
		h.deleteDay(ctx, message)

	// Просмотр
	case "month":
		h.showMonth(ctx, message, args)
	case "summary":
		h.showSummary(ctx, message, args)

	// Резервные копии и печать
	case "export":
		h.exportBackup(ctx, message)
	case "print":
		h.printMonth(ctx, message, args)

	default:
		h.sendUnknownCommand(message)
	}
}

func (h *Handler) sendUnknownCommand(message *tgbotapi.Message) {
	h.sendText(message.Chat.ID, "❌ Неизвестная команда. Используйте /help для списка команд.")
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	text := `📋 Доступные команды:

📅 Выбор дня:
/day [дата] - Выбрать день (по умолчанию сегодня)
    Пример: /day 2024-06-03 или /day 03.06.2024

🗂 Статус выбранного дня:
/work - Работа (8ч)
/rest - Отдых (4ч)
/sick - Больничный (0ч)
/vacation - Отпуск (0ч)
/closed - Закрыто (0ч)
/edit СТАТУС - Указать статус вручную (WORK / REST / SICK / VACATION / CLOSED)
/delete - Удалить запись дня

📊 Просмотр:
/month [ГГГГ-ММ] - Записи за месяц
/summary [ГГГГ-ММ] - Итоги месяца

💾 Резервные копии:
/export - Выгрузить все записи (JSON)
Отправьте JSON или XLSX файл документом, чтобы импортировать записи

🖨 Печать:
/print [ГГГГ-ММ] - PDF календаря за месяц`

	if h.config != nil && h.config.HTTPAddr != "" {
		text += "\n\n🌐 Веб-календарь слушает " + h.config.HTTPAddr
	}

	h.sendText(message.Chat.ID, text)
}
