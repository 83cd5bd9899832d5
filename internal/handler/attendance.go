package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"attendance-tracker/internal/actions"
	"attendance-tracker/internal/calendar"
	"attendance-tracker/internal/models"
	"attendance-tracker/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// selectDay выбирает день, с которым работают остальные команды
func (h *Handler) selectDay(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	date := time.Now()
	if strings.TrimSpace(args) != "" {
		var err error
		date, err = parseDate(strings.TrimSpace(args))
		if err != nil {
			h.sendText(chatID, "❌ "+err.Error())
			return
		}
	}

	session := h.session(chatID)
	if err := session.Select(date.Format(models.DayLayout)); err != nil {
		h.sendText(chatID, "❌ Ошибка выбора дня: "+err.Error())
		return
	}

	current, err := session.Current(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to get attendance record")
		h.sendText(chatID, "❌ Ошибка чтения записи: "+err.Error())
		return
	}

	text := fmt.Sprintf("📅 Выбран день %s", session.Selected())
	if current != nil {
		text += "\nТекущая запись: " + service.FormatRecord(current)
	}
	h.sendText(chatID, text)
}

// setState назначает статус выбранному дню
func (h *Handler) setState(ctx context.Context, message *tgbotapi.Message, status models.Status) {
	chatID := message.Chat.ID

	rec, err := h.session(chatID).SetState(ctx, status)
	if err != nil {
		h.replyActionError(chatID, err)
		return
	}

	h.sendText(chatID, "✅ Сохранено: "+service.FormatRecord(rec))
}

// editDay ручной ввод статуса
func (h *Handler) editDay(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	session := h.session(chatID)

	if strings.TrimSpace(args) == "" && session.Selected() != "" {
		text := "✏️ Изменение статуса для " + session.Selected()
		if current, err := session.Current(ctx); err == nil && current != nil {
			text += "\nТекущий: " + string(current.Status)
		}
		text += "\n\nВыберите: /edit WORK / REST / SICK / VACATION / CLOSED"
		h.sendText(chatID, text)
		return
	}

	rec, err := session.EditDay(ctx, args)
	if err != nil {
		h.replyActionError(chatID, err)
		return
	}

	h.sendText(chatID, "✅ Сохранено: "+service.FormatRecord(rec))
}

// deleteDay удаляет запись выбранного дня
func (h *Handler) deleteDay(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	session := h.session(chatID)
	if err := session.DeleteDay(ctx); err != nil {
		h.replyActionError(chatID, err)
		return
	}

	h.sendText(chatID, "🗑 Запись за "+session.Selected()+" удалена.")
}

func (h *Handler) replyActionError(chatID int64, err error) {
	switch {
	case errors.Is(err, actions.ErrNoSelection):
		h.sendText(chatID, "❌ Выберите день командой /day.")
	case errors.Is(err, actions.ErrEditCancelled):
		// пустой ввод - ничего не делаем
	case errors.Is(err, service.ErrInvalidStatus):
		h.sendText(chatID, "❌ Недопустимое значение. Используйте WORK / REST / SICK / VACATION / CLOSED.")
	default:
		logrus.WithError(err).WithField("chat_id", chatID).Error("Attendance action failed")
		h.sendText(chatID, "❌ Ошибка: "+err.Error())
	}
}

// showMonth выводит записи месяца
func (h *Handler) showMonth(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	year, month, err := models.ParseMonth(args, time.Now())
	if err != nil {
		h.sendText(chatID, "❌ Неверный формат месяца. Используйте ГГГГ-ММ, например 2024-06")
		return
	}

	text, err := h.formatMonth(ctx, year, month)
	if err != nil {
		logrus.WithError(err).Error("Failed to get month records")
		h.sendText(chatID, "❌ Ошибка получения записей: "+err.Error())
		return
	}
	h.sendText(chatID, text)
}

// showSummary выводит итоги месяца
func (h *Handler) showSummary(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	year, month, err := models.ParseMonth(args, time.Now())
	if err != nil {
		h.sendText(chatID, "❌ Неверный формат месяца. Используйте ГГГГ-ММ, например 2024-06")
		return
	}

	summary, err := h.attendanceService.MonthSummary(ctx, year, month)
	if err != nil {
		logrus.WithError(err).Error("Failed to build month summary")
		h.sendText(chatID, "❌ Ошибка получения статистики: "+err.Error())
		return
	}
	h.sendText(chatID, service.FormatSummary(summary))
}

func (h *Handler) formatMonth(ctx context.Context, year, month int) (string, error) {
	records, err := h.attendanceService.MonthRecords(ctx, year, month)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🗓 %s %d\n", time.Month(month), year)
	if len(records) == 0 {
		b.WriteString("\nЗаписей нет.")
		return b.String(), nil
	}
	b.WriteString("\n")
	for _, ev := range calendar.Events(records) {
		fmt.Fprintf(&b, "%s  %s\n", ev.Start, ev.Title)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func parseDate(dateStr string) (time.Time, error) {
	// Пробуем разные форматы
	formats := []string{
		"2006-01-02",
		"02.01.2006",
		"02-01-2006",
		"02.01",
		"02-01",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			// Если указан только день и месяц, добавляем текущий год
			if !strings.Contains(format, "2006") {
				now := time.Now()
				t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
			}
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("неверный формат даты. Используйте ГГГГ-ММ-ДД, ДД.ММ.ГГГГ или ДД.ММ")
}
