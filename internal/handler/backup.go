package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"attendance-tracker/internal/models"
	"attendance-tracker/internal/printer"
	"attendance-tracker/internal/report"
	"attendance-tracker/pkg/backup"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// maxImportSize ограничение на размер загружаемой копии
const maxImportSize = 5 << 20

// exportBackup отправляет все записи JSON документом
func (h *Handler) exportBackup(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	var buf bytes.Buffer
	count, err := h.attendanceService.Export(ctx, &buf)
	if err != nil {
		logrus.WithError(err).Error("Failed to export backup")
		h.sendText(chatID, "❌ Ошибка выгрузки: "+err.Error())
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: backup.FileName, Bytes: buf.Bytes()})
	doc.Caption = fmt.Sprintf("💾 Записей: %d", count)
	if _, err := h.bot.Send(doc); err != nil {
		logrus.WithError(err).Error("Failed to send backup document")
	}
}

// importDocument импортирует присланный файл (JSON или XLSX)
func (h *Handler) importDocument(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	doc := message.Document

	if doc.FileSize > maxImportSize {
		h.sendText(chatID, "❌ Файл слишком большой.")
		return
	}

	url, err := h.bot.GetFileDirectURL(doc.FileID)
	if err != nil {
		logrus.WithError(err).Error("Failed to get file URL")
		h.sendText(chatID, "❌ Не удалось получить файл: "+err.Error())
		return
	}

	data, err := h.download(ctx, url)
	if err != nil {
		logrus.WithError(err).Error("Failed to download backup")
		h.sendText(chatID, "❌ Не удалось скачать файл: "+err.Error())
		return
	}

	var count int
	if strings.HasSuffix(strings.ToLower(doc.FileName), ".xlsx") {
		var records []models.AttendanceRecord
		records, err = report.ReadXLSX(bytes.NewReader(data))
		if err == nil {
			count, err = h.attendanceService.ImportRecords(ctx, records)
		}
	} else {
		count, err = h.attendanceService.Import(ctx, bytes.NewReader(data))
	}
	if err != nil {
		logrus.WithError(err).WithField("file", doc.FileName).Warn("Failed to import backup")
		h.sendText(chatID, "❌ Ошибка импорта: "+err.Error())
		return
	}

	h.sendText(chatID, fmt.Sprintf("✅ Резервная копия импортирована! Записей: %d", count))
}

func (h *Handler) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImportSize))
}

// printMonth отправляет PDF календаря за месяц
func (h *Handler) printMonth(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	year, month, err := models.ParseMonth(args, time.Now())
	if err != nil {
		h.sendText(chatID, "❌ Неверный формат месяца. Используйте ГГГГ-ММ, например 2024-06")
		return
	}

	view, err := h.attendanceService.MonthView(ctx, year, month)
	if err != nil {
		logrus.WithError(err).Error("Failed to build month view")
		h.sendText(chatID, "❌ Ошибка получения записей: "+err.Error())
		return
	}

	var buf bytes.Buffer
	if err := h.printer.Print(&buf, view, view.Title); err != nil {
		logrus.WithError(err).Error("Failed to render pdf")
		h.sendText(chatID, "❌ Ошибка печати: "+err.Error())
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: printer.FileName, Bytes: buf.Bytes()})
	doc.Caption = "🖨 " + view.Title
	if _, err := h.bot.Send(doc); err != nil {
		logrus.WithError(err).Error("Failed to send pdf document")
	}
}
