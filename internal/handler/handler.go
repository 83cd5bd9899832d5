package handler

import (
	"context"
	"net/http"
	"time"

	"attendance-tracker/internal/actions"
	"attendance-tracker/internal/config"
	"attendance-tracker/internal/printer"
	"attendance-tracker/internal/service"
	"attendance-tracker/pkg/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Sender - часть Telegram API, которой пользуется обработчик
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Handler struct {
	bot               Sender
	attendanceService *service.AttendanceService
	printer           printer.Printer
	httpClient        *http.Client
	sessions          map[int64]*actions.Session
	config            *config.Config
}

func NewHandler(
	client *telegram.Client,
	attendanceService *service.AttendanceService,
	pdfPrinter printer.Printer,
	cfg *config.Config,
) *Handler {
	return newHandler(client.Bot, attendanceService, pdfPrinter, cfg)
}

func newHandler(
	bot Sender,
	attendanceService *service.AttendanceService,
	pdfPrinter printer.Printer,
	cfg *config.Config,
) *Handler {
	return &Handler{
		bot:               bot,
		attendanceService: attendanceService,
		printer:           pdfPrinter,
		httpClient:        &http.Client{Timeout: 30 * time.Second},
		sessions:          make(map[int64]*actions.Session),
		config:            cfg,
	}
}

// HandleUpdates обрабатывает обновления до закрытия канала или отмены контекста
func (h *Handler) HandleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			h.handleMessage(ctx, update.Message)
		}
	}
}

// session возвращает сессию чата (выбранный день хранится в ней)
func (h *Handler) session(chatID int64) *actions.Session {
	if s, ok := h.sessions[chatID]; ok {
		return s
	}
	s := actions.NewSession(h.attendanceService, &chatCalendar{h: h, chatID: chatID})
	h.sessions[chatID] = s
	return s
}

func (h *Handler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	var username string
	if message.From != nil {
		username = message.From.UserName
	}
	logrus.Infof("[%s] %s", username, message.Text)

	// Загрузка резервной копии документом
	if message.Document != nil {
		h.importDocument(ctx, message)
		return
	}

	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	h.sendText(message.Chat.ID, "ℹ️ Используйте /help для списка команд.")
}

func (h *Handler) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}

// chatCalendar после изменения присылает обновленный месяц выбранного дня
type chatCalendar struct {
	h      *Handler
	chatID int64
}

func (c *chatCalendar) Refetch(ctx context.Context) error {
	day := c.h.session(c.chatID).Selected()
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return nil
	}
	text, err := c.h.formatMonth(ctx, t.Year(), int(t.Month()))
	if err != nil {
		return err
	}
	c.h.sendText(c.chatID, text)
	return nil
}
