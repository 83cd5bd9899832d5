package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"attendance-tracker/internal/actions"
	"attendance-tracker/internal/database"
	"attendance-tracker/internal/models"
	"attendance-tracker/internal/printer"
	"attendance-tracker/internal/repository"
	"attendance-tracker/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const testChatID int64 = 42

// fakeSender запоминает отправленные сообщения и документы
type fakeSender struct {
	texts   []string
	docs    []tgbotapi.DocumentConfig
	fileURL string
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		f.texts = append(f.texts, m.Text)
	case tgbotapi.DocumentConfig:
		f.docs = append(f.docs, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) GetFileDirectURL(fileID string) (string, error) {
	return f.fileURL + "/" + fileID, nil
}

func (f *fakeSender) lastText() string {
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

func newTestHandler(t *testing.T) (*Handler, *fakeSender) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	repo, err := repository.NewGormAttendanceRepository(db)
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}

	sender := &fakeSender{}
	return newHandler(sender, service.NewAttendanceService(repo), printer.NewPDFPrinter(), nil), sender
}

func command(text string) *tgbotapi.Message {
	name := strings.SplitN(text, " ", 2)[0]
	return &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: testChatID},
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(name)},
		},
	}
}

func TestHandleCommandReplies(t *testing.T) {
	tests := []struct {
		name  string
		steps []string
		want  string
	}{
		{"work without selection", []string{"/work"}, "Выберите день командой /day"},
		{"delete without selection", []string{"/delete"}, "Выберите день командой /day"},
		{"edit without selection", []string{"/edit WORK"}, "Выберите день командой /day"},
		{"select day", []string{"/day 03.06.2024"}, "Выбран день 2024-06-03"},
		{"bad date", []string{"/day 31.02.2024"}, "неверный формат даты"},
		{"work", []string{"/day 2024-06-03", "/work"}, "✅ Сохранено: 2024-06-03: Work (8ч)"},
		{"rest overwrites sick", []string{"/day 2024-06-03", "/sick", "/rest"}, "2024-06-03: Rest (4ч)"},
		{"edit legacy value", []string{"/day 2024-06-03", "/edit ferie"}, "2024-06-03: Vacation (0ч)"},
		{"edit invalid value", []string{"/day 2024-06-03", "/edit PARTY"}, "Недопустимое значение"},
		{"edit prompt", []string{"/day 2024-06-03", "/edit"}, "Выберите: /edit WORK"},
		{"delete", []string{"/day 2024-06-03", "/closed", "/delete"}, "Запись за 2024-06-03 удалена"},
		{"summary", []string{"/day 2024-06-03", "/work", "/summary 2024-06"}, "Всего часов: 8"},
		{"bad month", []string{"/month June"}, "Неверный формат месяца"},
		{"unknown", []string{"/bogus"}, "Неизвестная команда"},
		{"help", []string{"/help"}, "Доступные команды"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, sender := newTestHandler(t)
			ctx := context.Background()
			for _, step := range tt.steps {
				h.handleMessage(ctx, command(step))
			}
			if got := sender.lastText(); !strings.Contains(got, tt.want) {
				t.Errorf("expected reply containing %q, got %q", tt.want, got)
			}
		})
	}
}

func TestInvalidEditWritesNothing(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()

	h.handleMessage(ctx, command("/day 2024-06-03"))
	h.handleMessage(ctx, command("/edit PARTY"))

	rec, err := h.attendanceService.Get(ctx, "2024-06-03")
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil {
		t.Errorf("nothing should be stored, got %+v", rec)
	}
}

func TestEditCancelIsSilent(t *testing.T) {
	h, sender := newTestHandler(t)

	h.replyActionError(testChatID, actions.ErrEditCancelled)
	if len(sender.texts) != 0 {
		t.Errorf("cancelled edit should send nothing, got %v", sender.texts)
	}
}

func TestWriteRefreshesMonth(t *testing.T) {
	h, sender := newTestHandler(t)
	ctx := context.Background()

	h.handleMessage(ctx, command("/day 2024-06-03"))
	h.handleMessage(ctx, command("/work"))

	if len(sender.texts) != 3 {
		t.Fatalf("expected selection, month and saved replies, got %v", sender.texts)
	}
	if !strings.Contains(sender.texts[1], "2024-06-03  WRK (8h)") {
		t.Errorf("expected refreshed month, got %q", sender.texts[1])
	}
}

func TestImportDocument(t *testing.T) {
	files := map[string]string{
		"/good": `[{"day":"2024-06-03","status":"WORK"},{"giorno":"2024-06-04","stato":"RIPOSO"}]`,
		"/bad":  `[{"day":"2024-06-03","status":"WORK"},{"day":"2024-06-04","status":"NOPE"}]`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()

	tests := []struct {
		name      string
		fileID    string
		want      string
		wantCount int
	}{
		{"valid backup", "good", "Записей: 2", 2},
		{"invalid backup", "bad", "Ошибка импорта", 0},
		{"download failure", "missing", "Не удалось скачать файл", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, sender := newTestHandler(t)
			sender.fileURL = srv.URL
			ctx := context.Background()

			msg := &tgbotapi.Message{
				Chat:     &tgbotapi.Chat{ID: testChatID},
				Document: &tgbotapi.Document{FileID: tt.fileID, FileName: "backup.json", FileSize: 100},
			}
			h.handleMessage(ctx, msg)

			if got := sender.lastText(); !strings.Contains(got, tt.want) {
				t.Errorf("expected reply containing %q, got %q", tt.want, got)
			}
			all, err := h.attendanceService.GetAll(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(all) != tt.wantCount {
				t.Errorf("expected %d records, got %d", tt.wantCount, len(all))
			}
		})
	}
}

func TestImportDocumentTooLarge(t *testing.T) {
	h, sender := newTestHandler(t)

	msg := &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: testChatID},
		Document: &tgbotapi.Document{FileID: "big", FileName: "backup.json", FileSize: maxImportSize + 1},
	}
	h.handleMessage(context.Background(), msg)

	if !strings.Contains(sender.lastText(), "слишком большой") {
		t.Errorf("unexpected reply %q", sender.lastText())
	}
}

func TestExportAndPrintDocuments(t *testing.T) {
	h, sender := newTestHandler(t)
	ctx := context.Background()

	if _, err := h.attendanceService.SetStatus(ctx, "2024-06-03", models.StatusWork); err != nil {
		t.Fatal(err)
	}

	h.handleMessage(ctx, command("/export"))
	h.handleMessage(ctx, command("/print 2024-06"))

	if len(sender.docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(sender.docs))
	}

	backupDoc := sender.docs[0]
	if backupDoc.Caption != "💾 Записей: 1" {
		t.Errorf("unexpected caption %q", backupDoc.Caption)
	}
	file, ok := backupDoc.File.(tgbotapi.FileBytes)
	if !ok || !bytes.Contains(file.Bytes, []byte(`"day":"2024-06-03"`)) {
		t.Errorf("unexpected backup file %+v", backupDoc.File)
	}

	pdf, ok := sender.docs[1].File.(tgbotapi.FileBytes)
	if !ok || !bytes.HasPrefix(pdf.Bytes, []byte("%PDF")) {
		t.Error("print should send a PDF document")
	}
	if sender.docs[1].Caption != "🖨 June 2024" {
		t.Errorf("unexpected caption %q", sender.docs[1].Caption)
	}
}
