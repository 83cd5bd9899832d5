package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"attendance-tracker/internal/calendar"
	"attendance-tracker/internal/models"
	"attendance-tracker/internal/repository"
	"attendance-tracker/pkg/backup"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidDay    = errors.New("invalid day, expected YYYY-MM-DD")
	ErrInvalidStatus = errors.New("invalid status value")
	ErrInvalidBackup = errors.New("invalid backup")
)

type AttendanceService struct {
	repo   repository.AttendanceRepository
	logger *logrus.Logger
}

func NewAttendanceService(repo repository.AttendanceRepository) *AttendanceService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.GetLevel())

	return &AttendanceService{
		repo:   repo,
		logger: logger,
	}
}

// GetAll возвращает все записи
func (s *AttendanceService) GetAll(ctx context.Context) ([]models.AttendanceRecord, error) {
	return s.repo.GetAll(ctx)
}

// Get возвращает запись дня или nil
func (s *AttendanceService) Get(ctx context.Context, day string) (*models.AttendanceRecord, error) {
	if !models.IsValidDay(day) {
		return nil, ErrInvalidDay
	}
	return s.repo.Get(ctx, day)
}

// SetStatus записывает статус дня, часы перезаписываются, а не суммируются
func (s *AttendanceService) SetStatus(ctx context.Context, day string, status models.Status) (*models.AttendanceRecord, error) {
	if !models.IsValidDay(day) {
		return nil, ErrInvalidDay
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	record := models.NewAttendanceRecord(day, status)
	if err := s.repo.Put(ctx, record); err != nil {
		return nil, fmt.Errorf("put %s: %w", day, err)
	}

	s.logger.WithFields(logrus.Fields{
		"day":    day,
		"status": status,
		"hours":  record.Hours,
	}).Info("Status assigned")
	return &record, nil
}

// Delete удаляет запись дня (если ее нет - ничего не делает)
func (s *AttendanceService) Delete(ctx context.Context, day string) error {
	if !models.IsValidDay(day) {
		return ErrInvalidDay
	}
	if err := s.repo.Delete(ctx, day); err != nil {
		return fmt.Errorf("delete %s: %w", day, err)
	}

	s.logger.WithField("day", day).Info("Day cleared")
	return nil
}

// Export пишет все записи JSON массивом
func (s *AttendanceService) Export(ctx context.Context, w io.Writer) (int, error) {
	records, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	if err := backup.Encode(w, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Import применяет резервную копию одной пачкой через BulkPut
func (s *AttendanceService) Import(ctx context.Context, r io.Reader) (int, error) {
	records, err := backup.Decode(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return s.ImportRecords(ctx, records)
}

// ImportRecords записывает уже разобранные записи
func (s *AttendanceService) ImportRecords(ctx context.Context, records []models.AttendanceRecord) (int, error) {
	if err := s.repo.BulkPut(ctx, records); err != nil {
		return 0, fmt.Errorf("bulk put: %w", err)
	}

	s.logger.WithField("count", len(records)).Info("Backup imported")
	return len(records), nil
}

// ImportFile загружает резервную копию с диска, если хранилище пустое
func (s *AttendanceService) ImportFile(ctx context.Context, filePath string) (int, error) {
	existing, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		s.logger.WithField("records", len(existing)).Info("Store not empty, seed file skipped")
		return 0, nil
	}

	records, err := backup.ParseFile(filePath)
	if err != nil {
		return 0, err
	}
	return s.ImportRecords(ctx, records)
}

// MonthRecords возвращает записи месяца
func (s *AttendanceService) MonthRecords(ctx context.Context, year, month int) ([]models.AttendanceRecord, error) {
	records, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	result := make([]models.AttendanceRecord, 0, len(records))
	for _, r := range records {
		if strings.HasPrefix(r.Day, prefix) {
			result = append(result, r)
		}
	}
	return result, nil
}

// MonthSummary считает дни по статусам и часы за месяц
func (s *AttendanceService) MonthSummary(ctx context.Context, year, month int) (*models.MonthSummary, error) {
	records, err := s.MonthRecords(ctx, year, month)
	if err != nil {
		return nil, err
	}

	summary := models.NewMonthSummary(year, month, records)
	if !summary.IsValid() {
		return nil, fmt.Errorf("invalid month %04d-%02d", year, month)
	}
	return summary, nil
}

// MonthView собирает снимок месяца для печати
func (s *AttendanceService) MonthView(ctx context.Context, year, month int) (calendar.MonthView, error) {
	records, err := s.MonthRecords(ctx, year, month)
	if err != nil {
		return calendar.MonthView{}, err
	}
	return calendar.NewMonthView(year, time.Month(month), records), nil
}

// Events возвращает ленту событий календаря
func (s *AttendanceService) Events(ctx context.Context) ([]calendar.Event, error) {
	records, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return calendar.Events(records), nil
}

// FormatRecord форматирует запись для отображения
func FormatRecord(r *models.AttendanceRecord) string {
	if r == nil {
		return "-"
	}
	info, _ := r.Status.Info()
	return fmt.Sprintf("%s: %s (%dч)", r.Day, info.Label, r.Hours)
}

// FormatSummary форматирует статистику месяца
func FormatSummary(ms *models.MonthSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s\n\n", ms.Title())
	for _, st := range models.AllStatuses() {
		info, _ := st.Info()
		fmt.Fprintf(&b, "%s %s: %d дн.\n", info.Short, info.Label, ms.Days[st])
	}
	fmt.Fprintf(&b, "\n✅ Рабочих дней: %d\n⏰ Всего часов: %d", ms.WorkedDays, ms.TotalHours)
	return b.String()
}
