package models

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout формат ключа записи (YYYY-MM-DD)
const DayLayout = "2006-01-02"

type Status string

// Статусы дня
const (
	StatusWork     Status = "WORK"     // Рабочий день, 8ч
	StatusRest     Status = "REST"     // Отдых, 4ч
	StatusSick     Status = "SICK"     // Больничный
	StatusVacation Status = "VACATION" // Отпуск
	StatusClosed   Status = "CLOSED"   // Закрыто
)

// StatusInfo описывает отображение и часы статуса
type StatusInfo struct {
	Status Status `json:"status"`
	Color  string `json:"color"`
	Short  string `json:"short"`
	Label  string `json:"label"`
	Hours  int    `json:"hours"`
	Legacy string `json:"-"`
}

// AllStatuses возвращает статусы в порядке отображения
func AllStatuses() []Status {
	return []Status{StatusWork, StatusRest, StatusSick, StatusVacation, StatusClosed}
}

// Info возвращает описание статуса. ok=false для неизвестного значения.
func (s Status) Info() (StatusInfo, bool) {
	switch s {
	case StatusWork:
		return StatusInfo{Status: s, Color: "#16a34a", Short: "WRK", Label: "Work", Hours: 8, Legacy: "LAVORO"}, true
	case StatusRest:
		return StatusInfo{Status: s, Color: "#0d6efd", Short: "RST", Label: "Rest", Hours: 4, Legacy: "RIPOSO"}, true
	case StatusSick:
		return StatusInfo{Status: s, Color: "#f59e0b", Short: "SCK", Label: "Sick", Hours: 0, Legacy: "MALATTIA"}, true
	case StatusVacation:
		return StatusInfo{Status: s, Color: "#ef4444", Short: "VAC", Label: "Vacation", Hours: 0, Legacy: "FERIE"}, true
	case StatusClosed:
		return StatusInfo{Status: s, Color: "#4cbefc", Short: "CLS", Label: "Closed", Hours: 0, Legacy: "CHIUSO"}, true
	}
	return StatusInfo{}, false
}

// IsValid проверяет, что статус входит в перечисление
func (s Status) IsValid() bool {
	_, ok := s.Info()
	return ok
}

// Hours возвращает часы для статуса (0 для неизвестного)
func (s Status) Hours() int {
	info, _ := s.Info()
	return info.Hours
}

// ParseStatus разбирает ввод пользователя: регистр и пробелы не важны,
// старые итальянские названия тоже принимаются.
func ParseStatus(input string) (Status, error) {
	val := strings.ToUpper(strings.TrimSpace(input))
	for _, s := range AllStatuses() {
		info, _ := s.Info()
		if val == string(s) || val == info.Legacy {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", input)
}

type AttendanceRecord struct {
	Day    string `gorm:"primaryKey;type:varchar(10)" json:"day"`
	Status Status `gorm:"type:varchar(16);not null" json:"status"`
	Hours  int    `gorm:"not null;default:0" json:"hours"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// NewAttendanceRecord создает запись с вычисленными часами
func NewAttendanceRecord(day string, status Status) AttendanceRecord {
	return AttendanceRecord{Day: day, Status: status, Hours: status.Hours()}
}

// Normalize пересчитывает часы по статусу
func (r *AttendanceRecord) Normalize() {
	r.Hours = r.Status.Hours()
}

// IsValid проверяет валидность данных
func (r *AttendanceRecord) IsValid() bool {
	if !IsValidDay(r.Day) {
		return false
	}
	return r.Status.IsValid()
}

// Date возвращает день записи как time.Time
func (r *AttendanceRecord) Date() (time.Time, error) {
	return time.Parse(DayLayout, r.Day)
}

// IsValidDay проверяет формат YYYY-MM-DD и существование даты
func IsValidDay(day string) bool {
	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return false
	}
	return t.Format(DayLayout) == day
}
