package models

import (
	"fmt"
	"strings"
	"time"
)

// Допустимый диапазон лет для месяца
const (
	minYear = 1970
	maxYear = 9999
)

type MonthSummary struct {
	Year       int            `json:"year"`
	Month      int            `json:"month"`
	Days       map[Status]int `json:"days"`
	WorkedDays int            `json:"worked_days"`
	TotalHours int            `json:"total_hours"`
}

// NewMonthSummary собирает статистику по записям месяца
func NewMonthSummary(year, month int, records []AttendanceRecord) *MonthSummary {
	ms := &MonthSummary{
		Year:  year,
		Month: month,
		Days:  make(map[Status]int, len(AllStatuses())),
	}
	for _, s := range AllStatuses() {
		ms.Days[s] = 0
	}

	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	for _, r := range records {
		if !strings.HasPrefix(r.Day, prefix) {
			continue
		}
		ms.Days[r.Status]++
	}
	ms.CalculateStats()
	return ms
}

// CalculateStats пересчитывает итоговые часы и рабочие дни
func (ms *MonthSummary) CalculateStats() {
	ms.TotalHours = 0
	for s, days := range ms.Days {
		ms.TotalHours += days * s.Hours()
	}
	ms.WorkedDays = ms.Days[StatusWork]
}

// IsValid проверяет валидность данных
func (ms *MonthSummary) IsValid() bool {
	if ms.Month < 1 || ms.Month > 12 {
		return false
	}
	return ms.Year >= minYear && ms.Year <= maxYear
}

// Title возвращает заголовок месяца, например "June 2024"
func (ms *MonthSummary) Title() string {
	return fmt.Sprintf("%s %d", time.Month(ms.Month), ms.Year)
}

// ParseMonth разбирает "YYYY-MM". Пустая строка означает текущий месяц.
func ParseMonth(value string, now time.Time) (int, int, error) {
	if strings.TrimSpace(value) == "" {
		return now.Year(), int(now.Month()), nil
	}
	t, err := time.Parse("2006-01", strings.TrimSpace(value))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, expected YYYY-MM", value)
	}
	if t.Year() < minYear || t.Year() > maxYear {
		return 0, 0, fmt.Errorf("invalid month %q, year out of range", value)
	}
	return t.Year(), int(t.Month()), nil
}
