// Package calendar builds what the calendar collaborator consumes: the
// per-record event feed and the month view snapshot used for printing.
package calendar

import (
	"fmt"
	"time"

	"attendance-tracker/internal/models"
)

// Event is one FullCalendar event.
type Event struct {
	Title           string `json:"title"`
	Start           string `json:"start"`
	AllDay          bool   `json:"allDay"`
	BackgroundColor string `json:"backgroundColor"`
	BorderColor     string `json:"borderColor"`
	Status          string `json:"status"`
}

// Label returns the short event label, e.g. "WRK (8h)" or "SCK".
func Label(status models.Status) string {
	info, ok := status.Info()
	if !ok {
		return string(status)
	}
	if info.Hours > 0 {
		return fmt.Sprintf("%s (%dh)", info.Short, info.Hours)
	}
	return info.Short
}

// Events renders one event per record.
func Events(records []models.AttendanceRecord) []Event {
	events := make([]Event, 0, len(records))
	for _, r := range records {
		info, _ := r.Status.Info()
		events = append(events, Event{
			Title:           Label(r.Status),
			Start:           r.Day,
			AllDay:          true,
			BackgroundColor: info.Color,
			BorderColor:     info.Color,
			Status:          string(r.Status),
		})
	}
	return events
}

type Cell struct {
	Date    time.Time
	InMonth bool
	Record  *models.AttendanceRecord
}

// Day returns the cell date in record key format.
func (c Cell) Day() string {
	return c.Date.Format(models.DayLayout)
}

// MonthView is a Monday-first grid of whole weeks covering one month.
type MonthView struct {
	Year  int
	Month time.Month
	Title string
	Weeks [][]Cell
}

// NewMonthView lays out the month and attaches the matching records.
func NewMonthView(year int, month time.Month, records []models.AttendanceRecord) MonthView {
	byDay := make(map[string]*models.AttendanceRecord, len(records))
	for i := range records {
		byDay[records[i].Day] = &records[i]
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7
	cursor := first.AddDate(0, 0, -offset)

	view := MonthView{
		Year:  year,
		Month: month,
		Title: fmt.Sprintf("%s %d", month, year),
	}
	for {
		week := make([]Cell, 7)
		for i := range week {
			cell := Cell{Date: cursor, InMonth: cursor.Month() == month}
			if cell.InMonth {
				cell.Record = byDay[cell.Day()]
			}
			week[i] = cell
			cursor = cursor.AddDate(0, 0, 1)
		}
		view.Weeks = append(view.Weeks, week)
		if cursor.Month() != month {
			break
		}
	}
	return view
}

// Weekdays are the column headers of the grid.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
