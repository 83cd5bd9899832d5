package handler

import (
	"context"
	"strings"
	"testing"
	"time"

	"attendance-tracker/internal/database"
	"attendance-tracker/internal/models"
	"attendance-tracker/internal/repository"
	"attendance-tracker/internal/service"
)

func TestParseDate(t *testing.T) {
	year := time.Now().Year()

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"2024-06-03", "2024-06-03", false},
		{"03.06.2024", "2024-06-03", false},
		{"03-06-2024", "2024-06-03", false},
		{"03.06", time.Date(year, 6, 3, 0, 0, 0, 0, time.Local).Format(models.DayLayout), false},
		{"31.02.2024", "", true},
		{"tomorrow", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Format(models.DayLayout) != tt.want {
				t.Errorf("parseDate(%q) = %s, want %s", tt.input, got.Format(models.DayLayout), tt.want)
			}
		})
	}
}

func TestFormatMonth(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close(db)

	repo, err := repository.NewGormAttendanceRepository(db)
	if err != nil {
		t.Fatal(err)
	}
	h := &Handler{attendanceService: service.NewAttendanceService(repo)}
	ctx := context.Background()

	text, err := h.formatMonth(ctx, 2024, 6)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "June 2024") || !strings.Contains(text, "Записей нет") {
		t.Errorf("unexpected empty month text %q", text)
	}

	if _, err := h.attendanceService.SetStatus(ctx, "2024-06-03", models.StatusWork); err != nil {
		t.Fatal(err)
	}
	text, err = h.formatMonth(ctx, 2024, 6)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "2024-06-03  WRK (8h)") {
		t.Errorf("unexpected month text %q", text)
	}
}
