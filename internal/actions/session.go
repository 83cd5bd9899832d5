// Package actions wires calendar interactions to store operations. A Session
// holds the service and the calendar it refreshes, plus the selected day.
package actions

import (
	"context"
	"errors"
	"strings"

	"attendance-tracker/internal/models"
	"attendance-tracker/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNoSelection means an action needs a day but none is selected.
	ErrNoSelection = errors.New("select a day on the calendar")
	// ErrEditCancelled means the edit prompt was left empty.
	ErrEditCancelled = errors.New("edit cancelled")
)

// Calendar is the rendering collaborator; it reloads its events after a write.
type Calendar interface {
	Refetch(ctx context.Context) error
}

type Session struct {
	service  *service.AttendanceService
	calendar Calendar
	selected string
}

// NewSession creates a session. calendar may be nil.
func NewSession(svc *service.AttendanceService, calendar Calendar) *Session {
	return &Session{service: svc, calendar: calendar}
}

// Select marks day as the target of the next action.
func (s *Session) Select(day string) error {
	day = strings.TrimSpace(day)
	if !models.IsValidDay(day) {
		return service.ErrInvalidDay
	}
	s.selected = day
	return nil
}

// Selected returns the selected day or "".
func (s *Session) Selected() string {
	return s.selected
}

// Current returns the record of the selected day, nil when there is none.
func (s *Session) Current(ctx context.Context) (*models.AttendanceRecord, error) {
	if s.selected == "" {
		return nil, ErrNoSelection
	}
	return s.service.Get(ctx, s.selected)
}

// SetState assigns status to the selected day.
func (s *Session) SetState(ctx context.Context, status models.Status) (*models.AttendanceRecord, error) {
	if s.selected == "" {
		return nil, ErrNoSelection
	}
	rec, err := s.service.SetStatus(ctx, s.selected, status)
	if err != nil {
		return nil, err
	}
	s.refetch(ctx)
	return rec, nil
}

// DeleteDay removes the record of the selected day.
func (s *Session) DeleteDay(ctx context.Context) error {
	if s.selected == "" {
		return ErrNoSelection
	}
	if err := s.service.Delete(ctx, s.selected); err != nil {
		return err
	}
	s.refetch(ctx)
	return nil
}

// EditDay applies a manually typed status. Empty input cancels without a
// message; anything outside the status set is rejected.
func (s *Session) EditDay(ctx context.Context, input string) (*models.AttendanceRecord, error) {
	if s.selected == "" {
		return nil, ErrNoSelection
	}
	if strings.TrimSpace(input) == "" {
		return nil, ErrEditCancelled
	}
	status, err := models.ParseStatus(input)
	if err != nil {
		return nil, service.ErrInvalidStatus
	}
	return s.SetState(ctx, status)
}

// refetch reloads the calendar. The write is already stored at this point,
// so a failure is only logged.
func (s *Session) refetch(ctx context.Context) {
	if s.calendar == nil {
		return
	}
	if err := s.calendar.Refetch(ctx); err != nil {
		logrus.WithError(err).WithField("day", s.selected).Warn("Calendar refetch failed")
	}
}
