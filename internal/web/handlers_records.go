package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"attendance-tracker/internal/actions"
	"attendance-tracker/internal/models"
	"attendance-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleStatuses(w http.ResponseWriter, r *http.Request) {
	infos := make([]models.StatusInfo, 0, len(models.AllStatuses()))
	for _, st := range models.AllStatuses() {
		info, _ := st.Info()
		infos = append(infos, info)
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.attendanceService.Events(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to load events")
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.attendanceService.GetAll(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to load records")
		writeError(w, http.StatusInternalServerError, "failed to load records")
		return
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.attendanceService.Get(r.Context(), chi.URLParam(r, "day"))
	if errors.Is(err, service.ErrInvalidDay) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to load record")
		writeError(w, http.StatusInternalServerError, "failed to load record")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "no record for this day")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handlePutRecord(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session := actions.NewSession(s.attendanceService, nil)
	if err := session.Select(chi.URLParam(r, "day")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := session.EditDay(r.Context(), req.Status)
	if err != nil {
		s.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	session := actions.NewSession(s.attendanceService, nil)
	if err := session.Select(chi.URLParam(r, "day")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := session.DeleteDay(r.Context()); err != nil {
		s.writeActionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, actions.ErrNoSelection):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, actions.ErrEditCancelled):
		writeError(w, http.StatusBadRequest, "status is required")
	case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidDay):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logrus.WithError(err).Error("Attendance action failed")
		writeError(w, http.StatusInternalServerError, "failed to save record")
	}
}
