package web

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"attendance-tracker/internal/models"
	"attendance-tracker/internal/printer"
	"attendance-tracker/internal/report"
	"attendance-tracker/internal/repository"
	"attendance-tracker/internal/service"
	"attendance-tracker/pkg/backup"

	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleExport: format=json (backup, default), csv or xlsx. month=YYYY-MM
// restricts csv/xlsx to one month and adds the summary sheet to xlsx.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	format := r.URL.Query().Get("format")
	month := r.URL.Query().Get("month")

	if format == "" || format == "json" {
		var buf bytes.Buffer
		if _, err := s.attendanceService.Export(ctx, &buf); err != nil {
			logrus.WithError(err).Error("Failed to export backup")
			writeError(w, http.StatusInternalServerError, "failed to export")
			return
		}
		attachment(w, "application/json", backup.FileName)
		_, _ = w.Write(buf.Bytes())
		return
	}

	var (
		records []models.AttendanceRecord
		summary *models.MonthSummary
		err     error
	)
	if month != "" {
		year, m, perr := models.ParseMonth(month, s.now())
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		records, err = s.attendanceService.MonthRecords(ctx, year, m)
		if err == nil {
			summary = models.NewMonthSummary(year, m, records)
		}
	} else {
		records, err = s.attendanceService.GetAll(ctx)
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to load records for export")
		writeError(w, http.StatusInternalServerError, "failed to export")
		return
	}

	var buf bytes.Buffer
	switch format {
	case "csv":
		err = report.WriteCSV(&buf, records)
		attachment(w, "text/csv; charset=utf-8", report.CSVFileName)
	case "xlsx":
		err = report.WriteXLSX(&buf, records, summary)
		attachment(w, xlsxContentType, report.XLSXFileName)
	default:
		writeError(w, http.StatusBadRequest, "unsupported format (use json, csv or xlsx)")
		return
	}
	if err != nil {
		w.Header().Del("Content-Disposition")
		logrus.WithError(err).WithField("format", format).Error("Failed to write report")
		writeError(w, http.StatusInternalServerError, "failed to export")
		return
	}
	_, _ = w.Write(buf.Bytes())
}

// handleImport accepts a raw JSON body or a multipart "file" field (JSON or
// XLSX). The batch is applied atomically.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	var (
		body     io.Reader = r.Body
		filename string
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file")
			return
		}
		defer file.Close()
		body = file
		filename = header.Filename
	}

	var (
		count int
		err   error
	)
	if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		records, rerr := report.ReadXLSX(body)
		if rerr != nil {
			writeError(w, http.StatusBadRequest, "import failed: "+rerr.Error())
			return
		}
		count, err = s.attendanceService.ImportRecords(r.Context(), records)
	} else {
		count, err = s.attendanceService.Import(r.Context(), body)
	}

	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidBackup), errors.Is(err, repository.ErrInvalidRecord):
		logrus.WithError(err).Warn("Rejected invalid backup")
		writeError(w, http.StatusBadRequest, "import failed: "+err.Error())
		return
	default:
		logrus.WithError(err).Error("Failed to import backup")
		writeError(w, http.StatusInternalServerError, "failed to import")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"imported": count})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	year, month, err := models.ParseMonth(r.URL.Query().Get("month"), s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.attendanceService.MonthSummary(r.Context(), year, month)
	if err != nil {
		logrus.WithError(err).Error("Failed to build summary")
		writeError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handlePrint renders one month as a single-page PDF. title overrides the
// month title.
func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	year, month, err := models.ParseMonth(r.URL.Query().Get("month"), s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.attendanceService.MonthView(r.Context(), year, month)
	if err != nil {
		logrus.WithError(err).Error("Failed to build month view")
		writeError(w, http.StatusInternalServerError, "failed to print")
		return
	}

	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		title = view.Title
	}

	var buf bytes.Buffer
	if err := s.printer.Print(&buf, view, title); err != nil {
		logrus.WithError(err).Error("Failed to render pdf")
		writeError(w, http.StatusInternalServerError, "failed to print")
		return
	}

	attachment(w, "application/pdf", printer.FileName)
	w.Header().Set("Last-Modified", s.now().UTC().Format(time.RFC1123))
	_, _ = w.Write(buf.Bytes())
}
