package web

import (
	"net/http"
	"time"

	"attendance-tracker/internal/printer"
	"attendance-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type Server struct {
	attendanceService *service.AttendanceService
	printer           printer.Printer
	assets            http.Handler
	now               func() time.Time
}

// NewServer wires the JSON API in front of the asset handler (the offline shell).
func NewServer(attendanceService *service.AttendanceService, pdfPrinter printer.Printer, assets http.Handler) *Server {
	return &Server{
		attendanceService: attendanceService,
		printer:           pdfPrinter,
		assets:            assets,
		now:               time.Now,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/statuses", s.handleStatuses)
		r.Get("/events", s.handleEvents)

		r.Get("/records", s.handleListRecords)
		r.Get("/records/{day}", s.handleGetRecord)
		r.Put("/records/{day}", s.handlePutRecord)
		r.Delete("/records/{day}", s.handleDeleteRecord)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
		r.Get("/summary", s.handleSummary)
		r.Get("/print", s.handlePrint)
	})

	r.Handle("/*", s.assets)

	return r
}

// NewHTTPServer builds the http.Server for addr.
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		logrus.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("HTTP request")
	})
}
