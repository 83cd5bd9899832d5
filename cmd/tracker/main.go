package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendance-tracker/internal/assets"
	"attendance-tracker/internal/config"
	"attendance-tracker/internal/database"
	"attendance-tracker/internal/handler"
	"attendance-tracker/internal/printer"
	"attendance-tracker/internal/repository"
	"attendance-tracker/internal/service"
	"attendance-tracker/internal/shell"
	"attendance-tracker/internal/web"
	"attendance-tracker/pkg/telegram"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	logrus.Info("Initializing config...")
	cfg := config.GetConfig()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("Unknown log level %q, using info", cfg.LogLevel)
	}
	logrus.Info("Config initialized...")

	// Хранилище открывается один раз, без него работать нельзя
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open record store")
	}

	attendanceRepo, err := repository.NewGormAttendanceRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create attendance repository")
	}

	cacheRepo, err := repository.NewGormCacheRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create cache repository")
	}

	attendanceService := service.NewAttendanceService(attendanceRepo)
	pdfPrinter := printer.NewPDFPrinter()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Начальная загрузка резервной копии (только в пустое хранилище)
	if cfg.SeedFile != "" {
		count, err := attendanceService.ImportFile(ctx, cfg.SeedFile)
		if err != nil {
			logrus.WithError(err).WithField("file", cfg.SeedFile).Warn("Failed to import seed backup")
		} else if count > 0 {
			logrus.Infof("Seed backup imported: %d records", count)
		}
	}

	fetcher := shell.NewRouteFetcher(
		shell.NewFSFetcher(assets.Static()),
		shell.NewHTTPFetcher(&http.Client{Timeout: 30 * time.Second}),
	)
	offline := shell.New(
		cfg.CacheVersion,
		cfg.CDNBaseURL,
		shell.DefaultAssets(cfg.CDNBaseURL),
		cacheRepo,
		fetcher,
	)

	srv := web.NewServer(attendanceService, pdfPrinter, offline).NewHTTPServer(cfg.HTTPAddr)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logrus.Infof("Listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// Установка кэша один раз при старте, ошибки не фатальны
	g.Go(func() error {
		if err := offline.Start(gctx); err != nil {
			logrus.WithError(err).Warn("Offline shell not installed")
		}
		return nil
	})

	if cfg.BotEnabled() {
		client, err := telegram.NewClient(cfg.TelegramToken, cfg.TelegramDebug, int(cfg.TelegramUpdateTimeout))
		if err != nil {
			logrus.WithError(err).Fatal("Failed to create Telegram client")
		}
		logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

		botHandler := handler.NewHandler(client, attendanceService, pdfPrinter, cfg)
		updates := client.Bot.GetUpdatesChan(client.UpdateConfig)

		g.Go(func() error {
			botHandler.HandleUpdates(gctx, updates)
			client.Stop()
			return nil
		})
	} else {
		logrus.Info("TELEGRAM_BOT_TOKEN not set, bot disabled")
	}

	logrus.Info("Tracker started. Press Ctrl+C to stop.")
	if err := g.Wait(); err != nil {
		logrus.WithError(err).Error("Tracker stopped with error")
	}

	if err := database.Close(db); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Tracker stopped gracefully")
}
