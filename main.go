package main

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/vidpost/config"
	"github.com/nijaru/vidpost/handlers/api"
	"github.com/nijaru/vidpost/logger"
	"github.com/nijaru/vidpost/media"
	"github.com/nijaru/vidpost/repository/sqlite"
	"github.com/nijaru/vidpost/services/formatting"
	"github.com/nijaru/vidpost/services/pipeline"
	"github.com/nijaru/vidpost/services/transcription"
	"github.com/nijaru/vidpost/storage"
	"github.com/nijaru/vidpost/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(logger.Options{
		Dir:   cfg.LogDir,
		Debug: cfg.Debug,
		JSON:  cfg.Environment == "production",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if cfg.Transcription.APIKey == "" {
		appLogger.Warn("OPENAI_API_KEY is not set; transcription requests will fail")
	}
	if cfg.Generation.APIKey == "" {
		appLogger.Warn("ANTHROPIC_API_KEY is not set; formatting requests will fail")
	}
	if !cfg.Auth.Enabled() {
		appLogger.Warn("AUTH_USERNAME or AUTH_PASSWORD is not set; all routes are public")
	}

	workDir, err := storage.NewWorkDir(cfg.Upload.Dir)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to prepare upload directory")
	}

	runner := media.NewExecRunner(appLogger)
	extractor := media.NewExtractor(
		cfg.Extractor,
		media.NewProbeLocator(cfg.Extractor.Candidates, runner),
		runner,
		appLogger,
	)
	transcriber := transcription.NewWhisperClient(cfg.Transcription, appLogger)
	formatter := formatting.NewService(
		formatting.NewClaudeGenerator(cfg.Generation),
		cfg.Generation.Timeout,
		appLogger,
	)
	validator := validation.NewValidator(cfg.Upload)

	opts := []pipeline.Option{pipeline.WithLogger(appLogger)}

	var db *sql.DB
	if cfg.Database.Path != "" {
		db, err = sqlite.InitDB(cfg.Database.Path, cfg.Database.MaxConnections)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize database")
		}
		defer db.Close()
		opts = append(opts, pipeline.WithRunRepository(sqlite.NewRepository(db)))
		appLogger.WithField("path", cfg.Database.Path).Info("Run ledger enabled")
	}

	if cfg.Archive.Enabled() {
		archive, err := storage.NewSpacesArchive(context.Background(), cfg.Archive)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize transcript archive")
		}
		opts = append(opts, pipeline.WithArchive(archive))
		appLogger.WithField("bucket", cfg.Archive.Bucket).Info("Transcript archive enabled")
	}

	svc := pipeline.NewService(validator, workDir, extractor, transcriber, formatter, opts...)

	server := api.NewServer(cfg,
		api.WithLogger(appLogger),
		api.WithServices(svc, validator),
	)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	errs := make(chan error, 1)
	go func() {
		errs <- server.Start()
	}()

	select {
	case err := <-errs:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Fatal("Server error")
		}
	case sig := <-shutdown:
		appLogger.WithField("signal", sig.String()).Info("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			appLogger.WithFields(logrus.Fields{
				"error":   err,
				"timeout": cfg.ShutdownTimeout,
			}).Error("Server shutdown error")
		}
	}
}
