package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/depot/internal/config"
	"github.com/mamadbah2/depot/internal/repository/mongodb"
	"github.com/mamadbah2/depot/internal/repository/sheets"
	"github.com/mamadbah2/depot/internal/scheduler"
	"github.com/mamadbah2/depot/internal/server/handlers"
	"github.com/mamadbah2/depot/internal/server/router"
	ledgersvc "github.com/mamadbah2/depot/internal/service/ledger"
	reconcilesvc "github.com/mamadbah2/depot/internal/service/reconcile"
	reportingsvc "github.com/mamadbah2/depot/internal/service/reporting"
	visionclient "github.com/mamadbah2/depot/pkg/clients/vision"
	"github.com/mamadbah2/depot/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, err := mongodb.NewRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	// Optional import collaborators: missing credentials disable the matching
	// endpoint instead of blocking startup.
	var visionCl visionclient.Client
	if cfg.Vision.APIKey != "" {
		visionCl = visionclient.NewClient(cfg.Vision)
		baseLogger.Info("vision client enabled")
	} else {
		baseLogger.Warn("vision api key missing, document scanning disabled")
	}

	var sheetImporter sheets.Importer
	if cfg.Sheets.CredentialsPath != "" {
		sheetImporter, err = sheets.NewGoogleSheetImporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets importer", zap.Error(err))
		}
	} else {
		baseLogger.Warn("sheets credentials missing, spreadsheet import disabled")
	}

	ledgerSvc := ledgersvc.NewService(repo, baseLogger.Named("svc.ledger"))
	importerSvc := reconcilesvc.NewService(repo, repo, cfg.Import.ChunkSize, baseLogger.Named("svc.reconcile"))
	reportingSvc := reportingsvc.NewService(repo, repo, baseLogger.Named("svc.reporting"))

	engine := router.New(router.Handlers{
		Products:  handlers.NewProductHandler(repo, baseLogger.Named("handlers.products")),
		Movements: handlers.NewMovementHandler(ledgerSvc, repo, baseLogger.Named("handlers.movements")),
		Imports:   handlers.NewImportHandler(importerSvc, visionCl, sheetImporter, baseLogger.Named("handlers.imports")),
		Options:   handlers.NewOptionHandler(repo, baseLogger.Named("handlers.options")),
	}, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
