package main

import (
	"context"
	"fmt"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/tasklist/api/handler"
	"github.com/fastygo/tasklist/internal/config"
	"github.com/fastygo/tasklist/internal/infrastructure/boltdb"
	"github.com/fastygo/tasklist/internal/infrastructure/monitor"
	sqliteInfra "github.com/fastygo/tasklist/internal/infrastructure/sqlite"
	"github.com/fastygo/tasklist/internal/middleware"
	"github.com/fastygo/tasklist/internal/router"
	"github.com/fastygo/tasklist/internal/services/lifecycle"
	"github.com/fastygo/tasklist/pkg/httpcontext"
	"github.com/fastygo/tasklist/pkg/i18n"
	"github.com/fastygo/tasklist/pkg/logger"
	"github.com/fastygo/tasklist/repository"
	boltRepo "github.com/fastygo/tasklist/repository/bolt"
	"github.com/fastygo/tasklist/repository/memory"
	sqliteRepo "github.com/fastygo/tasklist/repository/sqlite"
	taskUC "github.com/fastygo/tasklist/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	stopListening := manager.Listen(cancel)
	defer stopListening()

	tasks, err := openStorage(cfg, manager, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to open task storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}

	location, err := cfg.Location()
	if err != nil {
		zapLogger.Fatal("invalid display time zone", zap.String("tz", cfg.Locale.TimeZone), zap.Error(err))
	}
	messages, err := i18n.New(cfg.Locale.Default, i18n.WithLocation(location))
	if err != nil {
		zapLogger.Fatal("failed to load messages", zap.String("locale", cfg.Locale.Default), zap.Error(err))
	}

	taskUseCase := taskUC.New(tasks, zapLogger.Named("tasks"))
	if err := taskUseCase.Load(appCtx); err != nil {
		// the store already started empty; the warning is the diagnostic
		zapLogger.Warn("continuing with an empty task list", zap.Error(err))
	}

	var probe repository.Pinger
	if p, ok := tasks.(repository.Pinger); ok {
		probe = p
	}
	mon := monitor.New(cfg.Storage.Driver, probe, taskUseCase, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:   apiHandler.NewTaskHandler(taskUseCase, messages, ctxAdapter, zapLogger),
		Locale: apiHandler.NewLocaleHandler(messages, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}
	r := router.New(handlers)

	server := &fasthttp.Server{
		Handler: middleware.Chain(r.Handler,
			middleware.Recovery(zapLogger),
			middleware.AccessLog(zapLogger),
		),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("locale", string(messages.CurrentLocale())))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Error("server stopped", zap.Error(err))
			cancel()
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

func openStorage(cfg *config.Config, manager *lifecycle.Manager, zapLogger *zap.Logger) (repository.TaskRepository, error) {
	switch cfg.Storage.Driver {
	case config.DriverBolt:
		store, err := boltdb.Open(cfg.Storage.Path, cfg.Storage.Bucket)
		if err != nil {
			return nil, err
		}
		manager.Register("bolt", func(ctx context.Context) error {
			return store.Close()
		})
		zapLogger.Info("opened bolt storage", zap.String("path", store.Path()), zap.String("slot", cfg.Storage.Slot))
		return boltRepo.NewTaskRepository(store, cfg.Storage.Slot), nil

	case config.DriverSQLite:
		db, err := sqliteInfra.Open(cfg.Storage.Path, cfg.Storage.Debug, zapLogger)
		if err != nil {
			return nil, err
		}
		manager.Register("sqlite", func(ctx context.Context) error {
			return sqliteInfra.Close(db)
		})
		return sqliteRepo.NewTaskRepository(db, cfg.Storage.Slot), nil

	case config.DriverMemory:
		zapLogger.Warn("memory storage selected, tasks are lost on exit")
		return memory.NewTaskRepository(), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
