package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"vrent/internal/activation"
	"vrent/internal/audit"
	"vrent/internal/engine"
	"vrent/internal/httpapi"
	"vrent/pkg/config"
	"vrent/pkg/db"
	"vrent/pkg/erp"
	"vrent/pkg/logger"
)

func main() {
	cfg := config.Load()

	lg, err := logger.New(cfg.Log, cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		lg.Fatal("db open", zap.Error(err))
	}
	defer conn.Close()

	if cfg.MigrationsPath != "" {
		version, err := db.Migrate(cfg.MigrationsPath, cfg)
		if err != nil {
			lg.Fatal("migrate", zap.Error(err))
		}
		lg.Info("migrations applied", zap.Uint("version", version))
	}

	client := erp.Client{
		HTTPClient: &http.Client{Timeout: cfg.ERP.Timeout},
		BaseURL:    cfg.ERP.BaseURL,
		APIKey:     cfg.ERP.APIKey,
		APISecret:  cfg.ERP.APISecret,
		PageSize:   cfg.ERP.PageSize,
	}
	journal := audit.NewRepository(conn)

	guard := activation.NewGuard(activation.NewRecord(), activation.ERPActivator{
		ERP:     client,
		Doctype: cfg.ERP.VehicleDoctype,
		Field:   cfg.ERP.StageField,
		Format:  cfg.ERP.StageFormat,
	}, activation.Options{
		Logger:       lg,
		Journal:      journal,
		Concurrency:  cfg.Activation.Concurrency,
		ReleaseEnded: cfg.Activation.ReleaseEnded,
	})

	eng, err := engine.New(engine.ERPSource{
		ERP:            client,
		RentalDoctype:  cfg.ERP.RentalDoctype,
		VehicleDoctype: cfg.ERP.VehicleDoctype,
	}, guard, lg, engine.Config{
		TickInterval:    cfg.Engine.TickInterval,
		RefetchInterval: cfg.Engine.RefetchInterval,
		Location:        cfg.Rental.Location(),
		CodePattern:     cfg.Rental.VehicleCodePattern,
	})
	if err != nil {
		lg.Fatal("engine", zap.Error(err))
	}

	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		if err := eng.Run(ctx); err != nil && ctx.Err() == nil {
			lg.Error("engine stopped", zap.Error(err))
		}
	}()

	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg:     cfg,
		DB:      conn,
		Board:   eng,
		Journal: journal,
		Logger:  lg,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal("http serve", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
	<-engineDone
}
