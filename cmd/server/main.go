// Package main is the entry point for the logistics API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"logitrack/internal/config"
	"logitrack/internal/domain/auth"
	v1 "logitrack/internal/infrastructure/http/v1"
	"logitrack/internal/infrastructure/storage/postgres"
	"logitrack/internal/infrastructure/storage/postgres/catalog_repo"
	"logitrack/internal/infrastructure/storage/postgres/dashboard_repo"
	"logitrack/internal/infrastructure/storage/postgres/movement_repo"
	"logitrack/internal/infrastructure/telemetry"
	"logitrack/pkg/logger"
	"logitrack/pkg/numerator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}
	log.Infow("starting logitrack server", "env", cfg.App.Env)

	// --- Telemetry ---
	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatalw("failed to initialize telemetry", "error", err)
	}

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.URL)
	poolCfg.MaxConns = cfg.DB.MaxConns
	poolCfg.MinConns = cfg.DB.MinConns
	poolCfg.ApplicationName = cfg.Telemetry.ServiceName

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if cfg.App.AutoMigrate {
		if err := postgres.ApplySchema(ctx, pool); err != nil {
			log.Fatalw("failed to apply schema", "error", err)
		}
		log.Info("schema applied")
	}

	txManager := postgres.NewTxManager(pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit", "error", err)
	}

	numbers := numerator.NewWithResolver(func(ctx context.Context) numerator.Querier {
		return txManager.GetQuerier(ctx)
	})

	// --- JWT ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	jwtConfig.Issuer = cfg.JWT.Issuer
	jwtConfig.AccessTokenTTL = cfg.JWT.TTL
	jwtService := auth.NewJWTService(jwtConfig)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		ServiceName:   cfg.Telemetry.ServiceName,
		Logger:        log,
		JWTValidator:  jwtService,
		DB:            pool,
		TxManager:     txManager,
		Audit:         auditService,
		BaseRepo:      catalog_repo.NewBaseRepo(txManager),
		EquipmentRepo: catalog_repo.NewEquipmentTypeRepo(txManager),
		DashboardRepo: dashboard_repo.NewDashboardRepo(txManager),
		MovementRepo:  movement_repo.NewMovementRepo(txManager),
		Numbers:       numbers,
		Development:   cfg.App.IsDevelopment(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}
	pool.LogStats(shutdownCtx)
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Warnw("telemetry shutdown failed", "error", err)
	}

	log.Info("server stopped")
}
