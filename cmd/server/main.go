package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"GophVault/internal/auth"
	"GophVault/internal/config"
	"GophVault/internal/handlers"
	"GophVault/internal/middleware"
	"GophVault/internal/repo"
	"GophVault/internal/service"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func main() {
	cfg := config.NewConfig()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	if err := cfg.Validate(); err != nil {
		sugar.Fatalw("invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	userService := service.NewUserService(repo.NewUserRepository(gormDB))
	vault := service.NewVault(repo.NewStore(gormDB), sugar, service.WithMaxPageLimit(cfg.MaxPageLimit))

	if n, err := vault.Platforms.SeedGlobal(ctx, service.DefaultPlatforms); err != nil {
		sugar.Fatalw("failed to seed platforms", "error", err)
	} else if n > 0 {
		sugar.Infow("Seeded global platforms", "count", n)
	}

	sessions := auth.NewJWTSessions(cfg.AuthSecret, cfg.SessionTTL, cfg.EnableHTTPS)
	h := handlers.NewHandler(userService, vault, sessions, sugar, cfg)

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sugar.Infow("Starting server", "addr", srv.Addr)
	sugar.Infow("Config",
		"ServerURL", cfg.ServerURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"SessionTTL", cfg.SessionTTL,
		"MaxPageLimit", cfg.MaxPageLimit,
	)

	if err := serve(ctx, srv, sugar); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
	sugar.Infow("Server stopped")
}

// serve запускает srv и останавливает его после отмены ctx.
// Ошибка запуска отменяет ожидание остановки.
func serve(ctx context.Context, srv *http.Server, log *zap.SugaredLogger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorw("Server shutdown failed", "error", err)
			return err
		}
		return nil
	})
	return g.Wait()
}
