package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ggpera/expense-tracker/config"
	"github.com/ggpera/expense-tracker/logger"
	"github.com/ggpera/expense-tracker/repository"
	"github.com/ggpera/expense-tracker/rest"
	"github.com/ggpera/expense-tracker/validation"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.Load()

	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout).With(logger.FieldComponent, logger.ComponentApp)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", logger.FieldError, err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped with error", logger.FieldError, err)
		os.Exit(1)
	}
	log.Info("Server stopped gracefully")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, cfg.DSN(), repository.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		return err
	}
	expenses := repository.NewExpenseRepoMysql(db)
	defer expenses.Close()
	log.Info("Connected to database", "host", cfg.DBHost, "database", cfg.DBName)

	v, err := validation.New()
	if err != nil {
		return err
	}

	a := rest.App{}
	a.Init(expenses, v, log)
	srv := a.Server(cfg.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Starting expense tracker", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
