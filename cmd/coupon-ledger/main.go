package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Cheertaboi/coupon-ledger/internal/api"
	"github.com/Cheertaboi/coupon-ledger/internal/config"
	"github.com/Cheertaboi/coupon-ledger/internal/logging"
	"github.com/Cheertaboi/coupon-ledger/internal/repository"
	"github.com/Cheertaboi/coupon-ledger/internal/service"
	"github.com/Cheertaboi/coupon-ledger/pkg/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("coupon-ledger stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	conn, err := db.NewPostgresConnection(cfg.Postgres)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(ctx, conn); err != nil {
		return err
	}

	txm := db.NewTxManager(conn)
	ledger := service.NewLedgerService(txm, repository.NewIssuedRepo(), repository.NewCompletedRepo(), logger)
	guestbook := service.NewGuestbookService(txm, repository.NewGuestbookRepo(), cfg.Guestbook.TestPrefix, logger)

	if cfg.Seed.Enabled {
		seeded, err := ledger.SeedIfEmpty(ctx)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		if seeded {
			logger.Info("seeded sample coupons")
		}
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: api.NewRouter(api.Options{
			Ledger:       ledger,
			Guestbook:    guestbook,
			DB:           conn,
			Logger:       logger,
			MaxBodyBytes: cfg.Server.MaxBodyBytes,
			StaticDir:    cfg.Server.StaticDir,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown", zap.Error(err))
		}
		close(idleConnsClosed)
	}()

	logger.Info("starting coupon-ledger", zap.String("addr", cfg.Server.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	<-idleConnsClosed
	logger.Info("server stopped")
	return nil
}
