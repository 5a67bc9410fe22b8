package main

import (
	"context"
	"errors"
	"fmt"
	"logicode/internal/api"
	"logicode/internal/app"
	"logicode/internal/platform/config"
	"logicode/internal/platform/logger"
	"logicode/internal/platform/metrics"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "logicode:", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	if err := config.Load(); err != nil {
		return err
	}
	cfg := config.AppConfig

	// 2. Logger and metrics
	if err := logger.InitLogger(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		return err
	}
	log := logger.Log
	defer log.Sync()
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Store, repositories and services
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()
	log.Info("store opened", zap.String("backend", cfg.StoreBackend), zap.String("namespace", cfg.StoreNamespace))

	if err := a.Seed(ctx); err != nil {
		return err
	}

	// 4. Router and HTTP server
	router := api.NewRouter(api.RouterOptions{
		Tokens:                 a.Tokens,
		Logger:                 log,
		CORSAllowedOrigins:     cfg.CORSAllowedOrigins,
		AuthRateLimitPerMinute: cfg.AuthRateLimitPerMinute,
	}, a.Auth, a.Challenge, a.Question, a.Admin, a.Dashboard)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 5. Serve until a signal arrives, then shut down gracefully
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", zap.String("port", cfg.APIPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not listen on %s: %w", cfg.APIPort, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped gracefully")
	return nil
}
