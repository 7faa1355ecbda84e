// Package main is the entry point for the ledgerpos API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/unrolled/secure"

	"ledgerpos/internal/app"
	"ledgerpos/internal/config"
	"ledgerpos/internal/domain/auth"
	v1 "ledgerpos/internal/infrastructure/http/v1"
	"ledgerpos/pkg/logger"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("starting ledgerpos server", "env", cfg.AppEnv)

	services, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to initialize services", "error", err)
	}

	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWTSecret))

	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		JWTValidator: jwtService,
		DB:           services.Pool,
		Location:     cfg.Location(),
		Development:  cfg.IsDevelopment(),
		Accounts:     services.Accounts,
		Reports:      services.Reports,
		Finance:      services.Finance,
		Cash:         services.Cash,
		Sales:        services.Sales,
		Payments:     services.Payments,
	})

	handler, err := wrap(router, cfg)
	if err != nil {
		log.Fatalw("failed to build http stack", "error", err)
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.AppPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}
	services.Close(shutdownCtx, log)

	_ = log.Sync()
	log.Info("server stopped")
}

// wrap adds security headers and response compression around the router.
// Spreadsheets are already zip archives and are sent as is.
func wrap(router http.Handler, cfg *config.Config) (http.Handler, error) {
	gzip, err := gzhttp.NewWrapper(
		gzhttp.MinSize(1024),
		gzhttp.ExceptContentTypes([]string{contentTypeXLSX}),
	)
	if err != nil {
		return nil, err
	}

	headers := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        cfg.IsProduction(),
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      cfg.IsDevelopment(),
	})

	return headers.Handler(gzip(router)), nil
}
