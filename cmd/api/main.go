package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/httpx"
	"bookstore/internal/logger"
	"bookstore/internal/platform/mongodb"
	"bookstore/internal/stats"

	"github.com/rs/zerolog"
)

const (
	maxRequestBody  = 1 << 20
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "json")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, err := mongodb.Connect(ctx, cfg.MongoURI, log)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	log.Info().Str("uri", mongodb.RedactURI(cfg.MongoURI)).Str("database", cfg.MongoDatabase).Msg("database connection OK")

	coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)

	bookHandler := book.NewHTTPHandler(book.NewService(book.NewMongoRepo(coll, cfg.QueryTimeout)), log)
	statsHandler := stats.NewHTTPHandler(stats.NewService(stats.NewMongoRepo(coll, cfg.QueryTimeout)), log)
	router := newRouter(bookHandler, statsHandler, func(ctx context.Context) error {
		return mongodb.Ping(ctx, client)
	})

	rateLimiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustProxy)
	defer rateLimiter.Stop()

	handler := httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log),
		httpx.RecoveryMiddleware(log),
		rateLimiter.Middleware,
		httpx.SecurityHeadersMiddleware(!cfg.IsLocal()),
		httpx.CORSMiddleware(cfg.CORSOrigins),
		httpx.RequestSizeLimitMiddleware(maxRequestBody),
	)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("env", cfg.Env).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
