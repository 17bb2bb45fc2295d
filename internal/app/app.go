// Package app wires the development stub server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"forumview/config"
	"forumview/internal/adapter/in/httpapi"
	membus "forumview/internal/adapter/out/pubsub/inmemory"
	memstore "forumview/internal/adapter/out/storage/inmemory"
	pgstore "forumview/internal/adapter/out/storage/postgres"
	"forumview/internal/stub"
	"forumview/pkg/logger"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	cfg     config.StubConfig
	srv     *http.Server
	pool    *pgxpool.Pool
	handler http.Handler
}

func NewApp(ctx context.Context, cfg config.StubConfig) (*App, error) {
	log := logger.FromContext(ctx)

	var (
		storage stub.Storage
		tx      stub.Transactor
		pool    *pgxpool.Pool
	)

	switch cfg.StorageType {
	case "postgres":
		var err error
		pool, err = pgxpool.New(ctx, cfg.Postgres.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("pgxpool: %w", err)
		}
		if err := pgstore.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		storage = pgstore.New(pool, trmpgx.DefaultCtxGetter)
		tx = manager.Must(trmpgx.NewDefaultFactory(pool))

	default:
		storage = memstore.New()
		tx = stub.NoTx{}
	}

	svc := stub.NewService(storage, tx, stub.WithCommentBus(membus.New(cfg.LiveBuffer)))
	if cfg.Seed {
		if err := svc.Seed(ctx); err != nil {
			if pool != nil {
				pool.Close()
			}
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	tokens := httpapi.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	router := httpapi.NewRouter(httpapi.NewHandler(svc, tokens), tokens, reg)

	addr := ":" + cfg.HTTP.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           withBaseContext(ctx, router),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("app initialized", "addr", addr, "storage", cfg.StorageType)
	return &App{cfg: cfg, srv: srv, pool: pool, handler: srv.Handler}, nil
}

// Handler exposes the router for in-process use.
func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = a.srv.Shutdown(shCtx)
		a.Close()
		return nil

	case err := <-errCh:
		a.Close()
		return err
	}
}

func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// withBaseContext gives every request the logger carried by ctx.
func withBaseContext(ctx context.Context, h http.Handler) http.Handler {
	log := logger.FromContext(ctx)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r.WithContext(logger.WithLogger(r.Context(), log)))
	})
}
