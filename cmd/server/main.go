package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"secure.links/config"
	"secure.links/internal/access"
	"secure.links/internal/api"
	"secure.links/internal/catalog"
	"secure.links/internal/history"
	"secure.links/internal/links"
	"secure.links/internal/logging"
	"secure.links/internal/session"
	"secure.links/internal/store"
	"secure.links/internal/ws"

	"github.com/redis/go-redis/v9"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("config error: ", err)
	}

	logger, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		log.Fatal("logger error: ", err)
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := initStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	docs, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	downloads, err := history.New(cfg.History.Capacity)
	if err != nil {
		return err
	}

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	registry := links.NewRegistry(links.Options{
		Lifetime:     cfg.Links.Lifetime,
		TickInterval: cfg.Links.TickInterval,
		TickStep:     cfg.Links.TickStep,
		BaseURL:      cfg.Server.BaseURL,
		Store:        st,
		Notifier:     hub,
		Logger:       logger,
	})
	registry.Start(ctx)
	defer registry.Stop()

	router := api.SetupRouter(api.Deps{
		Registry: registry,
		Catalog:  docs,
		Sessions: session.NewManager(cfg.Session.MaxSessions, cfg.Session.IdleTTL),
		History:  downloads,
		Access:   access.NewManager(docs),
		Logger:   logger,
	}, hub, cfg)

	logger.Info("server starting",
		slog.String("addr", cfg.Addr()),
		slog.String("base_url", cfg.Server.BaseURL),
		slog.String("store", cfg.Store.Type),
		slog.Duration("link_lifetime", cfg.Links.Lifetime),
	)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func initStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Type {
	case "redis":
		st, err := store.NewRedisStore(&redis.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		return st, nil
	default:
		return store.NewMemoryStore(cfg.Store.CleanupInterval), nil
	}
}
