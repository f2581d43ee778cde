package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pmorin/netwatch/internal/config"
	"github.com/pmorin/netwatch/internal/httpapi"
	"github.com/pmorin/netwatch/internal/logging"
	"github.com/pmorin/netwatch/internal/probe"
	"github.com/pmorin/netwatch/internal/repo"
	"github.com/pmorin/netwatch/internal/repo/postgres"
	"github.com/pmorin/netwatch/internal/repo/sqlite"
	"github.com/pmorin/netwatch/internal/scheduler"
	"github.com/pmorin/netwatch/internal/stats"
)

func main() {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store repo.SampleStore
	if cfg.DatabaseURL != "" {
		store, err = postgres.New(ctx, cfg.DatabaseURL)
	} else {
		store, err = sqlite.New(cfg.DBPath)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	pinger := probe.NewPinger(cfg.PingCount, cfg.PingTimeout)
	runner := scheduler.NewRunner(logger, store, pinger, cfg.Hosts, cfg.Interval)
	go runner.Run(ctx)

	api := httpapi.NewServer(logger, stats.New(store))

	srv := &http.Server{Addr: cfg.Addr, Handler: api.Router()}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	logger.Info("api_listen",
		zap.String("addr", cfg.Addr),
		zap.Strings("hosts", cfg.Hosts),
		zap.Duration("interval", cfg.Interval),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
