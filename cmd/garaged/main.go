// Command garaged runs the garage HTTP service.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"

	"garage/internal/config"
	"garage/internal/inventory"
	"garage/internal/logging"
	"garage/internal/server"
)

func main() {
	configFlag := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	// Single-instance guard, separate from the store write lock.
	instanceLock := flock.New(filepath.Join(cfg.Paths.DataDir, "garaged.lock"))
	locked, err := instanceLock.TryLock()
	if err != nil {
		log.Fatalf("acquire instance lock: %v", err)
	}
	if !locked {
		log.Fatal("another garaged instance is already running")
	}
	defer instanceLock.Unlock() //nolint:errcheck

	svc := inventory.NewService(cfg, logger)
	srv := server.New(cfg.Paths.APIBind, svc, logger)
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("start api server: %v", err)
	}

	<-ctx.Done()
	srv.Stop()
	logger.Info("garaged stopped")
}
