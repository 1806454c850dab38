package main

import (
	"context"
	"fmt"
	"os"

	"taxifrota/config"
	"taxifrota/pkg/logger"
	"taxifrota/storage"
	"taxifrota/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	env := &cliEnv{
		log: log,
		open: func(ctx context.Context) (storage.IStorage, error) {
			return postgres.New(ctx, cfg, log)
		},
		migrate: func(up bool) error {
			return postgres.Migrate(cfg, log, up)
		},
	}

	if err := newRootCommand(env).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
