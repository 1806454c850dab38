package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	tele "gopkg.in/telebot.v3"

	"taxifrota/config"
	"taxifrota/pkg/api"
	"taxifrota/pkg/auth"
	"taxifrota/pkg/bot"
	"taxifrota/pkg/cep"
	"taxifrota/pkg/logger"
	"taxifrota/pkg/notify"
	"taxifrota/service"
	"taxifrota/storage"
	"taxifrota/storage/files"
	"taxifrota/storage/memory"
	"taxifrota/storage/postgres"
	"taxifrota/storage/redis"
)

func main() {
	// 1. Config and logger
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage
	stg, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to open storage", logger.Error(err))
		os.Exit(1)
	}
	defer stg.Close()

	// 3. Optional integrations
	opts := []service.Option{
		service.WithTokens(auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, cfg.ServiceName)),
		service.WithAddressLookup(cep.New(cfg.CEPBaseURL, log)),
		service.WithStatsCache(statsCache(ctx, cfg, log)),
	}

	fileStore, err := files.New(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to init file storage", logger.Error(err))
		os.Exit(1)
	}
	opts = append(opts, service.WithFiles(fileStore))

	if cfg.GoogleCredentialsFile != "" && cfg.GoogleCalendarID != "" {
		cal, err := notify.NewGoogleCalendar(ctx, cfg.GoogleCredentialsFile, cfg.GoogleCalendarID, log)
		if err != nil {
			log.Warning("Google Calendar disabled", logger.Error(err))
		} else {
			opts = append(opts, service.WithCalendar(cal))
		}
	}

	var tb *tele.Bot
	if cfg.AdminBotToken != "" {
		tb, err = bot.Connect(&cfg, log)
		if err != nil {
			log.Error("Failed to connect admin bot", logger.Error(err))
			os.Exit(1)
		}
		opts = append(opts, service.WithNotifier(notify.NewTelegram(tb, cfg.AdminChatIDs, log)))
	}

	// 4. Services
	svc := service.New(stg, log, opts...)
	var adminBot *bot.Bot
	if tb != nil {
		adminBot = bot.New(tb, cfg.AdminChatIDs, svc, log)
	}

	// 5. Run HTTP API and admin bot until a signal arrives
	handler := api.New(&cfg, svc, log)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return handler.Run(gctx)
	})
	if adminBot != nil {
		g.Go(func() error {
			go adminBot.Start()
			<-gctx.Done()
			adminBot.Stop()
			return nil
		})
	}

	log.Info("🚀 taxifrota is running", logger.String("storage", cfg.StorageBackend))
	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", logger.Error(err))
		os.Exit(1)
	}
	log.Info("Shut down cleanly")
}

func openStorage(ctx context.Context, cfg config.Config, log logger.ILogger) (storage.IStorage, error) {
	if cfg.StorageBackend == config.StorageBackendMemory {
		log.Warning("Using in-memory storage, data is lost on restart")
		return memory.New(log), nil
	}
	return postgres.New(ctx, cfg, log)
}

// statsCache falls back to no caching when Redis does not answer.
func statsCache(ctx context.Context, cfg config.Config, log logger.ILogger) storage.IStatsCache {
	client := redis.NewClient(cfg)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warning("Redis unavailable, dashboard stats will not be cached", logger.Error(err))
		_ = client.Close()
		return redis.NewNopCache()
	}
	return redis.NewStatsCache(client, cfg.StatsCacheTTL, log)
}
