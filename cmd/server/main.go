package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/mehdibp/site-api/api"
	"github.com/mehdibp/site-api/contact"
	"github.com/mehdibp/site-api/newsletter"
	"github.com/mehdibp/site-api/pkg/captcha"
	"github.com/mehdibp/site-api/pkg/config"
	"github.com/mehdibp/site-api/pkg/email"
	"github.com/mehdibp/site-api/pkg/httpserver"
	"github.com/mehdibp/site-api/pkg/logger"
	"github.com/mehdibp/site-api/pkg/ratelimit"
	redisconn "github.com/mehdibp/site-api/pkg/redis"
)

type appConfig struct {
	Logger     logger.Config
	Server     httpserver.Config
	Redis      redisconn.Config
	Email      email.Config
	Captcha    captcha.Config
	Contact    contact.Config
	Newsletter newsletter.Config
	RateLimit  ratelimit.Config
	CORS       api.CORSConfig
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg.Logger)
	config.MustLoad(&cfg.Server)
	config.MustLoad(&cfg.Redis)
	config.MustLoad(&cfg.Email)
	config.MustLoad(&cfg.Captcha)
	config.MustLoad(&cfg.Contact)
	config.MustLoad(&cfg.Newsletter)
	config.MustLoad(&cfg.RateLimit)
	config.MustLoad(&cfg.CORS)

	log := logger.NewFromConfig(cfg.Logger, logger.WithAttrs(slog.String("app", "site-api")))
	ctx := context.Background()

	sender, err := email.NewSender(cfg.Email)
	if err != nil {
		log.Error("failed to create email sender", slog.Any("error", err))
		os.Exit(1)
	}

	// Without REDIS_URL both the limiter and the subscriber list fall back
	// to in-process storage, which is enough for a single instance.
	var (
		limitStore ratelimit.Store
		subStore   newsletter.Store
	)
	if cfg.Redis.ConnectionURL != "" {
		client, err := redisconn.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer client.Close()

		limitStore = ratelimit.NewRedisStore(client, "ratelimit:")
		subStore = newsletter.NewRedisStore(client)
	} else {
		log.Warn("REDIS_URL not set, using in-memory stores")

		memLimit := ratelimit.NewMemoryStore()
		defer memLimit.Close()
		limitStore = memLimit

		subStore, err = newsletter.NewMemStore()
		if err != nil {
			log.Error("failed to create subscriber store", slog.Any("error", err))
			os.Exit(1)
		}
	}

	limiter, err := ratelimit.NewSlidingWindow(limitStore, cfg.RateLimit.Limit, cfg.RateLimit.Window)
	if err != nil {
		log.Error("failed to create rate limiter", slog.Any("error", err))
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterDeps{
		Contact:    contact.NewService(cfg.Contact, sender, captcha.FromConfig(cfg.Captcha), log),
		Newsletter: newsletter.NewService(cfg.Newsletter, subStore, sender, log),
		Limiter:    limiter,
		RateLimit:  cfg.RateLimit,
		CORS:       cfg.CORS,
		Logger:     log,
	})

	srv := httpserver.New(cfg.Server, httpserver.WithLogger(log))
	if err := srv.Run(ctx, router); err != nil {
		log.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}
