package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/seunsodimu/lag-int-sub001/pkg/api"
	"github.com/seunsodimu/lag-int-sub001/pkg/config"
	"github.com/seunsodimu/lag-int-sub001/pkg/httpserver"
	"github.com/seunsodimu/lag-int-sub001/pkg/logger"
	"github.com/seunsodimu/lag-int-sub001/pkg/mailer"
	"github.com/seunsodimu/lag-int-sub001/pkg/notify"
	"github.com/seunsodimu/lag-int-sub001/pkg/pg"
	"github.com/seunsodimu/lag-int-sub001/pkg/pipeline"
	"github.com/seunsodimu/lag-int-sub001/pkg/recipients"
	"github.com/seunsodimu/lag-int-sub001/pkg/redis"
	"github.com/seunsodimu/lag-int-sub001/pkg/webhook"
)

type appConfig struct {
	LogLevel         slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	DefaultRecipient string     `env:"NOTIFICATIONS_DEFAULT_RECIPIENT" envDefault:"web_dev@lagunatools.com"`

	PG       pg.Config
	Redis    redis.Config
	Mailer   mailer.Config
	Notify   notify.Config
	API      api.Config
	HTTP     httpserver.Config
	Upstream pipeline.ClientConfig
}

func main() {
	ctx := context.Background()

	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithLevel(cfg.LogLevel),
		logger.WithService("lag-int-sub001"),
	)
	logger.SetAsDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.ErrorContext(ctx, "Server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
		return err
	}

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	store := recipients.NewPGStore(cfg.PG, log)
	defer store.Close()

	resolver, err := recipients.NewResolver(store, cfg.DefaultRecipient, notify.AllTypes(), log)
	if err != nil {
		return err
	}

	factory, err := mailer.NewFactory(ctx, cfg.Mailer, log)
	if err != nil {
		return err
	}

	router := notify.NewRouter(cfg.Notify, factory.Active(), resolver, log)
	manualRouter := router.Manual()

	clients := cfg.Upstream
	threeDCart := clients.ThreeDCart()
	hubspot := clients.HubSpot()
	netsuite := clients.NetSuite()

	webhookOrders := pipeline.NewOrderPipeline(threeDCart, netsuite, router, log)
	webhookLeads := pipeline.NewLeadPipeline(hubspot, netsuite, router, log)
	manualOrders := pipeline.NewOrderPipeline(threeDCart, netsuite, manualRouter, log)
	manualLeads := pipeline.NewLeadPipeline(hubspot, netsuite, manualRouter, log)
	inventory := pipeline.NewInventorySyncer(netsuite, threeDCart, manualRouter, log)

	deduper := webhook.NewDeduper(redisClient, cfg.API.DedupTTL, log)

	webhooks := api.NewWebhookHandler(cfg.API, deduper, webhookOrders, webhookLeads, log)
	admin := api.NewAdminHandler(resolver, factory, manualOrders, manualLeads, inventory, log)

	handler := api.NewRouter(webhooks, admin, log,
		pg.Healthcheck(pool),
		redis.Healthcheck(redisClient),
	)

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, handler)
}
