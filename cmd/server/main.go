package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/vkotliar/matchmaker/internal/app"
	"github.com/vkotliar/matchmaker/internal/cache"
	"github.com/vkotliar/matchmaker/internal/config"
	"github.com/vkotliar/matchmaker/internal/db"
	"github.com/vkotliar/matchmaker/internal/geo"
	"github.com/vkotliar/matchmaker/internal/logger"
	"github.com/vkotliar/matchmaker/internal/server"
	"github.com/vkotliar/matchmaker/internal/service/matchmaking"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	// Inject logger into app context
	appCtx := app.New(database, redisCache, log)

	geocoder := geo.NewNominatimClient(cfg)
	notifier := &matchmaking.LogNotifier{Logger: log}

	registrars := []server.Registrar{
		matchmaking.NewRegistrar(appCtx, cfg, geocoder, notifier),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedDemoData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
