package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gprf24/pickUpLivery/api/routes"
	"github.com/gprf24/pickUpLivery/internal/auth"
	"github.com/gprf24/pickUpLivery/internal/pharmacies"
	"github.com/gprf24/pickUpLivery/internal/pickups"
	"github.com/gprf24/pickUpLivery/internal/regions"
	"github.com/gprf24/pickUpLivery/internal/settings"
	"github.com/gprf24/pickUpLivery/internal/users"
	"github.com/gprf24/pickUpLivery/pkg/config"
	"github.com/gprf24/pickUpLivery/pkg/db"
	"github.com/gprf24/pickUpLivery/pkg/logger"
	"github.com/gprf24/pickUpLivery/pkg/metrics"
	"github.com/gprf24/pickUpLivery/pkg/migrate"
	"github.com/gprf24/pickUpLivery/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()

	usersRepo := users.NewRepository(gormDB)
	usersService, err := users.NewService(usersRepo, cfg.Password)
	requireService(logg, "users", err)

	authService, err := auth.NewService(usersRepo, cfg.JWT)
	requireService(logg, "auth", err)

	regionsService, err := regions.NewService(regions.NewRepository(gormDB))
	requireService(logg, "regions", err)

	pharmaciesRepo := pharmacies.NewRepository(gormDB)
	pharmaciesService, err := pharmacies.NewService(pharmaciesRepo, usersRepo)
	requireService(logg, "pharmacies", err)

	settingsRepo := settings.NewRepository(gormDB)
	settingsService, err := settings.NewService(settingsRepo)
	requireService(logg, "settings", err)

	pickupMetrics := metrics.NewPickupMetrics(prometheus.DefaultRegisterer)

	pickupsService, err := pickups.NewService(
		pickups.NewRepository(gormDB),
		pharmacies.NewReader(pharmaciesRepo),
		settingsRepo,
		users.ReaderFor(usersRepo),
		dbClient,
		cfg.Pickup,
		logg,
		pickupMetrics,
	)
	requireService(logg, "pickups", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, users.ActiveCheckerFor(usersRepo), routes.Services{
			Auth:       authService,
			Pickups:    pickupsService,
			Pharmacies: pharmaciesService,
			Regions:    regionsService,
			Users:      usersService,
			Settings:   settingsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}
