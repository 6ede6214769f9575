package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/HOLYLABS972/esim-main-sub002/internal/cache"
	"github.com/HOLYLABS972/esim-main-sub002/internal/config"
	"github.com/HOLYLABS972/esim-main-sub002/internal/currency"
	"github.com/HOLYLABS972/esim-main-sub002/internal/database"
	"github.com/HOLYLABS972/esim-main-sub002/internal/handler"
	"github.com/HOLYLABS972/esim-main-sub002/internal/repository"
	"github.com/HOLYLABS972/esim-main-sub002/internal/service"
	"github.com/HOLYLABS972/esim-main-sub002/internal/worker"
	"github.com/HOLYLABS972/esim-main-sub002/pkg/dataplans"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Env)

	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connected")

	if err := runMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	log.Info().Msg("Migrations applied")

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	log.Info().Msg("Redis connected")

	// Repositories
	catalogRepo := repository.NewCatalogRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	trxRepo := repository.NewTransactionRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)

	// Services
	settingsSvc := service.NewSettingsService(settingsRepo, cache.NewSettingsCache(redisClient))
	normalizer := currency.NewNormalizer(cfg.Currency)
	plansClient := dataplans.NewClient(cfg.DataPlans.BaseURL, cfg.DataPlans.APIToken)
	syncSvc := service.NewSyncService(plansClient, catalogRepo, normalizer, settingsSvc)
	catalogSvc := service.NewCatalogService(catalogRepo, settingsSvc)
	pricingSvc := service.NewPricingService(catalogRepo, settingsSvc, normalizer.Base())
	referralSvc := service.NewReferralService(referralRepo, trxRepo)
	ledgerSvc := service.NewLedgerService(trxRepo, referralRepo, settingsSvc, normalizer)
	withdrawalSvc := service.NewWithdrawalService(withdrawalRepo, settingsSvc)

	// HTTP surface
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.Handlers{
		Catalog:    handler.NewCatalogHandler(catalogSvc),
		Pricing:    handler.NewPricingHandler(pricingSvc),
		Referral:   handler.NewReferralHandler(referralSvc),
		Withdrawal: handler.NewWithdrawalHandler(withdrawalSvc, ledgerSvc),
		Webhook:    handler.NewWebhookHandler(ledgerSvc),
		Admin:      handler.NewAdminHandler(settingsSvc, syncSvc, catalogSvc, ledgerSvc, referralSvc),
	}, cfg.AdminAPIKey)

	syncWorker := worker.NewSyncWorker(syncSvc, cfg.Worker.SyncInterval)
	syncWorker.Start()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down")

	syncWorker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
	log.Info().Msg("Server stopped")
}

// setupLogger configures zerolog: pretty console output in development,
// JSON elsewhere.
func setupLogger(env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// runMigrations applies pending SQL migrations from ./migrations.
func runMigrations(db *sqlx.DB) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
