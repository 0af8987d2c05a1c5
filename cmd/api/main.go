package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/m4tinbeigi-official/didar-crm/api/routes"
	"github.com/m4tinbeigi-official/didar-crm/internal/audit"
	"github.com/m4tinbeigi-official/didar-crm/internal/config"
	"github.com/m4tinbeigi-official/didar-crm/internal/handlers"
	"github.com/m4tinbeigi-official/didar-crm/internal/lock"
	"github.com/m4tinbeigi-official/didar-crm/internal/logger"
	"github.com/m4tinbeigi-official/didar-crm/internal/repositories"
	mongorepo "github.com/m4tinbeigi-official/didar-crm/internal/repositories/mongodb"
	"github.com/m4tinbeigi-official/didar-crm/internal/scheduler"
	"github.com/m4tinbeigi-official/didar-crm/internal/services"
	"github.com/m4tinbeigi-official/didar-crm/pkg/didar"
	"github.com/m4tinbeigi-official/didar-crm/pkg/mongodb"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Init("didar-crm", cfg.Debug)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("error disconnecting from MongoDB")
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	var settingsRepo repositories.SyncSettingsRepository = mongorepo.NewSyncSettingsRepository(db)

	auditLog := audit.New(cfg.Audit.Path, true)

	var locker lock.Locker = lock.NewMemoryLocker()
	if cfg.Redis.Enabled {
		locker = lock.NewRedisLocker(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
	}

	syncService := services.NewSyncService(
		userRepo,
		settingsRepo,
		auditLog,
		locker,
		services.NewLogNotifier(),
		func(apiKey string) services.ContactClient {
			return didar.NewClient(cfg.Didar.BaseURL, apiKey)
		},
	)

	sched := scheduler.New(func() {
		syncService.OnScheduledTick(context.Background())
	})
	settings, err := settingsRepo.Get(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load sync settings")
	}
	if err := sched.Apply(settings.CronFrequency); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule sync job")
	}
	defer sched.Stop()

	deps := routes.HandlerDependencies{
		AuthHandler: handlers.NewAuthHandler(cfg),
		SyncHandler: handlers.NewSyncHandler(syncService, settingsRepo, auditLog, sched),
		UserHandler: handlers.NewUserHandler(userRepo),
	}
	router := routes.SetupRouter(cfg, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exiting")
}
