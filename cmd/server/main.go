package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/saludtech/profiling-api/docs"
	"github.com/saludtech/profiling-api/internal/api"
	"github.com/saludtech/profiling-api/internal/core/domain"
	"github.com/saludtech/profiling-api/internal/core/service"
	"github.com/saludtech/profiling-api/internal/infrastructure/config"
	mongodb "github.com/saludtech/profiling-api/internal/infrastructure/db/mongo"
	redisdb "github.com/saludtech/profiling-api/internal/infrastructure/db/redis"
	"github.com/saludtech/profiling-api/pkg/logger"
)

// @title           Patient Profiling API
// @version         1.0
// @description     Authentication and ownership-scoped management of patient disability-profiling records.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Options{})
		l := logger.Get()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage backends ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	patientRepo := mongodb.NewPatientRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}
	if err := patientRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create patient indexes")
	}

	if err := seedAdmin(ctx, cfg, userRepo, log); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin account")
	}

	// --- HTTP server and recompute workers ---
	e, dispatcher := api.NewRouter(cfg, db, rdb, log)
	dispatcher.Start(ctx)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// seedAdmin creates the default administrator account on first start. When no
// admin password is configured the step is skipped, which is the expected
// state once a real admin exists.
func seedAdmin(ctx context.Context, cfg *config.Config, repo *mongodb.UserRepository, log zerolog.Logger) error {
	if cfg.Admin.Password == "" {
		return nil
	}

	_, err := repo.FindByEmail(ctx, cfg.Admin.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hash, err := service.HashPassword(cfg.Admin.Password, cfg.BcryptCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = repo.Create(ctx, &domain.User{
		Email:        cfg.Admin.Email,
		FullName:     cfg.Admin.FullName,
		PasswordHash: hash,
		Active:       true,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil && !errors.Is(err, domain.ErrUserExists) {
		return err
	}

	log.Info().Str("email", cfg.Admin.Email).Msg("default admin account created")
	return nil
}
