package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clipstream/video-platform/internal/api"
	"github.com/clipstream/video-platform/internal/infrastructure/config"
	mongodb "github.com/clipstream/video-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/clipstream/video-platform/internal/infrastructure/db/redis"
	"github.com/clipstream/video-platform/internal/infrastructure/mail"
	"github.com/clipstream/video-platform/internal/infrastructure/storage"
	"github.com/clipstream/video-platform/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Clipstream Video Platform API
// @version      1.0
// @description  User accounts, sessions, profiles and video uploads.
// @BasePath     /
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg := config.Load(slog.Default())

	logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("disconnecting from mongodb")
		}
	}()

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensuring user indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("closing redis client")
		}
	}()

	mediaStorage, err := storage.New(ctx, storage.Config{
		Bucket:         cfg.S3.Bucket,
		Region:         cfg.S3.Region,
		AccessKeyID:    cfg.S3.AccessKeyID,
		SecretKey:      cfg.S3.SecretKey,
		Endpoint:       cfg.S3.Endpoint,
		BaseURL:        cfg.S3.BaseURL,
		ForcePathStyle: cfg.S3.ForcePathStyle,
		UploadTimeout:  cfg.S3.UploadTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("initialising media storage")
	}

	mailer, err := mail.NewPostmarkMailer(mail.Config{
		ServerToken:  cfg.Mail.PostmarkServerToken,
		AccountToken: cfg.Mail.PostmarkAccountToken,
		Sender:       cfg.Mail.Sender,
		ResetURL:     cfg.Mail.ResetURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("initialising mailer")
	}

	e := api.NewRouter(db, rdb, mediaStorage, mailer, cfg, logger.For("http"))

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
