package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/clipstream/video-platform/docs"
	"github.com/clipstream/video-platform/internal/api/handler"
	"github.com/clipstream/video-platform/internal/api/middleware"
	"github.com/clipstream/video-platform/internal/core/ports"
	"github.com/clipstream/video-platform/internal/core/service"
	"github.com/clipstream/video-platform/internal/infrastructure/config"
	mongodb "github.com/clipstream/video-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/clipstream/video-platform/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	storage ports.MediaStorage,
	mailer ports.Mailer,
	cfg *config.Config,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("clipstream"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	videoRepo := mongodb.NewVideoRepository(db)
	subscriptionRepo := mongodb.NewSubscriptionRepository(db)
	resetStore := redisdb.NewResetTokenStore(rdb)

	tokenService := service.NewTokenService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTTL,
		cfg.JWT.RefreshTTL,
	)
	userService := service.NewUserService(userRepo, tokenService, storage, mailer, resetStore, log)
	profileService := service.NewProfileService(userRepo, subscriptionRepo, videoRepo, log)
	videoService := service.NewVideoService(videoRepo, storage, log)

	userHandler := handler.NewUserHandler(userService)
	profileHandler := handler.NewProfileHandler(profileService)
	videoHandler := handler.NewVideoHandler(videoService)

	auth := middleware.Auth(cfg.JWT.AccessSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWT.AccessSecret)

	// --- User routes ---
	users := e.Group("/users")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.POST("/refresh-token", userHandler.Refresh)
	users.POST("/reset-password", userHandler.ResetPassword)
	users.POST("/reset-password/confirm", userHandler.ConfirmResetPassword)

	users.POST("/logout", userHandler.Logout, auth)
	users.GET("/user", userHandler.CurrentUser, auth)
	users.PATCH("/update-user-details", userHandler.UpdateDetails, auth)
	users.POST("/update-avatar", userHandler.UpdateAvatar, auth)
	users.POST("/update-cover-image", userHandler.UpdateCoverImage, auth)
	users.POST("/change-password", userHandler.ChangePassword, auth)
	users.PATCH("/add-to-watch-history", userHandler.AddToWatchHistory, auth)

	users.GET("/channel/:username", profileHandler.Channel, optionalAuth)
	users.GET("/watch-history", profileHandler.WatchHistory, auth)

	// --- Video routes ---
	e.POST("/videos/upload", videoHandler.Upload, auth)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
