package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/config"
	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/database"
	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/discord"
	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/handler"
	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/middleware"
	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/repository"
	"github.com/santhoshhh25/mayaa-roleplay-website-sub000/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "duty-backend").Logger()

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid timezone")
	}

	// Database
	db, err := database.NewPool(context.Background(), cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Repositories
	sessionRepo := repository.NewDutySessionRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	appRepo := repository.NewApplicationRepository(db)

	// Services
	dutySvc := service.NewDutyService(sessionRepo, profileRepo, loc, logger)
	profileSvc := service.NewProfileService(profileRepo)
	statsSvc := service.NewStatsService(sessionRepo, loc)
	reviewSvc := service.NewReviewService(appRepo, logger)

	// Discord bot
	bot, err := discord.NewBot(
		cfg.DiscordToken, cfg.DiscordGuildID, cfg.DiscordReviewChannel,
		dutySvc, profileSvc, reviewSvc, logger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create bot")
	}
	if err := bot.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start bot")
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB
	})

	app.Use(recover.New())
	app.Use(middleware.Logger(logger))
	app.Use(middleware.CORS(cfg.CORSAllowed))

	// Health
	healthH := handler.NewHealthHandler(db)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)

	// API v1
	v1 := app.Group("/api/v1")

	// Admin routes behind the shared key
	admin := v1.Group("/admin", middleware.AdminKey(cfg.AdminKey))
	adminH := handler.NewAdminHandler(profileRepo, sessionRepo, appRepo, reviewSvc, bot)
	admin.Get("/stats", adminH.Stats)
	admin.Post("/applications/:id/announce", adminH.AnnounceApplication)

	// Dashboard routes behind JWT
	duty := v1.Group("/duty", middleware.Auth(cfg.JWTSecret))
	dutyH := handler.NewDutyHandler(statsSvc)
	duty.Get("/active", dutyH.Active)
	duty.Get("/statistics", dutyH.Statistics)
	duty.Get("/export", middleware.RateLimit(10, time.Minute), dutyH.Export)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("duty backend running")

	<-quit
	logger.Info().Msg("shutting down")
	_ = app.ShutdownWithTimeout(5 * time.Second)
	bot.Stop()
	logger.Info().Msg("server stopped")
}
