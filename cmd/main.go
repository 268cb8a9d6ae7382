package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"movieflix/internal/config"
	"movieflix/internal/database"
	"movieflix/internal/handler"
	"movieflix/internal/middleware"
	"movieflix/internal/models"
	"movieflix/internal/repository"
	"movieflix/internal/service"
	"movieflix/internal/tmdb"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to Redis (non-fatal; rate limiting is disabled without it)
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without rate limiting", "error", err)
	}

	// Initialize TMDB client
	tmdbClient := tmdb.NewClient(cfg.TMDB)

	// Initialize layers
	userRepo := repository.NewUserRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	userSvc := service.NewUserService(userRepo, reviewRepo, tmdbClient)
	reviewSvc := service.NewReviewService(reviewRepo)
	catalogSvc := service.NewCatalogService(tmdbClient)
	recSvc := service.NewRecommendationService(userRepo, tmdbClient)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	recHandler := handler.NewRecommendationHandler(recSvc)

	requireAuth := middleware.Auth(cfg.JWT.Secret, userRepo)
	optionalAuth := middleware.OptionalAuth(cfg.JWT.Secret, userRepo)
	limiter := middleware.NewRateLimiter(rdb, cfg.RateLimit.WindowSecs)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Movieflix API",
		ServerHeader: "Movieflix",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowCredentials: true,
	}))

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}

	api := app.Group("/api", limiter.Handler("api", cfg.RateLimit.APIMax))

	api.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	auth := api.Group("/auth", limiter.Handler("auth", cfg.RateLimit.AuthMax))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	users := api.Group("/users", requireAuth)
	users.Get("/profile", userHandler.Profile)
	users.Post("/watchlist/tv/:id", userHandler.AddToList(models.KindTV, models.ListWatchlist))
	users.Delete("/watchlist/tv/:id", userHandler.RemoveFromList(models.KindTV, models.ListWatchlist))
	users.Post("/watchlist/:id", userHandler.AddToList(models.KindMovie, models.ListWatchlist))
	users.Delete("/watchlist/:id", userHandler.RemoveFromList(models.KindMovie, models.ListWatchlist))
	users.Post("/favorites/tv/:id", userHandler.AddToList(models.KindTV, models.ListFavorites))
	users.Delete("/favorites/tv/:id", userHandler.RemoveFromList(models.KindTV, models.ListFavorites))
	users.Post("/favorites/:id", userHandler.AddToList(models.KindMovie, models.ListFavorites))
	users.Delete("/favorites/:id", userHandler.RemoveFromList(models.KindMovie, models.ListFavorites))
	users.Put("/preferences", userHandler.UpdatePreferences)

	reviews := api.Group("/reviews")
	reviews.Post("/:contentId", requireAuth, reviewHandler.Submit)
	reviews.Get("/:contentId", reviewHandler.List)
	reviews.Delete("/:contentId", requireAuth, reviewHandler.Delete)

	movies := api.Group("/movies", optionalAuth)
	movies.Get("/search", catalogHandler.Search(models.KindMovie))
	movies.Get("/trending", catalogHandler.Trending)
	movies.Get("/popular", catalogHandler.Popular(models.KindMovie))
	movies.Get("/top-rated", catalogHandler.TopRated(models.KindMovie))
	movies.Get("/indian", catalogHandler.Indian)
	movies.Get("/random", catalogHandler.Random)
	movies.Get("/live", catalogHandler.Live)
	movies.Get("/:id", catalogHandler.Details(models.KindMovie))
	movies.Get("/:id/hover", catalogHandler.Hover(models.KindMovie))
	movies.Get("/:id/trailer", catalogHandler.Trailer(models.KindMovie))

	tv := api.Group("/tv", optionalAuth)
	tv.Get("/search", catalogHandler.Search(models.KindTV))
	tv.Get("/popular", catalogHandler.Popular(models.KindTV))
	tv.Get("/top-rated", catalogHandler.TopRated(models.KindTV))
	tv.Get("/:id", catalogHandler.Details(models.KindTV))
	tv.Get("/:id/season/:seasonNumber", catalogHandler.Season)
	tv.Get("/:id/hover", catalogHandler.Hover(models.KindTV))
	tv.Get("/:id/trailer", catalogHandler.Trailer(models.KindTV))

	api.Get("/search/multi", optionalAuth, catalogHandler.MultiSearch)

	recs := api.Group("/recommendations")
	recs.Get("/", optionalAuth, recHandler.ForUser)
	recs.Get("/similar/:movieId", recHandler.Similar)

	// 404 fallback
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(handler.ErrorResponse{Error: "route not found"})
	})

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down movieflix server...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting movieflix server", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
