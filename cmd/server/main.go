package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/daybookhq/daybook-backend/internal/auth"
	"github.com/daybookhq/daybook-backend/internal/config"
	"github.com/daybookhq/daybook-backend/internal/database"
	"github.com/daybookhq/daybook-backend/internal/handlers"
	"github.com/daybookhq/daybook-backend/internal/logger"
	"github.com/daybookhq/daybook-backend/internal/middleware"
	"github.com/daybookhq/daybook-backend/internal/routes"
	"github.com/daybookhq/daybook-backend/internal/services"
	"github.com/daybookhq/daybook-backend/internal/validate"
)

func main() {
	// A missing .env is fine; containers supply env directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.IsProduction())

	if cfg.IsProduction() && cfg.JWTSecret == "your-secret-key-change-in-production" {
		log.Fatal().Msg("JWT_SECRET must be set in production")
	}

	client, db, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer database.Disconnect(client)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("failed to ensure MongoDB indexes")
	}
	cancel()

	redisClient, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		// Rate limiting and caching degrade gracefully without Redis
		log.Warn().Err(err).Msg("Redis unavailable, continuing without it")
		redisClient = nil
	}

	rules := config.DefaultRules()
	validator := validate.New(rules)
	tokens := auth.NewTokenManager(cfg.JWTSecret, rules.TokenTTL)

	var cache *services.CacheService
	if redisClient != nil {
		cache = services.NewCacheService(redisClient)
	}

	userService := services.NewUserService(db, rules, validator)
	journalService := services.NewJournalService(db, rules, validator)
	categoryService := services.NewCategoryService(db, rules, validator)
	promptService := services.NewPromptService(db, rules, validator, cache)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if redisClient != nil {
		r.Use(middleware.RateLimit(redisClient))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.Setup(r, routes.Deps{
		Auth:        handlers.NewAuthHandler(userService, tokens, rules, cfg.IsProduction()),
		Journals:    handlers.NewJournalHandler(journalService, rules),
		Categories:  handlers.NewCategoryHandler(categoryService),
		Prompts:     handlers.NewPromptHandler(promptService),
		RequireAuth: middleware.RequireAuth(tokens, userService),
	})

	log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("daybook backend listening")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
