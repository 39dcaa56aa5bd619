package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/careerpath/mentor-server-go/internal/completion"
	"github.com/careerpath/mentor-server-go/internal/config"
	"github.com/careerpath/mentor-server-go/internal/database"
	"github.com/careerpath/mentor-server-go/internal/handler"
	"github.com/careerpath/mentor-server-go/internal/jobs"
	"github.com/careerpath/mentor-server-go/internal/middleware"
	"github.com/careerpath/mentor-server-go/internal/redis"
	"github.com/careerpath/mentor-server-go/internal/repository"
	"github.com/careerpath/mentor-server-go/internal/service"
	"github.com/careerpath/mentor-server-go/internal/sse"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("FLY_APP_NAME") != ""
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	sessionRepo, closeStorage := openStorage(cfg)
	defer closeStorage()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	broker := sse.NewBroker(redisClient)
	defer broker.Close()

	gateway := completion.NewOpenAIGateway(completion.OpenAIConfig{
		APIKey:   cfg.OpenAIAPIKey,
		Model:    cfg.OpenAIModel,
		Endpoint: cfg.OpenAIEndpoint,
		Timeout:  cfg.CompletionTimeout(),
	})

	sessionStore := service.NewSessionStore(sessionRepo)
	mentorService := service.NewMentorService(sessionStore, gateway, broker)

	limiter := middleware.NewRedisRateLimiter(redisClient.Client)
	authMiddleware := middleware.NewAuthMiddleware(cfg.AuthTokenSecret)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(limiter, cfg.RateLimitPerMin)
	ipRateLimitMiddleware := middleware.NewIPRateLimitMiddleware(limiter, cfg.IPRateLimitPerMin)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)

	mentorHandler := handler.NewMentorHandler(mentorService, sessionStore)
	eventsHandler := handler.NewEventsHandler(broker)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(securityHeadersMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"storage":   cfg.StorageDriver,
			"timestamp": time.Now().UnixMilli(),
		})
	})

	// The event stream is long-lived and stays outside the request timeout.
	r.Route("/v1/events", func(r chi.Router) {
		r.Use(ipRateLimitMiddleware.Handler)
		r.Use(authMiddleware.Handler)
		r.Get("/", eventsHandler.ServeHTTP)
	})

	r.Route("/v1/career-mentor", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
		r.Use(bodyLimitMiddleware.Handler)
		r.Use(ipRateLimitMiddleware.Handler)
		r.Use(authMiddleware.Handler)
		r.Mount("/", mentorHandler.Routes(rateLimitMiddleware.Handler))
	})

	if idleAfter := cfg.SessionIdleAfter(); idleAfter > 0 {
		idleJob := jobs.NewIdleSessionJob(sessionStore, idleAfter, config.IdleSessionJobInterval)
		idleJob.Start()
		defer idleJob.Stop()
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// openStorage returns the session repository selected by STORAGE_DRIVER and a
// func releasing it.
func openStorage(cfg *config.Config) (repository.SessionRepository, func()) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		log.Warn().Msg("using in-memory session storage: sessions are lost on restart")
		return repository.NewMemorySessionRepository(), func() {}
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}
	log.Info().Msg("database connected")

	return repository.NewSessionRepository(db), func() { db.Close() }
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
