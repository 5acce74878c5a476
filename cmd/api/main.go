package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	v1 "github.com/Imacancer/AppDev-ChatApp/cmd/api/router/v1"
	"github.com/Imacancer/AppDev-ChatApp/internal/auth"
	"github.com/Imacancer/AppDev-ChatApp/internal/config"
	cacheadapter "github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/cache/adapter"
	cacheport "github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/cache/port"
	"github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/database"
	queueadapter "github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/queue/adapter"
	queueport "github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/queue/port"
	"github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/realtime"
	"github.com/Imacancer/AppDev-ChatApp/internal/pkg/gateway"
	msgtask "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/application/task"
	msgadapter "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/persistence/repository/adapter"
	msgrepo "github.com/Imacancer/AppDev-ChatApp/internal/pkg/message/persistence/repository/port"
	useradapter "github.com/Imacancer/AppDev-ChatApp/internal/pkg/user/persistence/repository/adapter"
	userrepo "github.com/Imacancer/AppDev-ChatApp/internal/pkg/user/persistence/repository/port"
)

func main() {
	cfg := config.Load()

	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
		gin.SetMode(gin.DebugMode)
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage: Postgres when configured, in-memory otherwise (development).
	var messages msgrepo.MessageRepository
	var users userrepo.UserRepository
	if cfg.DBURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		pool, err := database.Connect(connectCtx, cfg.DBURL)
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection failed")
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("schema migration failed")
		}
		messages = msgadapter.NewPgMessageRepository(pool)
		users = useradapter.NewPgUserRepository(pool)
		logger.Info().Msg("connected to PostgreSQL")
	} else {
		messages = msgadapter.NewMemoryMessageRepository()
		users = useradapter.NewMemoryUserRepository()
		logger.Warn().Msg("DB_URL not set; messages and users are stored in memory")
	}

	// Redis backs both the user cache and the asynq persistence queue.
	var cache cacheport.Cache
	var client queueport.Client
	if cfg.RedisURL != "" {
		redisCache, err := cacheadapter.NewRedisAdapter()
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisCache.Close()
		cache = redisCache

		asynqClient, err := queueadapter.NewAsynqClientFromEnv()
		if err != nil {
			logger.Fatal().Err(err).Msg("asynq client failed")
		}
		defer asynqClient.Close()
		client = asynqClient

		taskServer, err := queueadapter.NewAsynqServer()
		if err != nil {
			logger.Fatal().Err(err).Msg("asynq server failed")
		}
		msgtask.RegisterStoreMessageTask(taskServer, messages)
		go func() {
			if err := taskServer.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("task server stopped")
			}
		}()
		logger.Info().Msg("connected to Redis")
	} else {
		logger.Warn().Msg("REDIS_URL not set; cache disabled, messages persist synchronously")
	}

	registry := realtime.NewRegistry()
	socket := gateway.NewSocketController(
		messages, users, cache, registry, auth.NewJWT(cfg.JWTSecret), logger,
	)

	r := gin.New()
	r.Use(gin.Recovery())
	v1.RegisterRoutes(r, messages, users, cache, client, socket)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting relay server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
	registry.Close()

	logger.Info().Msg("server stopped")
}
