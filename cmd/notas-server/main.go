package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	servercache "notasapp/internal/server/adapters/cache"
	serverhttp "notasapp/internal/server/adapters/http"
	serverpg "notasapp/internal/server/adapters/postgres"
	"notasapp/internal/server/adapters/services"
	"notasapp/internal/server/app"
	"notasapp/internal/server/config"
	"notasapp/internal/server/domain/entities"
	"notasapp/internal/server/ports/cache"
	"notasapp/pkg/db/postgres"
	"notasapp/pkg/db/redis"
	"notasapp/pkg/logger"
	"notasapp/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "NOTAS_SERVER_LOGGER_MODE"
	EnvLoggerLevel = "NOTAS_SERVER_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrConnectDatabase      = "failed to connect to database"
	ErrApplyMigrations      = "failed to apply migrations"
	ErrCreateRepositories   = "failed to create repositories"
	ErrStartHTTPServer      = "failed to start HTTP server"
	ErrConnectCache         = "failed to connect to cache"
	ErrCloseCache           = "failed to close cache"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "notes server started"
	LogServiceShutdownDone = "notes server shutdown complete"
	LogStoppingHTTP        = "stopping HTTP server"
	LogClosingDatabase     = "closing database"
	LogInitCache           = "initializing profile cache"
	LogInitServices        = "initializing services"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		db, err := postgres.New(ctx, postgres.Config{
			DSN:     cfg.Postgres.GetDSN(),
			MinConn: cfg.Postgres.MinConn,
			MaxConn: cfg.Postgres.MaxConn,
		})
		if err != nil {
			log.Error(ctx, ErrConnectDatabase, zap.Error(err))
			exitCode = 1
			return
		}

		if err := postgres.Migrate(ctx, cfg.Postgres.GetConnectionURL(), cfg.Postgres.Migrations); err != nil {
			log.Error(ctx, ErrApplyMigrations, zap.Error(err))
			db.Close(ctx)
			exitCode = 1
			return
		}

		repos, err := serverpg.NewRepositoryFactory(db.Pool())
		if err != nil {
			log.Error(ctx, ErrCreateRepositories, zap.Error(err))
			db.Close(ctx)
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitCache, zap.String("backend", cfg.Cache.Backend))
		profileCache, err := newProfileCache(ctx, &cfg.Cache)
		if err != nil {
			log.Error(ctx, ErrConnectCache, zap.Error(err))
			db.Close(ctx)
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitServices)
		authUseCase := app.NewCachedAuthService(
			app.NewAuthUseCase(
				repos.UserRepository(),
				services.NewBcrypt(cfg.JWT.BCryptCost),
				services.NewJWT(cfg.JWT.SecretKey, cfg.JWT.GetTokenTTL()),
			),
			profileCache,
			cfg.Cache.TTL,
		)
		notesUseCase := app.NewRecordUseCase(repos.NoteRepository(), entities.Notes)
		categoriesUseCase := app.NewRecordUseCase(repos.CategoryRepository(), entities.Categories)

		log.Info(ctx, LogInitHTTPServer)
		server := fiber.New(fiber.Config{
			AppName:      "notas-server",
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			BodyLimit:    cfg.HTTP.BodyLimit,
		})

		serverhttp.SetupRouter(server, authUseCase, notesUseCase, categoriesUseCase)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := server.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
			// Пул и кэш закрываются после остановки HTTP сервера.
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				err := server.ShutdownWithContext(ctx)
				if cerr := profileCache.Close(); cerr != nil {
					log.Warn(ctx, ErrCloseCache, zap.Error(cerr))
				}
				log.Info(ctx, LogClosingDatabase)
				db.Close(ctx)
				return err
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func newProfileCache(ctx context.Context, cfg *config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheRedis:
		client, err := redis.Connect(ctx, cfg.GetRedisConfig())
		if err != nil {
			return nil, err
		}
		return servercache.NewRedisCache(client, cfg.RedisPrefix, cfg.TTL), nil
	case config.CacheNone:
		return servercache.Nop{}, nil
	default:
		return servercache.NewMemoryCache(cfg.TTL, 2*cfg.TTL), nil
	}
}
