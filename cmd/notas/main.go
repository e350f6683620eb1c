package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"notasapp/internal/client/commands"
	"notasapp/internal/client/config"
	"notasapp/pkg/logger"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "NOTAS_LOGGER_MODE"
	EnvLoggerLevel = "NOTAS_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	level := os.Getenv(EnvLoggerLevel)
	if level == "" {
		level = "warn"
	}

	log, err := logger.NewLogger(env, level)
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

		var finalLogger *logger.Logger
		if cfg.Logging.File != "" {
			finalLogger = logger.NewFileLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level, cfg.Logging.GetFileConfig())
		} else {
			finalLogger, err = logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
			if err != nil {
				log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
				exitCode = 1
				return
			}
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		app := commands.NewApp(&commands.Env{Config: cfg})
		// Код выхода определяется здесь, чтобы логгер успел сброситься.
		app.ExitErrHandler = func(*cli.Context, error) {}
		if err := app.RunContext(ctx, os.Args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			exitCode = 1
			var coder cli.ExitCoder
			if errors.As(err, &coder) {
				exitCode = coder.ExitCode()
			}
		}
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
