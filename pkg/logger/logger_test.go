package logger_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"notasapp/pkg/logger"
)

func TestNewLogger(t *testing.T) {
	levels := []string{"debug", "info", "warn", "warning", "error", "invalid", ""}

	for _, env := range []logger.Environment{logger.Development, logger.Production} {
		for _, level := range levels {
			t.Run(string(env)+"/level="+level, func(t *testing.T) {
				log, err := logger.NewLogger(env, level)
				require.NoError(t, err)
				require.NotNil(t, log)
			})
		}
	}

	t.Run("logging methods do not panic", func(t *testing.T) {
		log, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)

		ctx := logger.NewRequestIDContext(context.Background(), "req-1")
		assert.NotPanics(t, func() {
			log.Debug(ctx, "debug message")
			log.Info(ctx, "info message", zap.String("key", "value"))
			log.Warn(ctx, "warn message")
			log.Error(ctx, "error message")
		})
	})

	t.Run("With returns a new instance", func(t *testing.T) {
		log, err := logger.NewLogger(logger.Development, "info")
		require.NoError(t, err)

		withLog := log.With(zap.String("component", "test"))
		assert.NotSame(t, log, withLog)
	})
}

func TestFromContext(t *testing.T) {
	t.Run("returns logger stored in context", func(t *testing.T) {
		testLogger, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)

		ctx := logger.NewContext(context.Background(), testLogger)

		got, err := logger.FromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, testLogger, got)
	})

	t.Run("error when context has no logger", func(t *testing.T) {
		got, err := logger.FromContext(context.Background())
		require.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, logger.ErrLoggerNotFound)
	})
}

func TestLog(t *testing.T) {
	logger.SetGlobalLogger(nil)
	defer logger.SetGlobalLogger(nil)

	t.Run("context logger wins over global", func(t *testing.T) {
		contextLogger := logger.NewNop()
		globalLogger := logger.NewNop()
		logger.SetGlobalLogger(globalLogger)

		ctx := logger.NewContext(context.Background(), contextLogger)
		assert.Same(t, contextLogger, logger.Log(ctx))
	})

	t.Run("global logger when context is empty", func(t *testing.T) {
		globalLogger := logger.NewNop()
		logger.SetGlobalLogger(globalLogger)

		assert.Same(t, globalLogger, logger.Log(context.Background()))
	})

	t.Run("fallback logger is a singleton", func(t *testing.T) {
		logger.SetGlobalLogger(nil)

		first := logger.Log(context.Background())
		second := logger.Log(context.Background())
		require.NotNil(t, first)
		assert.Same(t, first, second)
	})
}

func TestInitGlobalLoggerWithLevel(t *testing.T) {
	logger.SetGlobalLogger(nil)
	defer logger.SetGlobalLogger(nil)

	require.NoError(t, logger.InitGlobalLoggerWithLevel(logger.Development, "debug"))
	first := logger.Log(context.Background())

	require.NoError(t, logger.InitGlobalLoggerWithLevel(logger.Production, "error"))
	assert.Same(t, first, logger.Log(context.Background()), "second init must keep the existing logger")
}

func TestRequestID(t *testing.T) {
	t.Run("generated ids are valid uuids", func(t *testing.T) {
		id := logger.GenerateRequestID()
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.NotEqual(t, id, logger.GenerateRequestID())
	})

	t.Run("empty id is generated", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "")
		id, ok := logger.GetRequestID(ctx)
		require.True(t, ok)
		assert.NotEmpty(t, id)
	})

	t.Run("explicit id is kept", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "abc")
		id, ok := logger.GetRequestID(ctx)
		require.True(t, ok)
		assert.Equal(t, "abc", id)
	})

	t.Run("unsafe ids are replaced", func(t *testing.T) {
		for _, raw := range []string{
			"has space",
			"line\nbreak",
			`"quoted"`,
			strings.Repeat("a", logger.MaxRequestIDLength+1),
		} {
			ctx := logger.NewRequestIDContext(context.Background(), raw)
			id, ok := logger.GetRequestID(ctx)
			require.True(t, ok)
			assert.NotEqual(t, raw, id)
			_, err := uuid.Parse(id)
			assert.NoError(t, err, "replacement for %q", raw)
		}
	})

	t.Run("id charset and length", func(t *testing.T) {
		assert.True(t, logger.ValidRequestID("cli-01.req_2:retry"))
		assert.True(t, logger.ValidRequestID(strings.Repeat("a", logger.MaxRequestIDLength)))
		assert.False(t, logger.ValidRequestID(""))
		assert.False(t, logger.ValidRequestID("x/y"))
	})

	t.Run("missing id", func(t *testing.T) {
		_, ok := logger.GetRequestID(context.Background())
		assert.False(t, ok)
	})

	t.Run("WithRequestID keeps instance without id", func(t *testing.T) {
		log := logger.NewNop()
		assert.Same(t, log, log.WithRequestID(context.Background()))
		assert.NotSame(t, log, log.WithRequestID(logger.NewRequestIDContext(context.Background(), "x")))
	})
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notas.log")

	log := logger.NewFileLogger(logger.Production, "info", logger.FileConfig{Path: path, MaxSizeMB: 1})
	ctx := logger.NewRequestIDContext(context.Background(), "req-file")
	log.Debug(ctx, "dropped")
	log.Info(ctx, "kept", zap.String("key", "value"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"kept"`)
	assert.Contains(t, string(data), `"request_id":"req-file"`)
	assert.NotContains(t, string(data), "dropped")
}
