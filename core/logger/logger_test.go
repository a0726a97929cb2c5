package logger_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"image-labeler/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     logger.Config
		enabled zapcore.Level
		wantErr bool
	}{
		{"DebugConsole", logger.Config{Level: "debug", Format: "console"}, zapcore.DebugLevel, false},
		{"InfoJSON", logger.Config{Level: "info", Format: "json"}, zapcore.InfoLevel, false},
		{"WarnConsole", logger.Config{Level: "warn", Format: "console"}, zapcore.WarnLevel, false},
		{"EmptyLevel", logger.Config{}, zapcore.InfoLevel, false},
		{"InvalidLevel", logger.Config{Level: "loud"}, zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := logger.New(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.enabled))
			assert.False(t, l.Core().Enabled(tt.enabled-1))
		})
	}
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Get("/with", func(c *fiber.Ctx) error {
		c.Locals(logger.RayIDKey, "abc-123")
		logger.WithRayID(base, c).Info("with")
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/without", func(c *fiber.Ctx) error {
		logger.WithRayID(base, c).Info("without")
		return c.SendStatus(fiber.StatusNoContent)
	})

	for _, path := range []string{"/with", "/without"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "abc-123", entries[0].ContextMap()["ray_id"])
	assert.NotContains(t, entries[1].ContextMap(), "ray_id")
}
