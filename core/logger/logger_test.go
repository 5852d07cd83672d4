package logger

import (
	"net/http/httptest"
	"testing"

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
		cfg     Config
		enabled zapcore.Level
		wantErr bool
	}{
		{"Production", Config{Level: "info", Format: "json"}, zapcore.InfoLevel, false},
		{"Development", Config{Level: "debug", Format: "console"}, zapcore.DebugLevel, false},
		{"Warn", Config{Level: "warn"}, zapcore.WarnLevel, false},
		{"Invalid", Config{Level: "chatty"}, zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
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

func TestRequests(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(RayIDKey, "ray-1")
		return c.Next()
	})
	app.Use(Requests(zap.New(core)))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(204) })

	_, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Request handled", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "ray-1", fields[RayIDKey])
	assert.Equal(t, int64(204), fields["status"])
	assert.Equal(t, "/ok", fields["path"])
}
