package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sql", cfg.Server.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10, cfg.ListStore.RequestsPerSecond)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, "SaidasRotas", cfg.Lists.Departures)
	assert.Equal(t, "America/Sao_Paulo", cfg.Checklist.Timezone)
	assert.Equal(t, 4, cfg.Checklist.Concurrency)
	assert.True(t, cfg.Checklist.SchedulerEnabled)
	assert.Equal(t, "00:05:00", cfg.Departures.Tolerance)
	assert.False(t, cfg.Assist.Enabled)
}

func TestLoadConfig_EnvFileAndVariables(t *testing.T) {
	dir := t.TempDir()
	env := "SERVER_BACKEND=graph\nLISTS_TASKS=Checklist Tarefas\nCHECKLIST_CONCURRENCY=8\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"SERVER_BACKEND", "LISTS_TASKS", "CHECKLIST_CONCURRENCY"} {
			os.Unsetenv(k)
		}
	})
	t.Setenv("DEPARTURES_TOLERANCE", "00:10:00")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "graph", cfg.Server.Backend)
	assert.Equal(t, "Checklist Tarefas", cfg.Lists.Tasks)
	assert.Equal(t, 8, cfg.Checklist.Concurrency)
	assert.Equal(t, "00:10:00", cfg.Departures.Tolerance)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"Backend", "SERVER_BACKEND", "excel", "invalid server backend"},
		{"Timezone", "CHECKLIST_TIMEZONE", "Mars/Olympus", "invalid checklist timezone"},
		{"AssistWithoutKey", "ASSIST_ENABLED", "true", "ASSIST_API_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := LoadConfig(t.TempDir())
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
