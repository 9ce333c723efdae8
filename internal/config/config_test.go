package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10.0, cfg.DrawingPadding)
	assert.Equal(t, 800, cfg.ExportWidth)
	assert.Equal(t, 600, cfg.ExportHeight)
	assert.Equal(t, 30, cfg.FrameRate)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.Origins())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DRAWING_PADDING", "2.5")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("DEFAULT_EXAMPLE", "uml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 2.5, cfg.DrawingPadding)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
	assert.Equal(t, "uml", cfg.DefaultExample)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("not a number", func(t *testing.T) {
		t.Setenv("PORT", "eighty")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("empty export", func(t *testing.T) {
		t.Setenv("EXPORT_WIDTH", "0")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("negative frame rate", func(t *testing.T) {
		t.Setenv("FRAME_RATE", "-1")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	cfg := &Config{LogLevel: "loud"}
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}
