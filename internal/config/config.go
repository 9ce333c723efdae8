package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int     `envconfig:"PORT" default:"8080"`
	LogLevel       string  `envconfig:"LOG_LEVEL" default:"info"`
	AssetDir       string  `envconfig:"ASSET_DIR" default:"./data/assets"`
	TileDir        string  `envconfig:"TILE_DIR" default:"./data/tiles"`
	DrawingPadding float64 `envconfig:"DRAWING_PADDING" default:"10"`
	ExportWidth    int     `envconfig:"EXPORT_WIDTH" default:"800"`
	ExportHeight   int     `envconfig:"EXPORT_HEIGHT" default:"600"`
	AllowedOrigins string  `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	FrameRate      int     `envconfig:"FRAME_RATE" default:"30"`
	DefaultExample string  `envconfig:"DEFAULT_EXAMPLE" default:"circle-from-three-points"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.ExportWidth <= 0 || cfg.ExportHeight <= 0 {
		return nil, fmt.Errorf("export size %dx%d must be positive", cfg.ExportWidth, cfg.ExportHeight)
	}
	if cfg.FrameRate < 0 {
		return nil, fmt.Errorf("frame rate %d must not be negative", cfg.FrameRate)
	}
	return &cfg, nil
}

// Level parses LogLevel; unknown values fall back to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Origins splits AllowedOrigins on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
