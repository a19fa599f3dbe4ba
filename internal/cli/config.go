package cli

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config carries tool defaults loadable from a TOML file.
type Config struct {
	LogLevel string
	SideExts []string
}

type fileConfig struct {
	LogLevel       string   `toml:"log_level"`
	SideExtensions []string `toml:"side_extensions"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{LogLevel: "info"}
}

// LoadConfig overlays a TOML file onto the defaults. Only keys present
// in the file override; absent keys keep their default.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("log_level") {
		lvl := strings.TrimSpace(raw.LogLevel)
		if lvl != "" {
			cfg.LogLevel = lvl
		}
	}

	if meta.IsDefined("side_extensions") {
		cfg.SideExts = normalizeExts(raw.SideExtensions)
	}

	return cfg, nil
}

func normalizeExts(exts []string) []string {
	var out []string
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
