// Copyright (c) 2025 The PixReg developers
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds library configuration for embedding applications.
type Config struct {
	// DataDir is the directory holding persistent registry state.
	DataDir string `env:"PIXREG_DATA_DIR"`

	// Backend selects the storage engine: "memory", "bolt", or "sqlite".
	Backend string `env:"PIXREG_BACKEND"`

	// LogLevel controls notifier verbosity: debug, info, warn, or error.
	LogLevel string `env:"PIXREG_LOG_LEVEL"`

	// LogFile is an optional log destination; empty means stderr.
	LogFile string `env:"PIXREG_LOG_FILE"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:  filepath.Join(home, ".pixreg"),
		Backend:  "bolt",
		LogLevel: "info",
		LogFile:  "",
	}
}

// ConfigPath returns the default configuration file location inside DataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// FromEnv overlays PIXREG_* environment variables onto cfg and returns the
// result. Unset variables leave the corresponding fields untouched.
func FromEnv(cfg Config) (Config, error) {
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads a key=value configuration file. Missing files yield
// ErrConfigNotFound with defaults; blank lines and # comments are skipped.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, ErrConfigNotFound
		}
		return cfg, fmt.Errorf("config: open: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "datadir":
			cfg.DataDir = value
		case "backend":
			cfg.Backend = value
		case "loglevel":
			cfg.LogLevel = value
		case "logfile":
			cfg.LogFile = value
		default:
			// Unknown keys are ignored for forward compatibility.
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path in key=value format. The parent directory is
// created if it does not exist.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# pixreg configuration\n")
	fmt.Fprintf(&b, "datadir=%s\n", cfg.DataDir)
	fmt.Fprintf(&b, "backend=%s\n", cfg.Backend)
	fmt.Fprintf(&b, "loglevel=%s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile=%s\n", cfg.LogFile)

	return os.WriteFile(path, []byte(b.String()), 0600)
}
