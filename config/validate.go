// Copyright (c) 2025 The PixReg developers
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package config

import "strings"

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validBackends lists the accepted storage backend names.
var validBackends = map[string]bool{
	"memory": true,
	"bolt":   true,
	"sqlite": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if !validBackends[strings.ToLower(cfg.Backend)] {
		return ErrInvalidBackend
	}

	// The memory backend needs no data directory.
	if cfg.DataDir == "" && strings.ToLower(cfg.Backend) != "memory" {
		return ErrEmptyDataDir
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	return nil
}
