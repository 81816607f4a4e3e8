package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"fintrack/internal/config"
)

// Setup tees the standard logger to the configured log file in addition to
// stderr. It returns a close func the caller releases on shutdown; if no
// file is configured the close func is a no-op.
func Setup(cfg config.LogConfig) (func() error, error) {
	if cfg.File == "" {
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	log.SetOutput(io.MultiWriter(os.Stderr, f))

	return func() error {
		log.SetOutput(os.Stderr)
		return f.Close()
	}, nil
}
