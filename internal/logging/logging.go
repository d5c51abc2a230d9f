// Package logging builds the zap loggers used by diagview and diagdump.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	// Path receives JSON log lines. Empty means stderr.
	Path    string
	Verbose bool
	// Quiet raises the level to warn unless Verbose is set.
	Quiet bool
}

// New returns a production zap logger configured from opts.
func New(opts Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Sampling = nil
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	switch {
	case opts.Verbose:
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case opts.Quiet:
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	path := strings.TrimSpace(opts.Path)
	if path == "" {
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		config.OutputPaths = []string{path}
		config.ErrorOutputPaths = []string{path}
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// NewOrNop falls back to a no-op logger when the configured one cannot be
// built, so a bad log path never blocks the viewer.
func NewOrNop(opts Options) *zap.Logger {
	logger, err := New(opts)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
