// Package logging builds the zap loggers used throughout tilegrid.
//
// Loggers are passed explicitly; packages name their own child logger with
// Named and attach structured fields:
//
//	logger, closeLog, err := logging.New(logging.Config{Enabled: true, Level: "debug"})
//	if err != nil {
//		return err
//	}
//	defer closeLog()
//	logger.Named("renderer").Debug("frame presented", zap.Int("tiles", n))
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelEnvVar overrides the configured level when set.
const LevelEnvVar = "TILEGRID_LOG_LEVEL"

// Config configures a logger.
type Config struct {
	// Enabled false yields a no-op logger.
	Enabled bool
	// Level is debug, info, warn or error.
	Level string
	// Format is console or json.
	Format string
	// File receives output; empty means stderr.
	File string
}

// New builds a logger from cfg. The returned function flushes the logger
// and closes its output file, if any.
func New(cfg Config) (*zap.Logger, func(), error) {
	if !cfg.Enabled {
		return zap.NewNop(), func() {}, nil
	}

	if cfg.File == "" {
		logger, err := NewWithWriter(cfg, os.Stderr)
		if err != nil {
			return nil, nil, err
		}
		return logger, func() { _ = logger.Sync() }, nil
	}

	sink, closeSink, err := zap.Open(cfg.File)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := NewWithWriter(cfg, sink)
	if err != nil {
		closeSink()
		return nil, nil, err
	}
	return logger, func() {
		_ = logger.Sync()
		closeSink()
	}, nil
}

// NewWithWriter builds a logger writing to w.
func NewWithWriter(cfg Config, w io.Writer) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder

	var enc zapcore.Encoder
	switch cfg.Format {
	case "", "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core, zap.AddCaller()), nil
}

// parseLevel resolves the level, letting LevelEnvVar win.
func parseLevel(level string) (zapcore.Level, error) {
	if env := os.Getenv(LevelEnvVar); env != "" {
		level = env
	}
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return l, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}
