// Package logging builds the zap logger used across learnify.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects where logs go.
type Options struct {
	// Mode is "development" (debug level) or "production" (info level).
	Mode string
	// File, when set, receives JSON logs with size-based rotation.
	File string
	// Console, when set, receives human-readable logs at ConsoleLevel.
	Console      io.Writer
	ConsoleLevel zapcore.Level
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// New builds a logger. With neither a file nor a console it returns a
// no-op logger. The returned close function flushes and releases the file.
func New(opts Options) (*zap.Logger, func() error, error) {
	level := zap.DebugLevel
	if opts.Mode == "production" {
		level = zap.InfoLevel
	}

	var (
		cores []zapcore.Core
		rot   *lumberjack.Logger
	)
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		rot = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(rot), level))
	}
	if opts.Console != nil {
		consoleLevel := opts.ConsoleLevel
		if consoleLevel < level {
			consoleLevel = level
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(opts.Console), consoleLevel))
	}

	if len(cores) == 0 {
		return zap.NewNop(), func() error { return nil }, nil
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	closeFn := func() error {
		_ = logger.Sync()
		if rot != nil {
			return rot.Close()
		}
		return nil
	}
	return logger, closeFn, nil
}

// DefaultLogPath returns $XDG_STATE_HOME/learnify/learnify.log, falling
// back to ~/.local/state.
func DefaultLogPath() (string, error) {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("find home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "learnify", "learnify.log"), nil
}
