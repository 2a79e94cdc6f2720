// Package logger provides structured logging using zap.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger. It discards everything until Init is called.
var Log = zap.NewNop()

// FileConfig holds file logging configuration.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns default file logging settings.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// Options selects where and how log entries are written.
type Options struct {
	Level   string
	Format  string    // "console" (default) or "json"
	Console io.Writer // nil disables console output
	File    FileConfig
}

// Init sets up the global logger: console output on stderr plus an optional
// rotating log file.
func Init(level, format, logFile string) error {
	opts := Options{Level: level, Format: format, Console: os.Stderr}
	if logFile != "" {
		opts.File = DefaultFileConfig(logFile)
	}
	l, err := New(opts)
	if err != nil {
		return err
	}
	Replace(l)
	return nil
}

// Replace swaps the global logger.
func Replace(l *zap.Logger) {
	Log = l
}

// New builds a logger from opts.
func New(opts Options) (*zap.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var cores []zapcore.Core
	if opts.Console != nil {
		enc, err := newEncoder(opts.Format, zapcore.TimeEncoderOfLayout("15:04:05"), zapcore.CapitalColorLevelEncoder)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(opts.Console), lvl))
	}

	if opts.File.Path != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			MaxAge:     opts.File.MaxAgeDays,
			Compress:   opts.File.Compress,
			LocalTime:  true,
		}
		enc, err := newEncoder(opts.Format, zapcore.ISO8601TimeEncoder, zapcore.CapitalLevelEncoder)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(fileWriter), lvl))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func newEncoder(format string, timeEnc zapcore.TimeEncoder, levelEnc zapcore.LevelEncoder) (zapcore.Encoder, error) {
	cfg := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       timeEnc,
		EncodeLevel:      levelEnc,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
	switch strings.ToLower(format) {
	case "", "console":
		return zapcore.NewConsoleEncoder(cfg), nil
	case "json":
		// Color codes would end up inside JSON strings.
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewJSONEncoder(cfg), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}

// ParseLevel converts a level name to zapcore.Level. An empty name means info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
}

// Named returns a child of the global logger.
func Named(name string) *zap.Logger {
	return Log.Named(name)
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}

// Debug logs a debug message.
func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

// Info logs an info message.
func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}
