package logger

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gridiron/pkg/errors"
)

// Logger is a zap.SugaredLogger that mirrors error-level entries into the
// configured error tracker, so call sites never talk to Sentry directly.
type Logger struct {
	*zap.SugaredLogger
	tracker errors.Tracker
}

var (
	mu     sync.Mutex
	global *Logger
)

// Init builds the global logger. Production gets the JSON encoder;
// everything else gets the colored console one. Unknown levels fall back
// to info.
func Init(level, env string) error {
	zl, err := buildZap(level, env)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	global = &Logger{SugaredLogger: zl.Sugar()}
	return nil
}

func buildZap(level, env string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build(
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

// SetErrorTracker attaches a tracker to the global logger. Child loggers
// created after this call inherit it.
func SetErrorTracker(tracker errors.Tracker) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.tracker = tracker
	}
}

// Get returns the global logger, initializing a development fallback when
// Init was never called (tests, tools).
func Get() *Logger {
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		zl, _ := zap.NewDevelopment()
		global = &Logger{SugaredLogger: zl.Sugar()}
	}
	return global
}

// With returns a child logger carrying extra key-value fields
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With(args...),
		tracker:       l.tracker,
	}
}

// Errorf logs a formatted error and forwards it to the tracker
func (l *Logger) Errorf(template string, args ...interface{}) {
	l.SugaredLogger.Errorf(template, args...)
	if l.tracker != nil {
		l.tracker.CaptureError(context.Background(), fmt.Errorf(template, args...),
			map[string]string{"component": "logger"})
	}
}

// ErrorWithContext logs an error and forwards it with the given tags
func (l *Logger) ErrorWithContext(ctx context.Context, err error, tags map[string]string) {
	l.SugaredLogger.Error(err)
	if l.tracker != nil {
		l.tracker.CaptureError(ctx, err, tags)
	}
}

// Package-level shortcuts on the global logger

func Debug(args ...interface{})                   { Get().Debug(args...) }
func Debugf(template string, args ...interface{}) { Get().Debugf(template, args...) }
func Info(args ...interface{})                    { Get().Info(args...) }
func Infof(template string, args ...interface{})  { Get().Infof(template, args...) }
func Warn(args ...interface{})                    { Get().Warn(args...) }
func Warnf(template string, args ...interface{})  { Get().Warnf(template, args...) }
func Error(args ...interface{})                   { Get().Error(args...) }
func Errorf(template string, args ...interface{}) { Get().Errorf(template, args...) }
func Fatal(args ...interface{})                   { Get().Fatal(args...) }
func Fatalf(template string, args ...interface{}) { Get().Fatalf(template, args...) }

// Sync flushes buffered entries, for deferred use in main
func Sync() error {
	if global == nil {
		return nil
	}
	return global.SugaredLogger.Sync()
}
