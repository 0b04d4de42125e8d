package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging surface used across the codebase. It wraps zap so
// packages never import zap directly (except for field values re-exported
// below).
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Fatal(msg string, fields ...zap.Field)

	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})

	Sync() error
}

type zapLogger struct {
	base    *zap.Logger
	sugared *zap.SugaredLogger
}

// New builds a Logger at the given level. pretty selects the colored
// development encoder; otherwise production JSON is used.
func New(level string, pretty bool) Logger {
	var cfg zap.Config
	if pretty {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	if lvl, ok := parseLevel(level); ok {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	base, err := cfg.Build(
		zap.AddStacktrace(zapcore.FatalLevel), // stack traces only on Fatal
	)
	if err != nil {
		panic(err)
	}

	return &zapLogger{
		base:    base,
		sugared: base.Sugar(),
	}
}

func parseLevel(lvl string) (zapcore.Level, bool) {
	switch lvl {
	case "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

func (l *zapLogger) Debug(msg string, fields ...zap.Field) { l.base.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...zap.Field)  { l.base.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...zap.Field)  { l.base.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...zap.Field) { l.base.Error(msg, fields...) }
func (l *zapLogger) Fatal(msg string, fields ...zap.Field) { l.base.Fatal(msg, fields...) }

func (l *zapLogger) Debugf(t string, args ...interface{}) { l.sugared.Debugf(t, args...) }
func (l *zapLogger) Infof(t string, args ...interface{})  { l.sugared.Infof(t, args...) }
func (l *zapLogger) Warnf(t string, args ...interface{})  { l.sugared.Warnf(t, args...) }
func (l *zapLogger) Errorf(t string, args ...interface{}) { l.sugared.Errorf(t, args...) }
func (l *zapLogger) Fatalf(t string, args ...interface{}) { l.sugared.Fatalf(t, args...) }

func (l *zapLogger) Sync() error { return l.base.Sync() }

// Field constructors (re-exported from zap for convenience).
func String(key, val string) zap.Field                 { return zap.String(key, val) }
func Int(key string, val int) zap.Field                { return zap.Int(key, val) }
func Float64(key string, val float64) zap.Field        { return zap.Float64(key, val) }
func Duration(key string, val time.Duration) zap.Field { return zap.Duration(key, val) }
func Time(key string, val time.Time) zap.Field         { return zap.Time(key, val) }
func Error(err error) zap.Field                        { return zap.Error(err) }
