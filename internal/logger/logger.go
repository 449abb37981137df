package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	zl *zap.SugaredLogger
}

func New(level string) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	switch level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		zl = zap.NewNop()
	}

	return &Logger{zl: zl.Sugar()}
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.zl.Infof(msg, args...)
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.zl.Debugf(msg, args...)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.zl.Warnf(msg, args...)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.zl.Errorf(msg, args...)
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.zl.Fatalf(msg, args...)
}
