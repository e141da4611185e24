package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debugf(format string, args ...interface{})
	Info(msg string)
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Error(msg string, args ...interface{})
	Errorf(format string, args ...interface{})
	Sync() error
}

type Config struct {
	Level     string
	Output    []string
	ErrOutput []string
}

type ZapLogger struct {
	lg *zap.SugaredLogger
}

func New(cfg Config) (*ZapLogger, error) {
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse level error: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)

	if len(cfg.Output) != 0 {
		zc.OutputPaths = cfg.Output
	}

	if len(cfg.ErrOutput) != 0 {
		zc.ErrorOutputPaths = cfg.ErrOutput
	}

	l, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build logger error: %w", err)
	}

	return &ZapLogger{lg: l.Sugar()}, nil
}

func (zl *ZapLogger) Debugf(format string, args ...interface{}) {
	zl.lg.Debugf(format, args...)
}

func (zl *ZapLogger) Info(msg string) {
	zl.lg.Info(msg)
}

func (zl *ZapLogger) Infof(format string, args ...interface{}) {
	zl.lg.Infof(format, args...)
}

func (zl *ZapLogger) Warnf(format string, args ...interface{}) {
	zl.lg.Warnf(format, args...)
}

func (zl *ZapLogger) Error(msg string, args ...interface{}) {
	if len(args) == 0 {
		zl.lg.Error(msg)

		return
	}

	zl.lg.Errorf(msg, args...)
}

func (zl *ZapLogger) Errorf(format string, args ...interface{}) {
	zl.lg.Errorf(format, args...)
}

func (zl *ZapLogger) Sync() error {
	return zl.lg.Sync() //nolint:wrapcheck
}
