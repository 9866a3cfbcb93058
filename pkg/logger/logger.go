package logger

import (
	"fmt"

	"github.com/jorgebenaventee/taskify/internal/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

type zapLogger struct {
	*zap.SugaredLogger
}

func New(cfg config.Logger) (Logger, error) {
	lvl, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse level error: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if len(cfg.Output) != 0 {
		zcfg.OutputPaths = cfg.Output
	}

	if len(cfg.ErrOutput) != 0 {
		zcfg.ErrorOutputPaths = cfg.ErrOutput
	}

	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger error: %w", err)
	}

	return zapLogger{l.Sugar()}, nil
}
