package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func New(verbosity string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(verbosity)
	if err != nil {
		return nil, err
	}
	config.Level = level
	return config.Build()
}

// NewHelper builds a console logger for child helper processes. Helper output
// interleaves with the parent's on stderr, so lines stay human-readable and
// carry the helper name for attribution.
func NewHelper(name, verbosity string) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	level, err := zap.ParseAtomicLevel(verbosity)
	if err != nil {
		return nil, err
	}
	config.Level = level
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	log, err := config.Build()
	if err != nil {
		return nil, err
	}
	return log.Named(name), nil
}
