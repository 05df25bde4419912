package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init installs a development logger with colored levels as the global zap
// logger and returns it so callers can Sync on exit.
func Init() *zap.Logger {
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	logger, err := zapConfig.Build()
	if err != nil {
		logger = zap.NewNop()
	}

	zap.ReplaceGlobals(logger)
	return logger
}
