package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger. Production uses the JSON encoder,
// anything else the colored console encoder.
func New(isProd bool) (*zap.Logger, func() error) {
	var logger *zap.Logger

	if isProd {
		logger = zap.Must(zap.NewProduction())
	} else {
		config := zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger = zap.Must(config.Build())
	}

	return logger, logger.Sync
}

// Nop returns a logger that discards everything, for tests and tools
func Nop() *zap.Logger {
	return zap.NewNop()
}
