package observ

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the CLI logger.
//
// Why stderr for everything?
//   - Tables and notices go to stdout; piping `pgdesk room list` into
//     another tool must not pick up log lines.
//   - Validation errors are also written to stderr, so a user sees
//     log output and error text in the same place.
//
// An unknown level falls back to warn rather than failing: a typo in
// LOG_LEVEL should not stop the user from working.
func NewLogger(env, level string) (*zap.Logger, error) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		zapLevel = zapcore.WarnLevel
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build(zap.Fields(zap.String("app", "pgdesk")))
}
