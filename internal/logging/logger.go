// Package logging provides the process-wide structured logger.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the shared sugared logger. It is a no-op until Initialize is called.
var Logger = zap.NewNop().Sugar()

// Initialize configures Logger. Logs go to stderr so stdout stays clean for reports.
func Initialize(verbose, jsonOutput bool) error {
	level := zap.WarnLevel
	if verbose {
		level = zap.DebugLevel
	}

	var encoder zapcore.Encoder
	if jsonOutput {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = ""
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	Logger = zap.New(core).Sugar().Named("oneiro")
	return nil
}

// Sync flushes buffered log entries
func Sync() {
	_ = Logger.Sync()
}
