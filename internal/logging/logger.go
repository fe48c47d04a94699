package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"recordstore/internal/config"
)

// New builds a development logger, or in release mode a JSON logger that also writes a rotated file.
func New(cfg *config.Config) (*zap.Logger, error) {
	if os.Getenv("GIN_MODE") != "release" {
		return zap.NewDevelopment()
	}

	if err := os.MkdirAll("logs", 0o755); err != nil {
		return nil, err
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.NewMultiWriteSyncer(
			zapcore.AddSync(os.Stdout),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   "logs/record-store.log",
				MaxSize:    50,
				MaxBackups: 5,
				MaxAge:     14,
				Compress:   true,
			}),
		),
		zap.InfoLevel,
	)
	return zap.New(core, zap.Fields(zap.String("service", cfg.OTELServiceName))), nil
}
