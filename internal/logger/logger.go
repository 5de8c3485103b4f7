package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the process logger. LOG_LEVEL=debug lowers the threshold;
// a non-empty file path adds a rotated file sink next to stderr.
func New(level, file string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if level == "debug" {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if file == "" {
		l, _ := cfg.Build()
		return l.Sugar()
	}

	enc := zapcore.NewJSONEncoder(cfg.EncoderConfig)
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   file,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     14, // days
	})
	core := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.Lock(os.Stderr), cfg.Level),
		zapcore.NewCore(enc, sink, cfg.Level),
	)
	return zap.New(core).Sugar()
}
