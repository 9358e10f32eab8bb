package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls the process logger.
type Options struct {
	JSON    bool
	Debug   bool
	App     string
	Version string
}

// New builds the process logger. Console encoding is used unless JSON is set;
// App and Version, when given, are attached to every entry.
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.Config{
		Encoding:         encoding(opts.JSON),
		Level:            zap.NewAtomicLevelAt(level(opts.Debug)),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields:    initialFields(opts),
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",
			NameKey:    "component",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,

			EncodeDuration: zapcore.MillisDurationEncoder,
		},
	}

	return cfg.Build()
}

func encoding(json bool) string {
	if json {
		return "json"
	}
	return "console"
}

func level(debug bool) zapcore.Level {
	if debug {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

func initialFields(opts Options) map[string]any {
	fields := make(map[string]any, 2)
	if opts.App != "" {
		fields["app"] = opts.App
	}
	if opts.Version != "" {
		fields["version"] = opts.Version
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
