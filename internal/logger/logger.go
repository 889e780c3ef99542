package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const FieldApp = "app"

// Options control the application logger.
type Options struct {
	// App is attached to every entry when set.
	App   string
	JSON  bool
	Debug bool
	// File receives log entries instead of stderr so they do not interleave with the wizard screens.
	File string
}

// New builds the application logger. Console output to stderr is the default.
func New(opts Options) (*zap.Logger, error) {
	return buildConfig(opts).Build()
}

func buildConfig(opts Options) zap.Config {
	level := zapcore.InfoLevel
	encoding := "console"

	if opts.JSON {
		encoding = "json"
	}

	if opts.Debug {
		level = zapcore.DebugLevel
	}

	output := "stderr"
	if file := strings.TrimSpace(opts.File); file != "" {
		output = file
	}

	var initial map[string]interface{}
	if opts.App != "" {
		initial = map[string]interface{}{FieldApp: opts.App}
	}

	return zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields:    initial,
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "step",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}
}
