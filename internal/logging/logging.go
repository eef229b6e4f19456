// Package logging builds the application logger: zap with console
// output on stderr for interactive use, or JSON into a size-rotated
// file when a log file is configured.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New constructs the process logger. level is a zap level name
// ("debug", "info", "warn", "error"); file may be empty for stderr.
func New(level, file string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var core zapcore.Core
	if file != "" {
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
		encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		core = zapcore.NewCore(encoder, writer, lvl)
	} else {
		encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		core = zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), lvl)
	}

	return zap.New(core).Sugar(), nil
}
