// Package logging builds the zap loggers used across branchsync.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level enumerates supported logging granularities.
type Level string

// Supported levels.
const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format enumerates supported logger output encodings.
type Format string

// Supported formats.
const (
	FormatStructured Format = "structured"
	FormatConsole    Format = "console"
)

var levelMapping = map[Level]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

var formatEncodingMapping = map[Format]string{
	FormatStructured: "json",
	FormatConsole:    "console",
}

// ParseLevel validates a level name, ignoring case and surrounding space.
func ParseLevel(value string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := levelMapping[level]; !ok {
		return "", fmt.Errorf("unsupported log level: %s", value)
	}
	return level, nil
}

// ParseFormat validates a format name, ignoring case and surrounding space.
func ParseFormat(value string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := formatEncodingMapping[format]; !ok {
		return "", fmt.Errorf("unsupported log format: %s", value)
	}
	return format, nil
}

// New produces a zap.Logger writing to stderr with the requested level and format.
func New(level Level, format Format) (*zap.Logger, error) {
	zapLevel, ok := levelMapping[level]
	if !ok {
		return nil, fmt.Errorf("unsupported log level: %s", level)
	}

	encoding, ok := formatEncodingMapping[format]
	if !ok {
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}

	configuration := zap.NewProductionConfig()
	configuration.Level = zap.NewAtomicLevelAt(zapLevel)
	configuration.Encoding = encoding
	configuration.OutputPaths = []string{"stderr"}
	configuration.ErrorOutputPaths = []string{"stderr"}
	if format == FormatConsole {
		configuration.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		configuration.DisableStacktrace = true
	}

	return configuration.Build()
}
