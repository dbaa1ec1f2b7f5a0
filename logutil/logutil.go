// Package logutil provides ready to use logging for command line
// applications: leveled, colorized console output with an optional file
// sink, built on zap.
package logutil

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls how a Logger is constructed.
type Options struct {
	// Console enables the stdout sink.
	Console bool

	// Color enables ANSI level colors on the console sink. Colors are only
	// emitted when stdout is a terminal.
	Color bool

	// Level is the minimum level shown on the console. The file sink always
	// records down to debug.
	Level zapcore.Level

	// JSON switches the console sink to structured JSON output. Useful when
	// a CLI is run under a log collector.
	JSON bool

	// File, when non-empty, appends all messages to the named file.
	File string
}

// DefaultOptions returns the standard CLI logging configuration:
// colorized console output at info level, no file sink.
func DefaultOptions() Options {
	return Options{
		Console: true,
		Color:   true,
		Level:   zapcore.InfoLevel,
	}
}

// Logger is a zap sugared logger with runtime control over console
// verbosity, mirroring the debug flags CLI applications expose.
type Logger struct {
	*zap.SugaredLogger

	consoleLevel zap.AtomicLevel
	file         *os.File
}

// New builds a Logger with the given name and options.
func New(name string, opts Options) (*Logger, error) {
	consoleLevel := zap.NewAtomicLevelAt(opts.Level)

	var cores []zapcore.Core

	if opts.Console {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		if opts.Color && isatty.IsTerminal(os.Stdout.Fd()) {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}

		var enc zapcore.Encoder
		if opts.JSON {
			enc = zapcore.NewJSONEncoder(encCfg)
		} else {
			enc = zapcore.NewConsoleEncoder(encCfg)
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), consoleLevel))
	}

	var file *os.File
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file '%s': %w", opts.File, err)
		}
		file = f

		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "timestamp"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc := zapcore.NewJSONEncoder(encCfg)
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(f), zapcore.DebugLevel))
	}

	if len(cores) == 0 {
		return &Logger{
			SugaredLogger: zap.NewNop().Sugar(),
			consoleLevel:  consoleLevel,
		}, nil
	}

	core := zapcore.NewTee(cores...)
	return &Logger{
		SugaredLogger: zap.New(core).Named(name).Sugar(),
		consoleLevel:  consoleLevel,
		file:          file,
	}, nil
}

// Null returns a logger that discards everything, for callers that want a
// valid log object with no output.
func Null() *Logger {
	return &Logger{
		SugaredLogger: zap.NewNop().Sugar(),
		consoleLevel:  zap.NewAtomicLevelAt(zapcore.FatalLevel),
	}
}

// ShowDebug lowers the console level so debug messages are shown.
func (l *Logger) ShowDebug() {
	l.consoleLevel.SetLevel(zapcore.DebugLevel)
}

// HideDebug restores the console level to info.
func (l *Logger) HideDebug() {
	l.consoleLevel.SetLevel(zapcore.InfoLevel)
}

// Silence turns off all console output. The file sink, if any, keeps
// recording.
func (l *Logger) Silence() {
	l.consoleLevel.SetLevel(zapcore.FatalLevel)
}

// Close flushes buffered entries and releases the file sink.
func (l *Logger) Close() error {
	_ = l.Sync() // stdout sync errors are expected on some platforms
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
