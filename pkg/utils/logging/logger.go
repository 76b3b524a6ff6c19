package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	logsDir      string
	consoleLevel zapcore.Level
	console      io.Writer
}

// Option configures InitLogger
type Option func(*options)

// WithLogsDir writes the log file under dir instead of ./logs
func WithLogsDir(dir string) Option {
	return func(o *options) {
		o.logsDir = dir
	}
}

// WithConsoleLevel sets the minimum level printed to the console
func WithConsoleLevel(level zapcore.Level) Option {
	return func(o *options) {
		o.consoleLevel = level
	}
}

// WithConsole replaces stdout as the console output
func WithConsole(w io.Writer) Option {
	return func(o *options) {
		o.console = w
	}
}

// InitLogger initializes a zap logger with console and file outputs.
// env prefixes the log file name. The console shows Info and above unless
// overridden; the JSON file always records Debug.
func InitLogger(env string, opts ...Option) (*zap.Logger, error) {
	o := options{
		logsDir:      "logs",
		consoleLevel: zapcore.InfoLevel,
		console:      os.Stdout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(o.logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFileName := filepath.Join(o.logsDir, fmt.Sprintf("%s_%s.log", env, timestamp))
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.TimeKey = "timestamp"
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig), zapcore.AddSync(o.console), o.consoleLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(logFile), zapcore.DebugLevel),
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("env", env))

	return logger, nil
}
