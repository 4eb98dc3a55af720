package logging

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides structured logging for validation and apply cycles.
type Logger struct {
	zap *zap.Logger
}

// NewLogger creates a Logger that writes JSON to a file.
// If logPath is empty, logging is disabled.
// If development is true, attempt-level debug output is included.
func NewLogger(logPath string, development bool) (*Logger, error) {
	if logPath == "" {
		return &Logger{zap: zap.NewNop()}, nil
	}

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	var encoderConfig zapcore.EncoderConfig
	level := zapcore.InfoLevel
	if development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		level = zapcore.DebugLevel
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logFile),
		level,
	)

	return &Logger{zap: zap.New(core)}, nil
}

// Zap exposes the underlying logger for components that accept one directly.
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

// Close syncs the logger (should be called on shutdown).
func (l *Logger) Close() error {
	return l.zap.Sync()
}

// ValidationCompleted logs the outcome of one validation pass.
func (l *Logger) ValidationCompleted(document string, requests, conflicts int, valid bool, duration time.Duration) {
	l.zap.Info("validation completed",
		zap.String("document", document),
		zap.Int("requests", requests),
		zap.Int("conflicts", conflicts),
		zap.Bool("valid", valid),
		zap.Duration("duration", duration),
	)
}

// DocumentApplied logs a successful apply.
func (l *Logger) DocumentApplied(document string, requests, lines int) {
	l.zap.Info("document applied",
		zap.String("document", document),
		zap.Int("requests", requests),
		zap.Int("lines", lines),
	)
}

// Error logs an error.
func (l *Logger) Error(msg string, err error) {
	l.zap.Error(msg, zap.Error(err))
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, fields...)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(msg, fields...)
}
