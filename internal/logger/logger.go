package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	service  string
	hostname string
	handler  *zap.Logger
}

// New creates a JSON logger writing to output ("stdout", "stderr" or a file path)
func New(service, level, output string) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	if strings.TrimSpace(output) == "" {
		output = "stderr"
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	handler, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return NewWithCore(service, handler.Core()), nil
}

// NewWithCore wraps an existing zap core, used by tests to observe entries
func NewWithCore(service string, core zapcore.Core) *Logger {
	hostname, _ := os.Hostname()

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  zap.New(core),
	}
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{handler: zap.NewNop()}
}

// GenerateRequestID returns a fresh id correlating the entries of one action
func GenerateRequestID() string {
	return uuid.NewString()
}

func (l *Logger) Info(action, message, requestID string, fields map[string]interface{}) {
	l.handler.Info(message, l.attrs(action, requestID, fields)...)
}

func (l *Logger) Debug(action, message, requestID string, fields map[string]interface{}) {
	l.handler.Debug(message, l.attrs(action, requestID, fields)...)
}

func (l *Logger) Warn(action, message, requestID string, fields map[string]interface{}) {
	l.handler.Warn(message, l.attrs(action, requestID, fields)...)
}

func (l *Logger) Error(action, message, requestID string, err error, fields map[string]interface{}) {
	attrs := l.attrs(action, requestID, fields)
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	l.handler.Error(message, attrs...)
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.handler.Sync()
}

func (l *Logger) attrs(action, requestID string, fields map[string]interface{}) []zap.Field {
	attrs := []zap.Field{
		zap.String("service", l.service),
		zap.String("hostname", l.hostname),
		zap.String("action", action),
		zap.String("request_id", requestID),
	}
	if len(fields) > 0 {
		attrs = append(attrs, zap.Any("details", fields))
	}
	return attrs
}
