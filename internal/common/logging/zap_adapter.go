package logging

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// invocationIDKey is the context key under which the dispatch layer stores
// the per-invocation correlation id.
type invocationIDKey struct{}

// WithInvocationID stores an invocation id on the context so that
// Logger.WithContext picks it up.
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationIDKey{}, id)
}

// ZapAdapter wraps zap.Logger to implement our Logger interface
type ZapAdapter struct {
	logger *zap.Logger
}

// NewZapLogger creates a new zap-based logger
func NewZapLogger(config LogConfig) (Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}

	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	var writer zapcore.WriteSyncer
	if config.Output != nil {
		writer = zapcore.AddSync(config.Output)
	} else {
		writer = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(encoder, writer, convertToZapLevel(config.Level))
	logger := zap.New(core)

	if config.Prefix != "" {
		logger = logger.Named(config.Prefix)
	}

	return &ZapAdapter{logger: logger}, nil
}

// NewDefaultLogger creates a logger with default configuration
func NewDefaultLogger() Logger {
	logger, err := NewZapLogger(DefaultLogConfig())
	if err != nil {
		panic("failed to initialize default zap logger: " + err.Error())
	}
	return logger
}

// InitGlobalLogger initializes the global logger from LOG_LEVEL
func InitGlobalLogger() {
	logger, err := NewZapLogger(LogConfig{Level: ParseLevel(os.Getenv("LOG_LEVEL"))})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	SetGlobalLogger(logger)
}

// MustSync flushes any buffered log entries; call before the invocation ends
func MustSync() {
	if zapLogger, ok := GetGlobalLogger().(*ZapAdapter); ok {
		_ = zapLogger.Sync()
	}
}

// Debug logs a debug message
func (z *ZapAdapter) Debug(msg string, fields ...Field) {
	z.logger.Debug(msg, convertFields(fields)...)
}

// Info logs an info message
func (z *ZapAdapter) Info(msg string, fields ...Field) {
	z.logger.Info(msg, convertFields(fields)...)
}

// Warn logs a warning message
func (z *ZapAdapter) Warn(msg string, fields ...Field) {
	z.logger.Warn(msg, convertFields(fields)...)
}

// Error logs an error message
func (z *ZapAdapter) Error(msg string, err error, fields ...Field) {
	zapFields := convertFields(fields)
	if err != nil {
		zapFields = append(zapFields, zap.Error(err))
	}
	z.logger.Error(msg, zapFields...)
}

// WithFields returns a new logger with additional fields
func (z *ZapAdapter) WithFields(fields ...Field) Logger {
	if len(fields) == 0 {
		return z
	}
	return &ZapAdapter{logger: z.logger.With(convertFields(fields)...)}
}

// WithContext returns a new logger carrying the invocation id, if any
func (z *ZapAdapter) WithContext(ctx context.Context) Logger {
	if id, ok := ctx.Value(invocationIDKey{}).(string); ok && id != "" {
		return &ZapAdapter{logger: z.logger.With(zap.String("invocation_id", id))}
	}
	return z
}

// Sync flushes any buffered log entries
func (z *ZapAdapter) Sync() error {
	return z.logger.Sync()
}

// convertToZapLevel converts our LogLevel to zap's Level
func convertToZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// convertFields converts our Field type to zap.Field
func convertFields(fields []Field) []zap.Field {
	zapFields := make([]zap.Field, len(fields))
	for i, field := range fields {
		zapFields[i] = zap.Any(field.Key, field.Value)
	}
	return zapFields
}

// Typed field constructors that avoid zap.Any's reflection path

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a duration field
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field with key "error"
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}
