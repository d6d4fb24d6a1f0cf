package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type key string

const (
	LoggerKey   key = "logger"
	RequestID   key = "requestID"
	ServiceName     = "service"
)

type Logger interface {
	Debug(ctx context.Context, msg string, fields ...zap.Field)
	Info(ctx context.Context, msg string, fields ...zap.Field)
	Warn(ctx context.Context, msg string, fields ...zap.Field)
	Error(ctx context.Context, msg string, fields ...zap.Field)
	Fatal(ctx context.Context, msg string, fields ...zap.Field)
}

type logger struct {
	serviceName string
	logger      *zap.Logger
}

func (l logger) with(ctx context.Context, fields []zap.Field) []zap.Field {
	fields = append(fields, zap.String(ServiceName, l.serviceName))

	if id, ok := ctx.Value(RequestID).(string); ok && id != "" {
		fields = append(fields, zap.String(string(RequestID), id))
	}

	return fields
}

func (l logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.logger.Debug(msg, l.with(ctx, fields)...)
}

func (l logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.logger.Info(msg, l.with(ctx, fields)...)
}

func (l logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.logger.Warn(msg, l.with(ctx, fields)...)
}

func (l logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.logger.Error(msg, l.with(ctx, fields)...)
}

func (l logger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	l.logger.Fatal(msg, l.with(ctx, fields)...)
}

func New(level zapcore.Level, serviceName string) Logger {
	config := zap.Config{
		Encoding:         "console", // Используем консольный вывод
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder, // Цветной вывод уровня лога
			EncodeTime:     zapcore.ISO8601TimeEncoder,       // Читаемое отображение времени
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeName:     zapcore.FullNameEncoder,
		},
	}
	zapLogger, err := config.Build()
	if err != nil {
		zapLogger = zap.NewNop()
	}

	return NewWithZap(zapLogger, serviceName)
}

// NewWithZap wraps an already built zap logger.
func NewWithZap(zapLogger *zap.Logger, serviceName string) Logger {
	return &logger{
		serviceName: serviceName,
		logger:      zapLogger,
	}
}

// ParseLevel falls back to debug for unknown level names.
func ParseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zap.DebugLevel
	}

	return lvl
}

func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, l)
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestID, id)
}

func RequestIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequestID).(string)
	return id, ok && id != ""
}

// GetLoggerFromCtx returns a no-op logger when ctx carries none.
func GetLoggerFromCtx(ctx context.Context) Logger {
	if l, ok := ctx.Value(LoggerKey).(Logger); ok {
		return l
	}

	return NewWithZap(zap.NewNop(), "")
}
