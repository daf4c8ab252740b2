package logger

import (
	"context"
	"time"

	ctxutil "github.com/edubooster/backend/pkg/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogBuilder accumulates fields for a single context-aware log entry.
// Usage: logger.InfoWithContext(ctx, "message").String("k", v).Log()
type LogBuilder struct {
	level   zapcore.Level
	message string
	fields  []zap.Field
}

func newBuilder(ctx context.Context, level zapcore.Level, message string) *LogBuilder {
	b := &LogBuilder{
		level:   level,
		message: message,
		fields:  make([]zap.Field, 0, 12),
	}
	b.extractContextFields(ctx)
	return b
}

// extractContextFields pulls the request tracking metadata out of the context.
func (b *LogBuilder) extractContextFields(ctx context.Context) {
	if ctx == nil {
		return
	}

	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		b.fields = append(b.fields, zap.String("request_id", requestID))
	}
	if clientIP := ctxutil.GetClientIP(ctx); clientIP != "" {
		b.fields = append(b.fields, zap.String("client_ip", clientIP))
	}
	if userAgent := ctxutil.GetUserAgent(ctx); userAgent != "" {
		b.fields = append(b.fields, zap.String("user_agent", userAgent))
	}
	if userID, ok := ctxutil.GetUserID(ctx); ok {
		b.fields = append(b.fields, zap.Uint("user_id", userID))
	}
	if module := ctxutil.GetModule(ctx); module != "" {
		b.fields = append(b.fields, zap.String("module", module))
	}
	if function := ctxutil.GetFunction(ctx); function != "" {
		b.fields = append(b.fields, zap.String("function", function))
	}
	if duration := ctxutil.GetDuration(ctx); duration > 0 {
		b.fields = append(b.fields, zap.Duration("elapsed", duration))
	}
}

// Field methods
func (b *LogBuilder) String(key, value string) *LogBuilder {
	b.fields = append(b.fields, zap.String(key, value))
	return b
}

func (b *LogBuilder) Int(key string, value int) *LogBuilder {
	b.fields = append(b.fields, zap.Int(key, value))
	return b
}

func (b *LogBuilder) Int64(key string, value int64) *LogBuilder {
	b.fields = append(b.fields, zap.Int64(key, value))
	return b
}

func (b *LogBuilder) Uint(key string, value uint) *LogBuilder {
	b.fields = append(b.fields, zap.Uint(key, value))
	return b
}

func (b *LogBuilder) Bool(key string, value bool) *LogBuilder {
	b.fields = append(b.fields, zap.Bool(key, value))
	return b
}

func (b *LogBuilder) Duration(key string, value time.Duration) *LogBuilder {
	b.fields = append(b.fields, zap.Duration(key, value))
	return b
}

func (b *LogBuilder) Err(err error) *LogBuilder {
	b.fields = append(b.fields, zap.Error(err))
	return b
}

// Log emits the accumulated entry.
func (b *LogBuilder) Log() {
	logger := GetLogger()
	switch b.level {
	case zapcore.DebugLevel:
		logger.Debug(b.message, b.fields...)
	case zapcore.InfoLevel:
		logger.Info(b.message, b.fields...)
	case zapcore.WarnLevel:
		logger.Warn(b.message, b.fields...)
	case zapcore.ErrorLevel:
		logger.Error(b.message, b.fields...)
	}
}

// Entry points

func DebugWithContext(ctx context.Context, message string) *LogBuilder {
	return newBuilder(ctx, zapcore.DebugLevel, message)
}

func InfoWithContext(ctx context.Context, message string) *LogBuilder {
	return newBuilder(ctx, zapcore.InfoLevel, message)
}

func WarnWithContext(ctx context.Context, message string) *LogBuilder {
	return newBuilder(ctx, zapcore.WarnLevel, message)
}

func ErrorWithContext(ctx context.Context, message string) *LogBuilder {
	return newBuilder(ctx, zapcore.ErrorLevel, message)
}
