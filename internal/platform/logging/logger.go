// Package logging is the structured logger used across teamflow. It wraps a
// zap core behind key/value methods and stamps trace and span ids on
// context-aware calls.
package logging

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// callerSkip hides the public method and emit from caller annotations.
const callerSkip = 2

type Logger struct {
	z      *zap.Logger
	synced atomic.Bool
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewNop())
}

// EncoderConfig is the JSON layout shared by every log sink.
func EncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "msg"
	cfg.FunctionKey = zapcore.OmitKey
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	return cfg
}

// NewCore builds a JSON core writing to w at level and above.
func NewCore(w zapcore.WriteSyncer, level Level) zapcore.Core {
	return zapcore.NewCore(zapcore.NewJSONEncoder(EncoderConfig()), w, level)
}

// FromCore wraps a core with caller info and error stacktraces.
func FromCore(core zapcore.Core) *Logger {
	return FromZap(zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(callerSkip),
		zap.AddStacktrace(zapcore.ErrorLevel),
	))
}

func NewJSON(level Level) *Logger {
	return NewJSONTo(zapcore.Lock(os.Stdout), level)
}

func NewJSONTo(w zapcore.WriteSyncer, level Level) *Logger {
	return FromCore(NewCore(w, level))
}

func NewNop() *Logger {
	return &Logger{z: zap.NewNop()}
}

func FromZap(z *zap.Logger) *Logger {
	if z == nil {
		return NewNop()
	}
	return &Logger{z: z}
}

// ParseLevel accepts debug, info, warn and error. Empty means info.
func ParseLevel(raw string) (Level, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	switch normalized {
	case "":
		return LevelInfo, nil
	case "warning":
		return LevelWarn, nil
	case "debug", "info", "warn", "error":
		return zapcore.ParseLevel(normalized)
	default:
		return LevelInfo, fmt.Errorf("unsupported log level %q", raw)
	}
}

func Default() *Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	return NewNop()
}

func SetDefault(logger *Logger) {
	if logger == nil {
		logger = NewNop()
	}
	defaultLogger.Store(logger)
}

func (l *Logger) orDefault() *Logger {
	if l == nil || l.z == nil {
		return Default()
	}
	return l
}

func (l *Logger) Zap() *zap.Logger {
	if l == nil || l.z == nil {
		return zap.NewNop()
	}
	return l.z
}

// Sync flushes buffered entries once; later calls are no-ops.
func (l *Logger) Sync() error {
	if l == nil || l.z == nil || !l.synced.CompareAndSwap(false, true) {
		return nil
	}
	return l.z.Sync()
}

// With returns a child logger carrying args on every entry.
func (l *Logger) With(args ...any) *Logger {
	base := l.orDefault()
	return &Logger{z: base.z.With(zapFields(args)...)}
}

// Named scopes the logger, e.g. "anubis" or "logship".
func (l *Logger) Named(name string) *Logger {
	base := l.orDefault()
	return &Logger{z: base.z.Named(name)}
}

func (l *Logger) Enabled(level Level) bool {
	return l.orDefault().z.Core().Enabled(level)
}

func (l *Logger) Debug(msg string, args ...any) { l.emit(context.Background(), LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.emit(context.Background(), LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.emit(context.Background(), LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.emit(context.Background(), LevelError, msg, args) }

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, LevelDebug, msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, LevelInfo, msg, args)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, LevelWarn, msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, LevelError, msg, args)
}

func (l *Logger) emit(ctx context.Context, level Level, msg string, args []any) {
	ce := l.orDefault().z.Check(level, msg)
	if ce == nil {
		return
	}
	fields := zapFields(args)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.Stringer("trace_id", sc.TraceID()),
			zap.Stringer("span_id", sc.SpanID()),
		)
	}
	ce.Write(fields...)
}

// zapFields turns alternating key/value args into zap fields. zap.Field values
// pass through unchanged, a non-string key becomes "arg" and a dangling key
// gets a null value.
func zapFields(args []any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	out := make([]zap.Field, 0, len(args)/2+1)
	for i := 0; i < len(args); {
		if f, ok := args[i].(zap.Field); ok {
			out = append(out, f)
			i++
			continue
		}

		key, _ := args[i].(string)
		if key == "" {
			key = "arg"
		}
		if i+1 == len(args) {
			out = append(out, zap.Any(key, nil))
			break
		}

		switch v := args[i+1].(type) {
		case error:
			out = append(out, zap.NamedError(key, v))
		default:
			out = append(out, zap.Any(key, v))
		}
		i += 2
	}
	return out
}
