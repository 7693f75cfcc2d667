package observability

import (
	"context"
	"fmt"
	"math"
	"time"

	sonic "github.com/bytedance/sonic"
	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap/zapcore"
)

const otelLogInstrumentation = "teamflow/internal/platform/logging"

// probePaths are request log lines never exported to the log backend.
var probePaths = map[string]bool{"/healthz": true, "/readyz": true}

// otelLogCore is a zap core that emits entries as OpenTelemetry log records.
// It is teed next to the JSON core so stdout output is unaffected.
type otelLogCore struct {
	zapcore.LevelEnabler
	logger otellog.Logger
	attrs  []otellog.KeyValue
}

func newOTelLogCore(serviceVersion string, level zapcore.LevelEnabler) zapcore.Core {
	return &otelLogCore{
		LevelEnabler: level,
		logger: otelglobal.Logger(
			otelLogInstrumentation,
			otellog.WithInstrumentationVersion(serviceVersion),
		),
	}
}

func (c *otelLogCore) With(fields []zapcore.Field) zapcore.Core {
	enc := newOTelLogEncoder(len(c.attrs) + len(fields))
	enc.attrs = append(enc.attrs, c.attrs...)
	for _, f := range fields {
		f.AddTo(enc)
	}
	return &otelLogCore{LevelEnabler: c.LevelEnabler, logger: c.logger, attrs: enc.attrs}
}

func (c *otelLogCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return checked
	}
	return checked.AddCore(entry, c)
}

func (c *otelLogCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	enc := newOTelLogEncoder(len(c.attrs) + len(fields))
	enc.attrs = append(enc.attrs, c.attrs...)
	for _, f := range fields {
		f.AddTo(enc)
	}
	if isProbeRequestLog(entry.Message, enc.attrs) {
		return nil
	}

	ctx := context.Background()
	severity := toOTelSeverity(entry.Level)
	if !c.logger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: entry.Message}) {
		return nil
	}

	var rec otellog.Record
	rec.SetTimestamp(entry.Time)
	rec.SetObservedTimestamp(time.Now().UTC())
	rec.SetSeverity(severity)
	rec.SetSeverityText(entry.Level.CapitalString())
	rec.SetEventName(entry.Message)
	rec.SetBody(otellog.StringValue(entry.Message))
	if entry.LoggerName != "" {
		enc.attrs = append(enc.attrs, otellog.String("logger", entry.LoggerName))
	}
	rec.AddAttributes(enc.attrs...)

	c.logger.Emit(ctx, rec)
	return nil
}

func (c *otelLogCore) Sync() error {
	return nil
}

func isProbeRequestLog(msg string, attrs []otellog.KeyValue) bool {
	if msg != "http request" {
		return false
	}
	for _, kv := range attrs {
		if kv.Key == "path" && kv.Value.Kind() == otellog.KindString {
			return probePaths[kv.Value.AsString()]
		}
	}
	return false
}

func toOTelSeverity(level zapcore.Level) otellog.Severity {
	switch {
	case level <= zapcore.DebugLevel:
		return otellog.SeverityDebug
	case level == zapcore.InfoLevel:
		return otellog.SeverityInfo
	case level == zapcore.WarnLevel:
		return otellog.SeverityWarn
	case level == zapcore.ErrorLevel:
		return otellog.SeverityError
	default:
		return otellog.SeverityFatal
	}
}

// otelLogEncoder collects zap fields straight into OpenTelemetry key/values.
// Fields after a namespace are flattened to "namespace.key".
type otelLogEncoder struct {
	attrs  []otellog.KeyValue
	prefix string
}

var _ zapcore.ObjectEncoder = (*otelLogEncoder)(nil)

func newOTelLogEncoder(capacity int) *otelLogEncoder {
	return &otelLogEncoder{attrs: make([]otellog.KeyValue, 0, capacity)}
}

func (e *otelLogEncoder) add(key string, v otellog.Value) {
	e.attrs = append(e.attrs, otellog.KeyValue{Key: e.prefix + key, Value: v})
}

func (e *otelLogEncoder) OpenNamespace(key string) { e.prefix += key + "." }

func (e *otelLogEncoder) AddString(k, v string) { e.add(k, otellog.StringValue(v)) }
func (e *otelLogEncoder) AddBool(k string, v bool) { e.add(k, otellog.BoolValue(v)) }
func (e *otelLogEncoder) AddInt64(k string, v int64) { e.add(k, otellog.Int64Value(v)) }
func (e *otelLogEncoder) AddFloat64(k string, v float64) { e.add(k, otellog.Float64Value(v)) }

func (e *otelLogEncoder) AddByteString(k string, v []byte) { e.AddString(k, string(v)) }
func (e *otelLogEncoder) AddFloat32(k string, v float32) { e.AddFloat64(k, float64(v)) }
func (e *otelLogEncoder) AddInt(k string, v int) { e.AddInt64(k, int64(v)) }
func (e *otelLogEncoder) AddInt32(k string, v int32) { e.AddInt64(k, int64(v)) }
func (e *otelLogEncoder) AddInt16(k string, v int16) { e.AddInt64(k, int64(v)) }
func (e *otelLogEncoder) AddInt8(k string, v int8) { e.AddInt64(k, int64(v)) }
func (e *otelLogEncoder) AddUint32(k string, v uint32) { e.AddInt64(k, int64(v)) }
func (e *otelLogEncoder) AddUint16(k string, v uint16) { e.AddInt64(k, int64(v)) }
func (e *otelLogEncoder) AddUint8(k string, v uint8) { e.AddInt64(k, int64(v)) }
func (e *otelLogEncoder) AddUint(k string, v uint) { e.AddUint64(k, uint64(v)) }
func (e *otelLogEncoder) AddUintptr(k string, v uintptr) { e.AddUint64(k, uint64(v)) }
func (e *otelLogEncoder) AddDuration(k string, v time.Duration) { e.AddString(k, v.String()) }
func (e *otelLogEncoder) AddComplex128(k string, v complex128) { e.AddString(k, fmt.Sprint(v)) }
func (e *otelLogEncoder) AddComplex64(k string, v complex64) { e.AddString(k, fmt.Sprint(v)) }

func (e *otelLogEncoder) AddBinary(k string, v []byte) {
	e.add(k, otellog.BytesValue(append([]byte(nil), v...)))
}

func (e *otelLogEncoder) AddTime(k string, v time.Time) {
	e.AddString(k, v.UTC().Format(time.RFC3339Nano))
}

func (e *otelLogEncoder) AddUint64(k string, v uint64) {
	if v > math.MaxInt64 {
		e.AddString(k, fmt.Sprint(v))
		return
	}
	e.AddInt64(k, int64(v))
}

func (e *otelLogEncoder) AddObject(k string, v zapcore.ObjectMarshaler) error {
	child := newOTelLogEncoder(4)
	if err := v.MarshalLogObject(child); err != nil {
		return err
	}
	e.add(k, otellog.MapValue(child.attrs...))
	return nil
}

// AddArray flattens arrays through zap's map encoder and ships them as JSON.
func (e *otelLogEncoder) AddArray(k string, v zapcore.ArrayMarshaler) error {
	tmp := zapcore.NewMapObjectEncoder()
	if err := tmp.AddArray(k, v); err != nil {
		return err
	}
	return e.AddReflected(k, tmp.Fields[k])
}

// AddReflected covers zap.Any values such as domain structs and maps.
func (e *otelLogEncoder) AddReflected(k string, v any) error {
	if v == nil {
		e.add(k, otellog.Value{})
		return nil
	}
	encoded, err := sonic.MarshalString(v)
	if err != nil {
		e.AddString(k, fmt.Sprint(v))
		return nil
	}
	e.AddString(k, encoded)
	return nil
}
