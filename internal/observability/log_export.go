package observability

import (
	"context"
	"fmt"
	"strings"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"

	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
)

const (
	logInstrumentationName = "fantasy-squad/internal/platform/logging"
	requestLogMessage      = "http request"
	badKey                 = "!BADKEY"
)

// logExporter mirrors application log records to the global OTel log
// provider. Request logs for probe paths stay local.
type logExporter struct {
	logger     otellog.Logger
	probePaths map[string]struct{}
	now        func() time.Time
}

func newLogExporter(serviceVersion string) *logExporter {
	return &logExporter{
		logger: otelglobal.Logger(logInstrumentationName, otellog.WithInstrumentationVersion(serviceVersion)),
		probePaths: map[string]struct{}{
			"/healthz": {},
			"/livez":   {},
			"/readyz":  {},
		},
		now: time.Now,
	}
}

func (e *logExporter) export(ctx context.Context, level logging.Level, msg string, args ...any) {
	if e.isProbeRequest(msg, args) {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	severity := severityFor(level)
	if !e.logger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
		return
	}

	at := e.now().UTC()
	var record otellog.Record
	record.SetTimestamp(at)
	record.SetObservedTimestamp(at)
	record.SetSeverity(severity)
	record.SetSeverityText(strings.ToUpper(level.String()))
	record.SetEventName(msg)
	record.SetBody(otellog.StringValue(msg))
	record.AddAttributes(logAttributes(args)...)
	e.logger.Emit(ctx, record)
}

func (e *logExporter) isProbeRequest(msg string, args []any) bool {
	if msg != requestLogMessage {
		return false
	}
	path, ok := lookupArg(args, "path").(string)
	if !ok {
		return false
	}
	_, probe := e.probePaths[path]
	return probe
}

func lookupArg(args []any, key string) any {
	for i := 0; i+1 < len(args); i += 2 {
		if k, ok := args[i].(string); ok && k == key {
			return args[i+1]
		}
	}
	return nil
}

// logAttributes pairs key/value args the way slog does: a non-string key
// becomes !BADKEY and a trailing key without a value keeps an empty value.
func logAttributes(args []any) []otellog.KeyValue {
	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for len(args) > 0 {
		key, ok := args[0].(string)
		if !ok || key == "" {
			attrs = append(attrs, otellog.KeyValue{Key: badKey, Value: logValue(args[0])})
			args = args[1:]
			continue
		}
		if len(args) == 1 {
			attrs = append(attrs, otellog.Empty(key))
			break
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: logValue(args[1])})
		args = args[2:]
	}
	return attrs
}

func severityFor(level logging.Level) otellog.Severity {
	switch level {
	case logging.LevelDebug:
		return otellog.SeverityDebug
	case logging.LevelInfo:
		return otellog.SeverityInfo
	case logging.LevelWarn:
		return otellog.SeverityWarn
	case logging.LevelError:
		return otellog.SeverityError
	}
	if level < logging.LevelDebug {
		return otellog.SeverityTrace
	}
	return otellog.SeverityFatal
}

func logValue(value any) otellog.Value {
	switch v := value.(type) {
	case nil:
		return otellog.Value{}
	case string:
		return otellog.StringValue(v)
	case bool:
		return otellog.BoolValue(v)
	case int:
		return otellog.IntValue(v)
	case int32:
		return otellog.Int64Value(int64(v))
	case int64:
		return otellog.Int64Value(v)
	case float64:
		return otellog.Float64Value(v)
	case time.Duration:
		return otellog.Int64Value(v.Milliseconds())
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case error:
		return otellog.StringValue(v.Error())
	case []string:
		items := make([]otellog.Value, len(v))
		for i, item := range v {
			items[i] = otellog.StringValue(item)
		}
		return otellog.SliceValue(items...)
	default:
		return otellog.StringValue(fmt.Sprint(v))
	}
}
