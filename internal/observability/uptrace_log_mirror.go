package observability

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"

	"github.com/riskibarqy/hoopstats/internal/platform/logging"
)

const logMirrorScope = "hoopstats/internal/platform/logging"

// quietDebugMessages fire once per page or per announcement and stay local.
var quietDebugMessages = map[string]struct{}{
	"pagination ended on status 400": {},
	"retrying sportspress request":   {},
	"announcement published":         {},
	"fetched season players":         {},
}

func newLogMirror(serviceVersion string) logging.MirrorFunc {
	otelLogger := otelglobal.Logger(logMirrorScope, otellog.WithInstrumentationVersion(serviceVersion))

	return func(ctx context.Context, level logging.Level, msg string, args ...any) {
		if skipMirroredLog(level, msg) {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}

		severity := mirrorSeverity(level)
		if !otelLogger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
			return
		}

		var record otellog.Record
		now := time.Now().UTC()
		record.SetTimestamp(now)
		record.SetObservedTimestamp(now)
		record.SetSeverity(severity)
		record.SetSeverityText(strings.ToUpper(level.String()))
		record.SetEventName(msg)
		record.SetBody(otellog.StringValue(msg))
		record.AddAttributes(mirrorAttributes(args)...)
		otelLogger.Emit(ctx, record)
	}
}

func skipMirroredLog(level logging.Level, msg string) bool {
	if level > logging.LevelDebug {
		return false
	}
	_, quiet := quietDebugMessages[msg]
	return quiet
}

func mirrorSeverity(level logging.Level) otellog.Severity {
	switch {
	case level <= logging.LevelDebug:
		return otellog.SeverityDebug
	case level == logging.LevelInfo:
		return otellog.SeverityInfo
	case level == logging.LevelWarn:
		return otellog.SeverityWarn
	default:
		return otellog.SeverityError
	}
}

// mirrorAttributes pairs the logger's key/value args. A dangling key becomes
// an empty attribute.
func mirrorAttributes(args []any) []otellog.KeyValue {
	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || strings.TrimSpace(key) == "" {
			key = fmt.Sprintf("arg_%d", i/2)
		}
		if i+1 >= len(args) {
			attrs = append(attrs, otellog.Empty(key))
			continue
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: mirrorValue(args[i+1])})
	}
	return attrs
}

// mirrorValue keeps scalars typed. Composite values such as leader tables or
// records are exported as their JSON text.
func mirrorValue(value any) otellog.Value {
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
		return otellog.StringValue(v.String())
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case error:
		return otellog.StringValue(v.Error())
	case fmt.Stringer:
		return otellog.StringValue(v.String())
	}

	// Named string types such as stats.Stat or usecase.Status.
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.String {
		return otellog.StringValue(rv.String())
	}

	raw, err := sonic.Marshal(value)
	if err != nil {
		return otellog.StringValue(fmt.Sprint(value))
	}
	return otellog.StringValue(string(raw))
}
