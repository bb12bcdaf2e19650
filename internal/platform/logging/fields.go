package logging

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

const badKey = "!BADKEY"

// fields pairs args the way log/slog does: a non-string key is logged under
// !BADKEY and a trailing key without a value is kept with a nil value.
func fields(args []any) []zap.Field {
	if len(args) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, (len(args)+1)/2+2)
	for len(args) > 0 {
		key, ok := args[0].(string)
		if !ok || key == "" {
			out = append(out, field(badKey, args[0]))
			args = args[1:]
			continue
		}
		if len(args) == 1 {
			out = append(out, zap.Any(key, nil))
			break
		}
		out = append(out, field(key, args[1]))
		args = args[2:]
	}
	return out
}

func field(key string, value any) zap.Field {
	switch v := value.(type) {
	case error:
		return zap.String(key, v.Error())
	case string:
		return zap.String(key, v)
	case bool:
		return zap.Bool(key, v)
	case int:
		return zap.Int(key, v)
	case int64:
		return zap.Int64(key, v)
	case float64:
		return zap.Float64(key, v)
	case time.Duration:
		return zap.Duration(key, v)
	case time.Time:
		return zap.Time(key, v)
	case []string:
		return zap.Strings(key, v)
	case fmt.Stringer:
		return zap.Stringer(key, v)
	default:
		return zap.Any(key, v)
	}
}
