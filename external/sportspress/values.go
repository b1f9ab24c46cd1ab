package sportspress

import (
	"math"
	"strconv"
	"strings"
)

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	switch typed := src[key].(type) {
	case string:
		return strings.TrimSpace(typed)
	case map[string]any:
		// WordPress wraps titles as {"rendered": "..."}.
		return getString(typed, "rendered")
	default:
		return ""
	}
}

func getInt64(src map[string]any, key string) int64 {
	if src == nil {
		return 0
	}
	return asInt64(src[key])
}

func asInt64(value any) int64 {
	switch typed := value.(type) {
	case float64:
		return int64(typed)
	case int:
		return int64(typed)
	case int64:
		return typed
	case string:
		v, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0
		}
		return v
	default:
		return 0
	}
}

// number coerces a payload stat to float64. Missing keys, nulls, empty or
// "null" strings and anything unparsable become zero.
func number(src map[string]any, key string) float64 {
	if src == nil {
		return 0
	}
	return asFloat64(src[key])
}

func asFloat64(value any) float64 {
	var out float64
	switch typed := value.(type) {
	case float64:
		out = typed
	case float32:
		out = float64(typed)
	case int:
		out = float64(typed)
	case int64:
		out = float64(typed)
	case string:
		text := strings.TrimSuffix(strings.TrimSpace(typed), "%")
		if text == "" || strings.EqualFold(text, "null") {
			return 0
		}
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0
		}
		out = parsed
	default:
		return 0
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if strings.TrimSpace(item) != "" {
			return strings.TrimSpace(item)
		}
	}
	return ""
}

func asMap(value any) map[string]any {
	obj, _ := value.(map[string]any)
	return obj
}
