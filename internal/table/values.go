package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Cell values are dynamically typed: nil, int64, float64, bool, string, or
// time.Time. Decoders infer the narrowest type per cell; the schema layer
// decides whether a cell's type is acceptable for its column.

// InferValue parses a raw text cell into a typed value. Empty text becomes
// nil (missing). Integers narrow to int64; numbers with a fractional part or
// exponent stay float64.
func InferValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// AsInt64 returns the value as an int64. Float values convert only when they
// carry no fractional part.
func AsInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		if x == float64(int64(x)) {
			return int64(x), true
		}
	}
	return 0, false
}

// AsFloat64 returns the value as a float64, widening integers.
func AsFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	}
	return 0, false
}

// AsBool returns the value as a bool.
func AsBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// AsString returns the value as a string.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsTime returns the value as a time.Time.
func AsTime(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

// KeyFor renders a value as a canonical join key, so an int64 and an
// integral float64 holding the same number match.
func KeyFor(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return "s:" + x, true
	case bool:
		return "b:" + strconv.FormatBool(x), true
	default:
		if i, ok := AsInt64(v); ok {
			return "i:" + strconv.FormatInt(i, 10), true
		}
		if f, ok := AsFloat64(v); ok {
			return "f:" + strconv.FormatFloat(f, 'g', -1, 64), true
		}
	}
	return fmt.Sprintf("v:%v", v), true
}
