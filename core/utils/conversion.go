package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AsInt converts a remote value to int.
// The second result is false when the value is nil or cannot be read as an integer.
func AsInt(val any) (int, bool) {
	switch v := val.(type) {
	case nil:
		return 0, false
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case uint:
		return int(v), true
	case uint64:
		return int(v), true
	case uint32:
		return int(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case float32:
		return AsInt(float64(v))
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), true
		}
		if f, err := v.Float64(); err == nil {
			return AsInt(f)
		}
		return 0, false
	case string:
		s := strings.TrimSpace(v)
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		// Lists configured with decimal columns send "3.0".
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return AsInt(f)
		}
		return 0, false
	default:
		return 0, false
	}
}

// AsString converts a remote value to string.
// Numbers and booleans are formatted; nil, maps and slices are reported as missing.
func AsString(val any) (string, bool) {
	switch v := val.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		return string(v), true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int, int64, int32, uint, uint64, uint32, bool:
		return fmt.Sprintf("%v", v), true
	default:
		return "", false
	}
}

// AsBool converts a remote value to bool.
// It accepts bool, 0/1 numbers and the strings "true", "false", "1", "0", "sim" and "nao".
func AsBool(val any) (bool, bool) {
	switch v := val.(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "sim", "yes":
			return true, true
		case "false", "0", "nao", "não", "no":
			return false, true
		}
		return false, false
	default:
		if i, ok := AsInt(v); ok {
			return i != 0, true
		}
		return false, false
	}
}

// ToString converts any value to string, returning "" for missing values.
func ToString(val any) string {
	s, _ := AsString(val)
	return s
}
