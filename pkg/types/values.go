package types

import "reflect"

// Numeric reports whether v is a numeric value in the JSON value domain
// and returns it as a float64. JSON decoding yields float64; values built
// in memory may carry Go integer types.
func Numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// Integral reports whether v is a Go integer value (not a float that
// happens to hold a whole number).
func Integral(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

// Equal compares two values from the JSON value domain. Numbers compare
// by value regardless of their Go type, so int(1) equals float64(1);
// everything else compares structurally.
func Equal(a, b any) bool {
	if an, ok := Numeric(a); ok {
		bn, ok := Numeric(b)
		return ok && an == bn
	}
	return reflect.DeepEqual(a, b)
}
