package domain

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Input is a decoded request body keyed by JSON field name.
type Input map[string]any

// Has reports whether key is present with a non-null value.
func (in Input) Has(key string) bool {
	v, ok := in[key]
	return ok && v != nil
}

// String returns the string value at key, or "" when absent or not a string.
func (in Input) String(key string) string {
	s, _ := in[key].(string)
	return s
}

// Decimal returns the numeric value at key. JSON numbers and numeric strings
// are accepted.
func (in Input) Decimal(key string) (decimal.Decimal, bool) {
	switch v := in[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(v), true
	case float32:
		return decimal.NewFromFloat32(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case decimal.Decimal:
		return v, true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

// Int returns the integral value at key. Fractional numbers are rejected.
func (in Input) Int(key string) (int, bool) {
	d, ok := in.Decimal(key)
	if !ok || !d.IsInteger() {
		return 0, false
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) || d.LessThan(decimal.NewFromInt(math.MinInt32)) {
		return 0, false
	}
	return int(d.IntPart()), true
}

// Clone returns a shallow copy of in.
func (in Input) Clone() Input {
	out := make(Input, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
