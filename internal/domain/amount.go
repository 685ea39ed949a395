package domain

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// Amount is a rupee value decoded permissively from JSON. Numbers and numeric
// strings are accepted; null, missing, negative and non-numeric values decode to 0.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	v, ok := parseLooseNumber(b)
	if !ok || v < 0 {
		*a = 0
		return nil
	}
	*a = Amount(v)
	return nil
}

func (a Amount) Float64() float64 {
	return float64(a)
}

// Count is a whole-number quantity decoded with the same permissive rules as Amount.
// Fractional values are truncated.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	v, ok := parseLooseNumber(b)
	if !ok || v < 0 || v > math.MaxInt32 {
		*c = 0
		return nil
	}
	*c = Count(math.Trunc(v))
	return nil
}

func parseLooseNumber(b []byte) (float64, bool) {
	raw := bytes.TrimSpace(b)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	s := string(raw)
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return 0, false
		}
		s = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
