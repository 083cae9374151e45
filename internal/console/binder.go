package console

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Setter writes one coerced form value into a draft.
type Setter[T any] func(draft *T, value any)

// Fields maps input names to their setters.
type Fields[T any] map[string]Setter[T]

// IsNumericField reports whether an input name follows the numeric naming
// convention: prices, quantity, threshold, order value and foreign keys.
func IsNumericField(name string) bool {
	switch {
	case strings.Contains(name, "price"):
		return true
	case name == "quantity", name == "threshold", name == "order_value":
		return true
	case strings.HasSuffix(name, "_id"):
		return true
	}
	return false
}

// Coerce converts a raw input value. Numeric fields become float64 (blank,
// malformed or non-finite input reads as 0); everything else stays a string.
func Coerce(name, raw string) any {
	if !IsNumericField(name) {
		return raw
	}
	return parseNumber(raw)
}

// parseNumber reads a finite decimal. Inf and NaN are malformed input.
func parseNumber(raw string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0
	}
	return n
}

// Text binds a string field.
func Text[T any](set func(*T, string)) Setter[T] {
	return func(draft *T, value any) {
		switch v := value.(type) {
		case string:
			set(draft, v)
		case nil:
			set(draft, "")
		default:
			set(draft, fmt.Sprint(v))
		}
	}
}

// Number binds a float field.
func Number[T any](set func(*T, float64)) Setter[T] {
	return func(draft *T, value any) {
		set(draft, asFloat(value))
	}
}

// Int binds an integer field, typically a foreign key. Values outside the
// int64 range read as 0.
func Int[T any](set func(*T, int64)) Setter[T] {
	return func(draft *T, value any) {
		n := math.Trunc(asFloat(value))
		if n < math.MinInt64 || n >= math.MaxInt64 {
			n = 0
		}
		set(draft, int64(n))
	}
}

// Bool binds a checkbox. Unchecked boxes are absent from a submitted form
// and therefore arrive as "".
func Bool[T any](set func(*T, bool)) Setter[T] {
	return func(draft *T, value any) {
		switch v := value.(type) {
		case bool:
			set(draft, v)
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "on", "true", "1", "yes":
				set(draft, true)
			default:
				set(draft, false)
			}
		default:
			set(draft, false)
		}
	}
}

func asFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return 0
		}
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		return parseNumber(v)
	}
	return 0
}

// names returns the field names in a stable order.
func (f Fields[T]) names() []string {
	out := make([]string, 0, len(f))
	for name := range f {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// bindValues applies every known field from a submitted form.
func (f Fields[T]) bindValues(draft *T, values url.Values) {
	for _, name := range f.names() {
		f[name](draft, Coerce(name, values.Get(name)))
	}
}
