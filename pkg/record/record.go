package record

import (
	"fmt"
	"strconv"
	"strings"
)

// Domain identifies which model a record is audited against.
type Domain string

const (
	Finance Domain = "finance"
	Health  Domain = "health"
)

// Domains lists the supported domains in audit order.
var Domains = []Domain{Finance, Health}

// ParseDomain converts a case-insensitive name into a Domain.
func ParseDomain(s string) (Domain, error) {
	switch Domain(strings.ToLower(strings.TrimSpace(s))) {
	case Finance:
		return Finance, nil
	case Health:
		return Health, nil
	default:
		return "", fmt.Errorf("unknown domain %q, expected one of: finance, health", s)
	}
}

func (d Domain) String() string {
	return string(d)
}

// Record is a single named-field input row. Values are scalars:
// numbers, strings, bools or nil for missing.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// With returns a copy of the record with name set to v.
func (r Record) With(name string, v any) Record {
	c := r.Clone()
	c[name] = v
	return c
}

// Has reports whether the record carries a non-nil value for name.
func (r Record) Has(name string) bool {
	v, ok := r[name]
	return ok && v != nil
}

// Float returns the numeric value of name. Bools map to 1/0 and
// numeric strings are parsed. The second return is false when the
// field is missing or not numeric.
func (r Record) Float(name string) (float64, bool) {
	v, ok := r[name]
	if !ok || v == nil {
		return 0, false
	}
	return ToFloat(v)
}

// Text returns the string form of name, empty when missing.
func (r Record) Text(name string) string {
	v, ok := r[name]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// ToFloat coerces a scalar into a float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
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
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case fmt.Stringer:
		f, err := strconv.ParseFloat(strings.TrimSpace(n.String()), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
