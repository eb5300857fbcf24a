package encoder

import (
	"fmt"
	"strconv"
	"strings"
)

// Missing is the category used for absent values.
const Missing = "Unknown"

// Match describes which rule resolved a value.
type Match int

const (
	MatchExact Match = iota
	MatchTrimmed
	MatchFallback
)

func (m Match) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchTrimmed:
		return "trimmed"
	case MatchFallback:
		return "fallback"
	default:
		return fmt.Sprintf("match(%d)", int(m))
	}
}

// Result is the outcome of encoding one value.
type Result struct {
	Code     int
	Category string
	Match    Match
}

// Encode maps value to a code of enc. It never fails: values that match
// no known category resolve to the first category with MatchFallback.
func Encode(enc *Encoder, value any) Result {
	s := Stringify(value)

	code, match := 0, MatchFallback
	if i, err := enc.Transform(s); err == nil {
		code, match = i, MatchExact
	} else if i, ok := enc.trimmed[strings.TrimSpace(s)]; ok {
		code, match = i, MatchTrimmed
	}

	category, _ := enc.Inverse(code)
	return Result{Code: code, Category: category, Match: match}
}

// Stringify renders a scalar the way category labels were written at
// training time.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return Missing
	case string:
		return v
	case bool:
		if v {
			return "True"
		}
		return "False"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
