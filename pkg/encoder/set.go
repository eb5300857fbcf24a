package encoder

import (
	"fmt"
	"sort"

	"github.com/kavach/whitebox/pkg/record"
)

// Warning reports a value that fell back to the first known category.
type Warning struct {
	Field    string `json:"field" yaml:"field"`
	Value    string `json:"value" yaml:"value"`
	Fallback string `json:"fallback" yaml:"fallback"`
}

func (w Warning) String() string {
	return fmt.Sprintf("unseen %s value %q encoded as %q", w.Field, w.Value, w.Fallback)
}

// Set holds one encoder per categorical field.
type Set map[string]*Encoder

// NewSet builds a set from field to ordered class lists.
func NewSet(classes map[string][]string) (Set, error) {
	s := make(Set, len(classes))
	for field, c := range classes {
		e, err := New(c)
		if err != nil {
			return nil, fmt.Errorf("encoder for %s: %w", field, err)
		}
		s[field] = e
	}
	return s, nil
}

// Fields returns the encoded field names, sorted.
func (s Set) Fields() []string {
	list := make([]string, 0, len(s))
	for f := range s {
		list = append(list, f)
	}
	sort.Strings(list)
	return list
}

// Apply returns a copy of rec with every field known to the set replaced
// by its code. Fields the record does not carry encode as Missing.
func (s Set) Apply(rec record.Record) (record.Record, []Warning) {
	out := rec.Clone()
	var warnings []Warning

	for _, field := range s.Fields() {
		v := rec[field]
		r := Encode(s[field], v)
		out[field] = r.Code
		if r.Match == MatchFallback {
			warnings = append(warnings, Warning{
				Field:    field,
				Value:    Stringify(v),
				Fallback: r.Category,
			})
		}
	}

	return out, warnings
}
