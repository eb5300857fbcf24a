package record

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaBaseURL = "https://whitebox.kavach.dev/schema/"

var (
	//go:embed schema/*.json
	schemaFS embed.FS

	quotedRegEx = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)
)

// Validator checks records against the embedded per-domain JSON schemas.
type Validator struct {
	schemas map[Domain]*jsonschema.Schema
}

// NewValidator compiles the input schemas of all domains.
func NewValidator() (*Validator, error) {
	c := jsonschema.NewCompiler()
	v := &Validator{schemas: make(map[Domain]*jsonschema.Schema, len(Domains))}

	for _, d := range Domains {
		b, err := schemaFS.ReadFile("schema/" + d.String() + ".json")
		if err != nil {
			return nil, fmt.Errorf("reading %s schema: %w", d, err)
		}
		url := schemaBaseURL + d.String() + ".json"
		if err := c.AddResource(url, bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("adding %s schema: %w", d, err)
		}
		s, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compiling %s schema: %w", d, err)
		}
		v.schemas[d] = s
	}

	return v, nil
}

// Validate returns a *SchemaError naming the first offending field when
// the record does not fit the domain schema.
func (v *Validator) Validate(d Domain, r Record) error {
	s, ok := v.schemas[d]
	if !ok {
		return NewSchemaError(d, "", "no schema for domain")
	}

	err := s.Validate(normalize(r))
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validating %s record: %w", d, err)
	}

	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}

	field := strings.TrimPrefix(ve.InstanceLocation, "/")
	if field == "" {
		field = quotedField(ve.Message)
	}

	return NewSchemaError(d, field, ve.Message)
}

// quotedField returns the first single or double quoted name in msg.
func quotedField(msg string) string {
	m := quotedRegEx.FindStringSubmatch(msg)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

// normalize converts record values into the plain JSON types the
// schema validator understands.
func normalize(r Record) map[string]any {
	m := make(map[string]any, len(r))
	for k, v := range r {
		switch t := v.(type) {
		case nil, string, bool, float64:
			m[k] = t
		default:
			if f, ok := ToFloat(t); ok {
				m[k] = f
				continue
			}
			m[k] = fmt.Sprint(t)
		}
	}
	return m
}
