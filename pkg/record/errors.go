package record

import (
	"errors"
	"fmt"
)

// ErrSchemaMismatch is the sentinel for records that do not fit the
// domain input schema.
var ErrSchemaMismatch = errors.New("schema mismatch")

// SchemaError names the field a record failed on.
type SchemaError struct {
	Domain Domain
	Field  string
	Reason string
}

// NewSchemaError creates a schema error for field.
func NewSchemaError(d Domain, field, reason string) *SchemaError {
	return &SchemaError{Domain: d, Field: field, Reason: reason}
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s record: %s", e.Domain, e.Reason)
	}
	return fmt.Sprintf("%s record field %q: %s", e.Domain, e.Field, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}
