package encoder

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnseenCategory is returned by the strict Transform when a value
// was not part of the training-time categories.
var ErrUnseenCategory = errors.New("unseen category")

// Encoder maps known categories to dense integer codes. The code of a
// category is its position in the class list.
type Encoder struct {
	classes []string
	index   map[string]int
	trimmed map[string]int
}

// New creates an encoder over the ordered class list.
func New(classes []string) (*Encoder, error) {
	if len(classes) == 0 {
		return nil, errors.New("encoder requires at least one class")
	}

	e := &Encoder{
		classes: make([]string, len(classes)),
		index:   make(map[string]int, len(classes)),
		trimmed: make(map[string]int, len(classes)),
	}
	copy(e.classes, classes)

	for i, c := range classes {
		if _, ok := e.index[c]; ok {
			return nil, fmt.Errorf("duplicate class %q", c)
		}
		e.index[c] = i
		t := strings.TrimSpace(c)
		if _, ok := e.trimmed[t]; !ok {
			e.trimmed[t] = i
		}
	}

	return e, nil
}

// Classes returns a copy of the known categories in code order.
func (e *Encoder) Classes() []string {
	c := make([]string, len(e.classes))
	copy(c, e.classes)
	return c
}

// Len returns the number of known categories.
func (e *Encoder) Len() int {
	return len(e.classes)
}

// Transform returns the code of an exactly matching category.
func (e *Encoder) Transform(category string) (int, error) {
	i, ok := e.index[category]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnseenCategory, category)
	}
	return i, nil
}

// Inverse returns the category for code.
func (e *Encoder) Inverse(code int) (string, error) {
	if code < 0 || code >= len(e.classes) {
		return "", fmt.Errorf("code %d out of range [0, %d)", code, len(e.classes))
	}
	return e.classes[code], nil
}
