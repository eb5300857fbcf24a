package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_ExactMatchesTransform(t *testing.T) {
	e, err := New([]string{"female", "male", "Unknown"})
	require.NoError(t, err)

	for _, c := range e.Classes() {
		want, err := e.Transform(c)
		require.NoError(t, err)
		r := Encode(e, c)
		assert.Equal(t, want, r.Code, c)
		assert.Equal(t, MatchExact, r.Match)
	}
}

func TestEncode_WhitespaceInsensitive(t *testing.T) {
	e, err := New([]string{"Graduate", " Not Graduate"})
	require.NoError(t, err)

	for _, c := range e.Classes() {
		padded := Encode(e, " "+c+" ")
		assert.Equal(t, Encode(e, c).Code, padded.Code, c)
		assert.NotEqual(t, MatchFallback, padded.Match)
	}

	r := Encode(e, "Not Graduate")
	assert.Equal(t, 1, r.Code)
	assert.Equal(t, MatchTrimmed, r.Match)
}

func TestEncode_UnseenFallsBackToFirst(t *testing.T) {
	e, err := New([]string{"Boston", "Chicago"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		value any
	}{
		{"unseen string", "Springfield"},
		{"empty", ""},
		{"missing", nil},
		{"number", 3.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Encode(e, tt.value)
			assert.Equal(t, 0, r.Code)
			assert.Equal(t, "Boston", r.Category)
			assert.Equal(t, MatchFallback, r.Match)
		})
	}
}

func TestEncode_MissingMatchesUnknownClass(t *testing.T) {
	e, err := New([]string{"NoDisease", "Unknown"})
	require.NoError(t, err)
	r := Encode(e, nil)
	assert.Equal(t, 1, r.Code)
	assert.Equal(t, MatchExact, r.Match)
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "True", Stringify(true))
	assert.Equal(t, "False", Stringify(false))
	assert.Equal(t, "1", Stringify(1))
	assert.Equal(t, "26.3", Stringify(26.3))
	assert.Equal(t, "2", Stringify(2.0))
	assert.Equal(t, Missing, Stringify(nil))
	assert.Equal(t, "x", Stringify("x"))
}

func TestMatch_String(t *testing.T) {
	assert.Equal(t, "exact", MatchExact.String())
	assert.Equal(t, "trimmed", MatchTrimmed.String())
	assert.Equal(t, "fallback", MatchFallback.String())
	assert.Equal(t, "match(9)", Match(9).String())
}
