package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	n := ParseNumber(250000)
	assert.True(t, n.OK)
	assert.Equal(t, 250000.0, n.Value)

	n = ParseNumber("Graduate")
	assert.False(t, n.OK)
	assert.Equal(t, "Graduate", n.Raw)

	n = ParseNumber(nil)
	assert.False(t, n.OK)
	assert.Equal(t, NotAvailable, n.Raw)

	n = ParseNumber("12.5")
	assert.True(t, n.OK)
}

func TestNumber_Money(t *testing.T) {
	tests := []struct {
		in   any
		sym  string
		want string
	}{
		{250000.0, "$", "$250,000"},
		{850000, "₹", "₹850,000"},
		{1550000.4, "₹", "₹1,550,000"},
		{999, "$", "$999"},
		{"lots", "$", "lots"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseNumber(tt.in).Money(tt.sym))
	}
}

func TestNumber_Fixed(t *testing.T) {
	assert.Equal(t, "0.29", ParseNumber(250000.0/850001.0).Fixed())
	assert.Equal(t, "6.20", ParseNumber(1550000.0/250001.0).Fixed())
	assert.Equal(t, "x", ParseNumber("x").Fixed())
}

func TestNumber_Display(t *testing.T) {
	assert.Equal(t, "760", ParseNumber(760).Display())
	assert.Equal(t, "26.3", ParseNumber(26.3).Display())
	assert.Equal(t, "0.33", ParseNumber(1.0/3).Display())
	assert.Equal(t, "Boston", ParseNumber("Boston").Display())
	assert.Equal(t, NotAvailable, ParseNumber(nil).Display())
}
