package explain

import (
	"fmt"
	"math"
	"strconv"

	"github.com/kavach/whitebox/pkg/record"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency prefixes money values unless configured otherwise.
const DefaultCurrency = "₹"

// NotAvailable is rendered for values that are absent.
const NotAvailable = "N/A"

var printer = message.NewPrinter(language.English)

// Number is the tagged result of parsing a display value: either a
// float (OK) or the raw string to render as-is.
type Number struct {
	Value float64
	Raw   string
	OK    bool
}

// ParseNumber coerces v into a float, keeping its raw form when that
// is not possible.
func ParseNumber(v any) Number {
	if v == nil {
		return Number{Raw: NotAvailable}
	}
	raw := fmt.Sprint(v)
	f, ok := record.ToFloat(v)
	if !ok {
		return Number{Raw: raw}
	}
	return Number{Value: f, Raw: raw, OK: true}
}

// Money renders the value grouped by thousands with no decimals,
// prefixed with symbol.
func (n Number) Money(symbol string) string {
	if !n.OK {
		return n.Raw
	}
	return symbol + printer.Sprintf("%.0f", n.Value)
}

// Fixed renders the value with two decimals.
func (n Number) Fixed() string {
	if !n.OK {
		return n.Raw
	}
	return strconv.FormatFloat(n.Value, 'f', 2, 64)
}

// Display renders the value rounded to two decimals without trailing
// zeros.
func (n Number) Display() string {
	if !n.OK {
		return n.Raw
	}
	return strconv.FormatFloat(math.Round(n.Value*100)/100, 'f', -1, 64)
}
