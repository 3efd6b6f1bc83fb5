package report

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

// FormatCents renders an amount in cents as a display currency string with
// grouping and two decimal places, e.g. 123450 -> "$1,234.50".
func FormatCents(cents int64) string {
	negative := cents < 0
	if negative {
		cents = -cents
	}
	out := moneyPrinter.Sprintf("$%d.%02d", cents/100, cents%100)
	if negative {
		return "-" + out
	}
	return out
}

// FormatAmount renders a nullable raw amount for template binding. A nil
// amount becomes the empty string so templates never see null.
func FormatAmount(amount *float64) string {
	if amount == nil {
		return ""
	}
	return FormatCents(toCents(*amount))
}

func toCents(v float64) int64 {
	if v < 0 {
		return -int64(-v*100 + 0.5)
	}
	return int64(v*100 + 0.5)
}

// ParseCents parses a display currency string back into cents, stripping the
// currency symbol and thousands separators. The empty string parses to zero.
// Anything else that fails to parse is a fatal aggregation error.
func ParseCents(display string) (int64, error) {
	trimmed := strings.TrimSpace(display)
	if trimmed == "" {
		return 0, nil
	}
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(trimmed)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, display)
	}
	return toCents(v), nil
}
