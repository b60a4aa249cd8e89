package scalar

import (
	"fmt"
	"strconv"
	"strings"
)

// Currency is a money amount stored as whole cents. Documents never hold
// floating point: a dollars string is validated and converted on the way in.
type Currency struct {
	cents int64
}

// NewCurrency wraps an amount of cents.
func NewCurrency(cents int64) Currency {
	return Currency{cents: cents}
}

// Cents returns the stored amount.
func (c Currency) Cents() int64 {
	return c.cents
}

// DollarsString renders the amount as dollars with two decimal places and
// thousands separators, e.g. "1,234.56".
func (c Currency) DollarsString() string {
	dollars := c.cents / 100
	cents := c.cents % 100
	return fmt.Sprintf("%s.%02d", groupThousands(dollars), cents)
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// ParseCurrencyDollars validates and converts a raw dollars string to cents.
// The string must be a number, optionally with comma thousands separators in
// groups of three, and optionally with one decimal point followed by exactly
// two digits.
func ParseCurrencyDollars(raw string) (Currency, error) {
	dollars := raw
	cents := int64(0)

	if dot := strings.IndexByte(raw, '.'); dot >= 0 {
		dollars = raw[:dot]
		frac := raw[dot+1:]
		if len(frac) != 2 || !allDigits(frac) {
			return Currency{}, fmt.Errorf("currency must have exactly two decimal digits: %q", raw)
		}
		parsed, _ := strconv.ParseInt(frac, 10, 64)
		cents = parsed
	}

	if !validDollarGroups(dollars) {
		return Currency{}, fmt.Errorf("invalid currency amount: %q", raw)
	}

	whole, err := strconv.ParseInt(strings.ReplaceAll(dollars, ",", ""), 10, 64)
	if err != nil {
		return Currency{}, fmt.Errorf("invalid currency amount: %q", raw)
	}
	return Currency{cents: whole*100 + cents}, nil
}

// validDollarGroups accepts either plain digits or comma-grouped digits
// where the first group has 1-3 digits and every later group exactly 3.
func validDollarGroups(s string) bool {
	if s == "" {
		return false
	}
	if !strings.Contains(s, ",") {
		return allDigits(s)
	}
	groups := strings.Split(s, ",")
	if len(groups[0]) < 1 || len(groups[0]) > 3 || !allDigits(groups[0]) {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !allDigits(g) {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
