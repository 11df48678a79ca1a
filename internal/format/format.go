// Package format holds the currency and date helpers shared by the ledger and
// every renderer (JSON, PDF, spreadsheet).
//
// Everything here is pure: no I/O, no globals beyond read-only tables.
package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const DefaultCurrency = "INR"

var symbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

var printer = message.NewPrinter(language.English)

// Amount renders d with two decimals and thousands grouping, e.g. 1,234.50.
// The digits come from the decimal itself, never from a float.
func Amount(d decimal.Decimal) string {
	rounded := d.Round(2)
	fixed := rounded.Abs().StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")
	s := groupDigits(whole) + "." + cents
	if rounded.IsNegative() {
		return "-" + s
	}
	return s
}

// groupDigits inserts thousands separators into a run of digits. Runs that
// fit an int64 go through the locale printer.
func groupDigits(whole string) string {
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		return printer.Sprintf("%d", n)
	}
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Currency renders d prefixed with the symbol of the ISO currency code.
// Unknown codes are written out in front of the amount.
func Currency(d decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}
	symbol, ok := symbols[code]
	if !ok {
		symbol = code + " "
	}
	amount := Amount(d.Abs())
	if d.Round(2).IsNegative() {
		return "-" + symbol + amount
	}
	return symbol + amount
}

// Date renders the calendar day of t as "Jan 02, 2006". The zero time
// renders as "-".
func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return CalendarDay(t).Format("Jan 02, 2006")
}

// ISODate renders the calendar day of t as 2006-01-02, or "" for the zero
// time.
func ISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return CalendarDay(t).Format("2006-01-02")
}

// CalendarDay returns the UTC date of t at midnight. Stored dates are UTC
// midnights, so a value read back in another location still lands on the day
// it was saved as.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of calendar days from `from` to `to`.
// It is negative when `to` is earlier.
func DaysBetween(from, to time.Time) int {
	return int(CalendarDay(to).Sub(CalendarDay(from)).Hours() / 24)
}

// Before reports whether a falls on an earlier calendar day than b.
func Before(a, b time.Time) bool {
	return CalendarDay(a).Before(CalendarDay(b))
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return CalendarDay(a).Equal(CalendarDay(b))
}

// ParseDate accepts 2006-01-02 and 02-01-2006, the two layouts uploads use.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Parse("02-01-2006", s)
}
