// Package format renders numbers, amounts and dates the way French-speaking users expect.
package format

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.French)

// Number groups the rounded value with the French thousands separator.
func Number(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// FCFA renders an amount in West African francs, e.g. "1 250 000 FCFA".
func FCFA(v float64) string {
	return Number(v) + " FCFA"
}

// Percent renders a ratio already expressed in percent with one decimal, e.g. "12.5%".
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Date renders t as DD/MM/YYYY.
func Date(t time.Time) string {
	return t.Format("02/01/2006")
}

// DateString parses an RFC3339 timestamp and renders it as DD/MM/YYYY.
// Unparseable input is returned unchanged.
func DateString(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return Date(t)
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
