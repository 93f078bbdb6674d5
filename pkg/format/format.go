// Package format holds the pure display helpers shared by the API views:
// dates, amounts and expiration urgency. Nothing here touches storage or session state.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"assetdeck/pkg/date"
)

// NotAvailable is returned by Date for an absent date.
const NotAvailable = "N/A"

var shortMonthsPtBR = [...]string{
	"jan.", "fev.", "mar.", "abr.", "mai.", "jun.",
	"jul.", "ago.", "set.", "out.", "nov.", "dez.",
}

// amounts are shown pt-BR style, without the currency symbol: 1.234,50
var amountFormatter = money.NewFormatter(2, ",", ".", "", "1")

// go-money counts cents in an int64
var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// Date formats d as a pt-BR short date, e.g. "1 de jan. de 2030".
func Date(d date.Date) string {
	if d.IsZero() {
		return NotAvailable
	}
	return fmt.Sprintf("%d de %s de %d", d.Day(), shortMonthsPtBR[d.Month()-1], d.Year())
}

// Currency formats amount with two fraction digits and pt-BR separators.
// The caller prepends its own symbol.
func Currency(amount float64) string {
	return Decimal(decimal.NewFromFloat(amount))
}

// Decimal is Currency for values already held as decimals (sums, totals).
func Decimal(amount decimal.Decimal) string {
	cents := amount.Round(2).Shift(2)
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return groupDigits(amount.StringFixed(2))
	}
	return amountFormatter.Format(cents.IntPart())
}

// groupDigits rewrites a plain "-1234567.50" as "-1.234.567,50".
func groupDigits(s string) string {
	sign := ""
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		sign, s = "-", rest
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i := 0; i < len(whole); i++ {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(whole[i])
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// DaysUntilExpiration returns the whole days between now's calendar day and d.
// Negative means d is already past. ok is false when d is the zero Date.
func DaysUntilExpiration(d date.Date, now time.Time) (days int, ok bool) {
	if d.IsZero() {
		return 0, false
	}
	return d.Sub(date.Of(now)), true
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Severity is the urgency tier of an expiration band.
type Severity string

const (
	SeverityNeutral          Severity = "neutral"
	SeverityCritical         Severity = "critical"
	SeverityCriticalEmphasis Severity = "critical-emphasis"
	SeverityHigh             Severity = "high"
	SeverityMedium           Severity = "medium"
	SeverityLow              Severity = "low"
)

// Urgent reports whether the tier asks for attention within a week.
func (s Severity) Urgent() bool {
	switch s {
	case SeverityCritical, SeverityCriticalEmphasis, SeverityHigh:
		return true
	}
	return false
}

// Expiration is the banded view of an expiration date.
type Expiration struct {
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
	Days     *int     `json:"days,omitempty"`
}

// ExpirationStatus bands d relative to now:
//
//	no date  -> "no expiration"       neutral
//	< 0      -> "expired N days ago"  critical
//	0        -> "expires today"       critical-emphasis
//	1..7     -> "expires in N days"   high
//	8..30    -> "expires in N days"   medium
//	> 30     -> "expires in N days"   low
func ExpirationStatus(d date.Date, now time.Time) Expiration {
	days, ok := DaysUntilExpiration(d, now)
	if !ok {
		return Expiration{Label: "no expiration", Severity: SeverityNeutral}
	}

	e := Expiration{Days: &days}
	switch {
	case days < 0:
		e.Label = fmt.Sprintf("expired %d days ago", -days)
		e.Severity = SeverityCritical
	case days == 0:
		e.Label = "expires today"
		e.Severity = SeverityCriticalEmphasis
	case days <= 7:
		e.Label = fmt.Sprintf("expires in %d days", days)
		e.Severity = SeverityHigh
	case days <= 30:
		e.Label = fmt.Sprintf("expires in %d days", days)
		e.Severity = SeverityMedium
	default:
		e.Label = fmt.Sprintf("expires in %d days", days)
		e.Severity = SeverityLow
	}
	return e
}
