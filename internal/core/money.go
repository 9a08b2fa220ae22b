// Package core provides money parsing and handling utilities.
//
// Amounts are kept as integer minor units (satang, two decimals) and parsed
// with shopspring/decimal so that no float rounding leaks into totals.
package core

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DefaultCurrencySymbol is the Thai baht sign.
const DefaultCurrencySymbol = "฿"

// MaxAmount caps a single amount and a goal's saved total at ten billion
// baht. Sums of capped amounts stay far from int64 overflow.
var MaxAmount = Money{Cents: 1_000_000_000_000}

var maxCents = decimal.NewFromInt(MaxAmount.Cents)

// ParseAmount converts user input such as "25,000" or "12.50" into Money.
//
// Thousands separators (comma, underscore, space) and a leading currency
// sign are stripped. More than two decimals are rounded half-up. Negative,
// zero, malformed and above-MaxAmount amounts yield ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("450")      -> 45000 cents
//	ParseAmount("25,000")   -> 2500000 cents
//	ParseAmount("1.005")    -> 101 cents
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, DefaultCurrencySymbol)
	s = strings.NewReplacer(",", "", "_", "", " ", "").Replace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}

	dots := 0
	for _, r := range s {
		switch {
		case r == '.':
			dots++
		case r < '0' || r > '9':
			return Money{}, ErrInvalidAmount
		}
	}
	if dots > 1 || s == "." {
		return Money{}, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if !cents.IsPositive() || cents.GreaterThan(maxCents) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

func (m Money) IsZero() bool { return m.Cents == 0 }

// String renders the amount with the baht sign, e.g. "฿25,000".
func (m Money) String() string {
	return FormatMoney(m, DefaultCurrencySymbol)
}

// FormatMoney renders m with thousands separators. Whole amounts print
// without decimals ("฿2,300"); fractional ones keep two ("฿12.50").
func FormatMoney(m Money, symbol string) string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := symbol + humanize.Comma(cents/100)
	if rem := cents % 100; rem != 0 {
		s += "." + twoDigits(rem)
	}
	if neg {
		return "-" + s
	}
	return s
}

func twoDigits(n int64) string {
	const digits = "0123456789"
	return string([]byte{digits[n/10], digits[n%10]})
}
