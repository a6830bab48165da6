// Package core provides money parsing and handling utilities.
//
// Amounts are exact decimals kept at two fractional digits. Parsing accepts
// both dot and comma separators so values typed on any keyboard layout work.
package core

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits every stored amount keeps.
const Places = 2

// Money is a non-currency-bound decimal amount rounded to Places.
type Money struct {
	value decimal.Decimal
}

// NewMoney rounds d half away from zero to two places.
func NewMoney(d decimal.Decimal) Money {
	return Money{value: d.Round(Places)}
}

// MustMoney parses s and panics on failure. Intended for tests and constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return NewMoney(d)
}

// Convert returns round(m * rate, 2).
func (m Money) Convert(rate decimal.Decimal) Money {
	return NewMoney(m.value.Mul(rate))
}

func (m Money) Add(n Money) Money            { return Money{value: m.value.Add(n.value)} }
func (m Money) Equal(n Money) bool           { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                 { return m.value.IsZero() }
func (m Money) IsNegative() bool             { return m.value.IsNegative() }
func (m Money) Decimal() decimal.Decimal     { return m.value }
func (m Money) String() string               { return m.value.StringFixed(Places) }
func (m Money) MarshalJSON() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalJSON accepts numbers and quoted numbers; legacy files hold floats
// such as 4.5.
func (m *Money) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*m = Money{}
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, data)
	}
	*m = NewMoney(d)
	return nil
}

// Format renders m in the given ISO currency using its symbol and
// separators, e.g. "$4.50". Unknown codes, and amounts whose minor units do
// not fit in an int64, fall back to "4.50 XYZ".
func (m Money) Format(code string) string {
	cur := money.GetCurrency(strings.ToUpper(strings.TrimSpace(code)))
	if cur == nil {
		return strings.TrimSpace(m.String() + " " + code)
	}
	minor := m.value.Shift(int32(cur.Fraction)).Round(0)
	if !minor.BigInt().IsInt64() {
		return strings.TrimSpace(m.String() + " " + code)
	}
	return cur.Formatter().Format(minor.IntPart())
}

// ParseAmount converts a user supplied decimal string into Money.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half away from zero on the third decimal place. Zero is accepted, negative
// values and anything that is not a plain decimal are rejected.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,345") -> 12.35, nil
//	ParseAmount("-1") -> error
func ParseAmount(s string) (Money, error) {
	d, err := parsePlainDecimal(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return Money{}, fmt.Errorf("%w: amount cannot be negative", ErrInvalidAmount)
	}
	return NewMoney(d), nil
}

// ParseRate parses a conversion rate. Rates must be strictly positive and are
// kept at full precision.
func ParseRate(s string) (decimal.Decimal, error) {
	d, err := parsePlainDecimal(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: rate must be greater than zero", ErrInvalidRate)
	}
	return d, nil
}

func parsePlainDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty value")
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	// decimal.NewFromString also takes exponents; a ledger amount never does.
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, fmt.Errorf("exponent not allowed")
	}
	return decimal.NewFromString(s)
}
