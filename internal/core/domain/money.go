package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/general_ledger/internal/apperrors"
)

// DefaultCurrencyScale is the number of fractional digits used when no
// currency-specific scale has been configured.
const DefaultCurrencyScale int32 = 2

// Bounds on amounts accepted from callers. Decimal arithmetic aligns
// exponents, so an unbounded exponent makes a single sum unbounded in cost.
const (
	MaxFractionDigits    = 18
	MaxSignificantDigits = 30
)

// Money is an exact decimal amount. Arithmetic never rounds; rounding is
// applied only when a value leaves the system via Round or StringFixed.
//
// Rounding mode is round half away from zero (1.005 -> 1.01, -1.005 -> -1.01).
type Money struct {
	d decimal.Decimal
}

// ZeroMoney is the additive identity.
var ZeroMoney = Money{d: decimal.Zero}

// NewMoneyFromString parses a decimal string such as "100.00" or "-3.5".
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: invalid monetary amount %q: %v", apperrors.ErrValidation, s, err)
	}
	if err := checkBounds(d); err != nil {
		return Money{}, err
	}
	return Money{d: d}, nil
}

// checkBounds rejects amounts with more than MaxFractionDigits fractional
// digits or more than MaxSignificantDigits digits in total.
func checkBounds(d decimal.Decimal) error {
	exp := d.Exponent()
	if exp < -MaxFractionDigits {
		return fmt.Errorf("%w: monetary amount has more than %d fractional digits", apperrors.ErrValidation, MaxFractionDigits)
	}
	digits := int64(d.NumDigits())
	if exp > 0 {
		digits += int64(exp)
	}
	if digits > MaxSignificantDigits {
		return fmt.Errorf("%w: monetary amount has more than %d digits", apperrors.ErrValidation, MaxSignificantDigits)
	}
	return nil
}

// MustMoney is NewMoneyFromString for constants and tests. It panics on bad input.
func MustMoney(s string) Money {
	m, err := NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// NewMoneyFromMinorUnits builds an amount from an integer count of minor units,
// e.g. (12345, 2) -> 123.45.
func NewMoneyFromMinorUnits(units int64, scale int32) Money {
	return Money{d: decimal.New(units, -scale)}
}

// NewMoneyFromInt builds a whole-unit amount.
func NewMoneyFromInt(v int64) Money {
	return Money{d: decimal.NewFromInt(v)}
}

// NewMoneyFromDecimal adopts an existing decimal.
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d: d}
}

func (m Money) Decimal() decimal.Decimal { return m.d }

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }

func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }

// Neg flips the sign for presentation. Line amounts are always stored as
// positive magnitudes and must not be negated.
func (m Money) Neg() Money { return Money{d: m.d.Neg()} }

// Cmp returns -1, 0 or +1 comparing at full precision.
func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }

func (m Money) Equal(o Money) bool       { return m.d.Equal(o.d) }
func (m Money) LessThan(o Money) bool    { return m.d.LessThan(o.d) }
func (m Money) GreaterThan(o Money) bool { return m.d.GreaterThan(o.d) }
func (m Money) IsPositive() bool         { return m.d.IsPositive() }
func (m Money) IsZero() bool             { return m.d.IsZero() }

// Round rounds half away from zero to the given number of fractional digits.
func (m Money) Round(scale int32) Money {
	return Money{d: m.d.Round(scale)}
}

// StringFixed renders the amount rounded half away from zero with exactly
// scale fractional digits.
func (m Money) StringFixed(scale int32) string {
	return m.d.StringFixed(scale)
}

// MinorUnits returns the rounded amount as an integer count of minor units.
func (m Money) MinorUnits(scale int32) int64 {
	return m.d.Round(scale).Shift(scale).IntPart()
}

func (m Money) String() string { return m.d.String() }

// MarshalJSON encodes the full-precision amount as a JSON string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.d.String())
}

// UnmarshalJSON accepts either a JSON string or a JSON number within the
// digit bounds.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if err := checkBounds(d); err != nil {
		return err
	}
	m.d = d
	return nil
}

// Scan implements sql.Scanner.
func (m *Money) Scan(value any) error {
	return m.d.Scan(value)
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.d.Value()
}

// SumMoney adds amounts without intermediate rounding.
func SumMoney(amounts ...Money) Money {
	total := ZeroMoney
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
