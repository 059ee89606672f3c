// Package money provides a fixed-point monetary amount.
//
// Amount is a value object backed by shopspring/decimal.
// Invariants:
//   - An Amount never carries more than Scale fractional digits.
//   - Arithmetic is exact: a.Sub(x).Add(x) always equals a.
package money

import (
	"database/sql/driver"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every Amount is kept at.
const Scale = 2

// MaxIntegerDigits is the number of integer digits a NUMERIC(19,2) column holds.
const MaxIntegerDigits = 17

// Amount represents a monetary value with exactly Scale fractional digits.
type Amount struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// New creates an Amount from a float. Floats carrying more than Scale
// fractional digits are rejected instead of rounded.
func New(f float64) (Amount, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Zero, ErrInvalidAmount
	}
	return FromDecimal(decimal.NewFromFloat(f))
}

// Parse creates an Amount from its decimal string form (e.g. "543.21").
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d)
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromDecimal validates the scale and magnitude of d and wraps it.
// Exponents are checked before any rescaling so that inputs such as
// "1e-10000000" are rejected without expanding their digits.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	if d.IsZero() {
		return Zero, nil
	}
	exp := int64(d.Exponent())
	digits := int64(d.NumDigits())
	if digits+exp > MaxIntegerDigits {
		return Zero, ErrOutOfRange
	}
	if excess := -Scale - exp; excess > 0 && excess >= digits {
		// A non-zero coefficient below 10^excess cannot end in excess zeros.
		return Zero, ErrInvalidScale
	}
	if !d.Round(Scale).Equal(d) {
		return Zero, ErrInvalidScale
	}
	return Amount{d: d}, nil
}

// Decimal returns the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal { return a.d }

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }

// Cmp compares a and b and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }

// LessThan reports whether a < b.
func (a Amount) LessThan(b Amount) bool { return a.d.LessThan(b.d) }

// Equal reports whether a and b represent the same value.
func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

// IsPositive reports whether a > 0.
func (a Amount) IsPositive() bool { return a.d.IsPositive() }

// IsNegative reports whether a < 0.
func (a Amount) IsNegative() bool { return a.d.IsNegative() }

// IsZero reports whether a == 0.
func (a Amount) IsZero() bool { return a.d.IsZero() }

// Float64 returns the nearest float64 value. Use only for display.
func (a Amount) Float64() float64 {
	f, _ := a.d.Float64()
	return f
}

// String returns the amount with exactly Scale fractional digits.
func (a Amount) String() string { return a.d.StringFixed(Scale) }

// MarshalJSON encodes the amount as a JSON number with Scale fractional digits.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, string(data))
	}
	v, err := FromDecimal(d)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	// Some drivers return float64 for NUMERIC columns.
	a.d = d.Round(Scale)
	return nil
}

// Value implements driver.Valuer.
func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}
