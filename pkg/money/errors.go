package money

import "errors"

var (
	// ErrInvalidAmount is returned when a value cannot be read as an amount.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidScale is returned when a value has more fractional digits than Scale.
	ErrInvalidScale = errors.New("amount has more than 2 fractional digits")

	// ErrOutOfRange is returned when a value has more than MaxIntegerDigits integer digits.
	ErrOutOfRange = errors.New("amount out of range")
)
