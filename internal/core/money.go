package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyFromDecimal converts a signed decimal amount into a non-negative
// Money value, rounding to cents. The sign is discarded; direction is
// carried by TxType.
func MoneyFromDecimal(d decimal.Decimal) Money {
	cents := d.Abs().Round(2).Shift(2).IntPart()
	return Money{Cents: cents}
}

// ParseMoney parses a decimal string such as "12.50" into Money.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return MoneyFromDecimal(d), nil
}

// Decimal returns the amount as a decimal value in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}
