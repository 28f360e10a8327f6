// Package types provides value types shared across domain packages.
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// MoneyScale is the number of fraction digits stored for unit costs.
const MoneyScale = 2

// NewMoneyFromString creates a Money value from a string.
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse money %q: %w", s, err)
	}
	return d, nil
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and seed data.
func MustMoney(s string) Money {
	d, err := NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// LineTotal returns unit * quantity rounded to MoneyScale.
func LineTotal(unit Money, quantity int64) Money {
	return unit.Mul(decimal.NewFromInt(quantity)).Round(MoneyScale)
}

// ValidMoney reports whether m is non-negative and has at most MoneyScale fraction digits.
func ValidMoney(m Money) bool {
	if m.IsNegative() {
		return false
	}
	return m.Equal(m.Round(MoneyScale))
}
