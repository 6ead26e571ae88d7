package models

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in tiyin, the 1/100 minor unit of the Uzbek so'm.
type Money int64

const minorUnitsExp = 2

// MaxMoney bounds every parsed amount and every computed total. Products of
// MaxMoney and a line quantity stay far inside int64.
const MaxMoney Money = 1_000_000_000_000_000

var (
	ErrNegativeMoney  = errors.New("amount must not be negative")
	ErrMoneyPrecision = errors.New("amount has more than two decimal places")
	ErrMoneyRange     = errors.New("amount is out of range")
)

// Soum converts a whole so'm amount into Money.
func Soum(amount int64) Money {
	return Money(amount * 100)
}

// ParseMoney parses a decimal so'm amount such as "12000" or "12000.50".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return moneyFromDecimal(d)
}

func moneyFromDecimal(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return 0, ErrNegativeMoney
	}
	minor := d.Shift(minorUnitsExp)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, ErrMoneyPrecision
	}
	if minor.GreaterThan(decimal.New(int64(MaxMoney), 0)) {
		return 0, ErrMoneyRange
	}
	return Money(minor.IntPart()), nil
}

// Times multiplies the amount by a line quantity.
func (m Money) Times(qty int) Money {
	return m * Money(qty)
}

// TimesChecked is Times for untrusted input, failing instead of exceeding MaxMoney.
func (m Money) TimesChecked(qty int) (Money, error) {
	if m < 0 || qty < 0 {
		return 0, ErrNegativeMoney
	}
	if m > MaxMoney || (qty > 0 && m > MaxMoney/Money(qty)) {
		return 0, ErrMoneyRange
	}
	return m * Money(qty), nil
}

// AddChecked sums two non-negative amounts, failing above MaxMoney.
func (m Money) AddChecked(other Money) (Money, error) {
	if m < 0 || other < 0 {
		return 0, ErrNegativeMoney
	}
	if m > MaxMoney-other {
		return 0, ErrMoneyRange
	}
	return m + other, nil
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -minorUnitsExp)
}

// String renders the so'm amount without trailing zeros, e.g. "10000" or "10000.5".
func (m Money) String() string {
	return m.Decimal().String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both a JSON number and a numeric string, the admin
// form sends prices as text.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		return nil
	}
	raw = bytes.Trim(raw, `"`)
	parsed, err := ParseMoney(string(bytes.TrimSpace(raw)))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
