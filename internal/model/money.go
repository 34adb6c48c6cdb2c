package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency used when none is configured.
const DefaultCurrency = "MXN"

// Money is an immutable monetary amount tagged with its currency code.
// Arithmetic requires both operands to share a currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount" db:"amount"`
	Currency string          `json:"currency" db:"currency"`
}

// NewMoney creates a Money value. The currency must be non-blank.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if strings.TrimSpace(currency) == "" {
		return Money{}, InvalidArgument("currency must not be blank")
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// MXN creates a Money value in Mexican pesos.
func MXN(amount float64) Money {
	return Money{Amount: decimal.NewFromFloat(amount), Currency: DefaultCurrency}
}

// Zero creates a zero amount in the given currency.
func Zero(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// Add returns the sum of m and other.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Subtract returns m minus other. The result may be negative; running totals
// in the cart and catalog contexts legitimately pass through zero.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// SubtractStrict returns m minus other and rejects a negative result. Order
// totals use this: a discount exceeding the subtotal is a business-rule
// violation, not an arithmetic one.
func (m Money) SubtractStrict(other Money) (Money, error) {
	result, err := m.Subtract(other)
	if err != nil {
		return Money{}, err
	}
	if result.Amount.IsNegative() {
		return Money{}, InvalidArgument("subtraction result must not be negative")
	}
	return result, nil
}

// Multiply returns m scaled by a non-negative integer factor.
func (m Money) Multiply(factor int) (Money, error) {
	if factor < 0 {
		return Money{}, InvalidArgument("multiplication factor must not be negative")
	}
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(factor))), Currency: m.Currency}, nil
}

// Equal reports whether m and other have the same amount and currency.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// LessThan reports whether m is strictly less than other. Both values must
// share a currency.
func (m Money) LessThan(other Money) (bool, error) {
	if err := m.sameCurrency(other); err != nil {
		return false, err
	}
	return m.Amount.LessThan(other.Amount), nil
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

func (m Money) String() string {
	return m.Amount.String() + " " + m.Currency
}

func (m Money) sameCurrency(other Money) error {
	if m.Currency != other.Currency {
		return InvalidArgument(fmt.Sprintf("currency mismatch: %s vs %s", m.Currency, other.Currency))
	}
	return nil
}
