package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney_BlankCurrency(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(10), "")
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))

	_, err = NewMoney(decimal.NewFromInt(10), "   ")
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}

func TestMoney_AddSubtractRoundTrip(t *testing.T) {
	a := MXN(150.50)
	b := MXN(49.50)

	sum, err := a.Add(b)
	require.NoError(t, err)

	back, err := sum.Subtract(b)
	require.NoError(t, err)
	assert.True(t, back.Equal(a), "a.Add(b).Subtract(b) should equal a")
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	mxn := MXN(100)
	usd, err := NewMoney(decimal.NewFromInt(100), "USD")
	require.NoError(t, err)

	_, err = mxn.Add(usd)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))

	_, err = mxn.Subtract(usd)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))

	_, err = mxn.SubtractStrict(usd)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}

func TestMoney_SubtractAllowsNegative(t *testing.T) {
	result, err := MXN(10).Subtract(MXN(25))
	require.NoError(t, err)
	assert.True(t, result.Amount.IsNegative())
	assert.Equal(t, "MXN", result.Currency)
}

func TestMoney_SubtractStrictRejectsNegative(t *testing.T) {
	_, err := MXN(10).SubtractStrict(MXN(25))
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))

	// Zero is an allowed result
	result, err := MXN(10).SubtractStrict(MXN(10))
	require.NoError(t, err)
	assert.True(t, result.IsZero())
}

func TestMoney_Multiply(t *testing.T) {
	price := MXN(99.99)

	zero, err := price.Multiply(0)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
	assert.Equal(t, "MXN", zero.Currency)

	triple, err := price.Multiply(3)
	require.NoError(t, err)
	assert.True(t, triple.Equal(MXN(299.97)))

	_, err = price.Multiply(-1)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}

func TestMoney_Comparison(t *testing.T) {
	a := MXN(10)
	b := MXN(20)

	less, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, less)

	usd, err := NewMoney(decimal.NewFromInt(5), "USD")
	require.NoError(t, err)
	_, err = a.LessThan(usd)
	require.Error(t, err)

	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(usd))
	assert.True(t, a.Equal(MXN(10)))
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "42.5 MXN", MXN(42.5).String())
}
