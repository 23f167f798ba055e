package money_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"github.com/shopcanvas/storefront/internal/money"
)

func TestParse(t *testing.T) {
	m, err := money.Parse("19.99", "USD")
	require.NoError(t, err)
	require.Equal(t, "19.99", m.Display())
	require.Equal(t, "USD", m.Currency.String())

	_, err = money.Parse("not-a-number", "USD")
	require.ErrorContains(t, err, "not a valid decimal")

	_, err = money.Parse("1.00", "DOLLARS")
	require.ErrorContains(t, err, "not valid")
}

func TestArithmetic(t *testing.T) {
	m := money.New(decimal.RequireFromString("13.99"), currency.USD)

	require.Equal(t, "41.97", m.MulInt(3).Display())

	sum, err := m.Add(money.New(decimal.RequireFromString("0.01"), currency.USD))
	require.NoError(t, err)
	require.Equal(t, "14.00", sum.Display())

	_, err = m.Add(money.New(decimal.Zero, currency.EUR))
	require.ErrorContains(t, err, "currency mismatch")

	require.True(t, money.New(decimal.Zero, currency.USD).IsZero())
	require.True(t, money.New(decimal.RequireFromString("-1"), currency.USD).IsNegative())
}

func TestJSONRoundTrip(t *testing.T) {
	m := money.New(decimal.RequireFromString("59.99"), currency.EUR)

	b, err := json.Marshal(m)
	require.NoError(t, err)
	require.JSONEq(t, `{"amount":"59.99","currency":"EUR"}`, string(b))

	var got money.Money
	require.NoError(t, json.Unmarshal(b, &got))
	require.True(t, m.Amount.Equal(got.Amount))
	require.Equal(t, m.Currency.String(), got.Currency.String())
}
