package money

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money is an exact decimal amount in a single currency. Unit prices are
// currency-agnostic from the cart's point of view; the store decides the
// currency of everything it sells.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func New(amount decimal.Decimal, cur currency.Unit) Money {
	return Money{Amount: amount, Currency: cur}
}

// Parse builds Money from wire representations, e.g. ("19.99", "USD").
func Parse(amount, code string) (Money, error) {
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("amount[%s] is not a valid decimal: %w", amount, err)
	}
	cur, err := currency.ParseISO(code)
	if err != nil {
		return Money{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}
	return Money{Amount: a, Currency: cur}, nil
}

func (m Money) IsZero() bool     { return m.Amount.IsZero() }
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }

// MulInt scales the amount by an integer quantity.
func (m Money) MulInt(qty int) Money {
	return Money{
		Amount:   m.Amount.Mul(decimal.NewFromInt(int64(qty))),
		Currency: m.Currency,
	}
}

func (m Money) Add(o Money) (Money, error) {
	if m.Currency.String() != o.Currency.String() {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, o.Currency)
	}
	return Money{Amount: m.Amount.Add(o.Amount), Currency: m.Currency}, nil
}

// Display rounds to two decimal places, the precision shown to shoppers
// and persisted on order headers.
func (m Money) Display() string {
	return m.Amount.Round(2).StringFixed(2)
}

func (m Money) String() string {
	return m.Display() + " " + m.Currency.String()
}

type moneyJSON struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.Amount.String(), Currency: m.Currency.String()})
}

func (m *Money) UnmarshalJSON(b []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := Parse(raw.Amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
