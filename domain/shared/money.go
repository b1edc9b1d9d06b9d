package shared

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency every amount in the marketplace is expressed in
const Currency = "BRL"

// Money value object - a non-floating decimal amount in Currency
// Arithmetic keeps full precision; Round is applied when an amount is stored or shown.
type Money struct {
	amount decimal.Decimal
}

// NewMoney wraps a decimal amount
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// MoneyFromCents builds an amount from integer minor units
func MoneyFromCents(cents int64) Money {
	return Money{amount: decimal.New(cents, -2)}
}

// ParseMoney parses a decimal string such as "12.50"
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	return Money{amount: d}, nil
}

// MustParseMoney is ParseMoney for constants and tests
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns 0.00
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return Currency }

// Cents returns the amount rounded to minor units
func (m Money) Cents() int64 {
	return m.amount.Round(2).Shift(2).IntPart()
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Times multiplies by a quantity
func (m Money) Times(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}
}

// MulRate multiplies by a rate such as a fee percentage or a discount factor
func (m Money) MulRate(rate decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(rate)}
}

// Round rounds half-up to cents
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(2)}
}

// SplitEven divides the amount into n shares that sum exactly to the rounded amount.
// Leftover cents go to the first shares.
func (m Money) SplitEven(n int) []Money {
	if n <= 0 {
		return nil
	}
	cents := m.Cents()
	base := cents / int64(n)
	remainder := cents % int64(n)

	shares := make([]Money, n)
	for i := range shares {
		c := base
		if int64(i) < remainder {
			c++
		}
		shares[i] = MoneyFromCents(c)
	}
	return shares
}

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// Equals compares amounts at cent precision
func (m Money) Equals(other Money) bool {
	return m.Cents() == other.Cents()
}

func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// String renders the amount with exactly two decimals
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON encodes the amount as a fixed two-decimal string
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts both "12.50" and 12.5
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	m.amount = d
	return nil
}

// SumMoney adds a list of amounts
func SumMoney(amounts ...Money) Money {
	total := ZeroMoney()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
