package shared

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyArithmetic(t *testing.T) {
	price := MustParseMoney("19.99")
	if got := price.Times(3).String(); got != "59.97" {
		t.Errorf("19.99 x 3 = %s, want 59.97", got)
	}
	fee := MustParseMoney("100.00").MulRate(decimal.RequireFromString("0.10")).Round()
	if got := fee.String(); got != "10.00" {
		t.Errorf("fee = %s, want 10.00", got)
	}
	if got := MustParseMoney("0.125").Round().String(); got != "0.13" {
		t.Errorf("half-up rounding = %s, want 0.13", got)
	}

	// 0.1 added ten times must be exactly 1.00
	sum := ZeroMoney()
	for i := 0; i < 10; i++ {
		sum = sum.Add(MustParseMoney("0.1"))
	}
	if !sum.Equals(MoneyFromCents(100)) {
		t.Errorf("sum = %s, want 1.00", sum)
	}
}

func TestMoneySplitEven(t *testing.T) {
	tests := []struct {
		total string
		n     int
		want  []string
	}{
		{"30.00", 2, []string{"15.00", "15.00"}},
		{"10.00", 3, []string{"3.34", "3.33", "3.33"}},
		{"0.05", 4, []string{"0.02", "0.01", "0.01", "0.01"}},
		{"0.00", 2, []string{"0.00", "0.00"}},
	}
	for _, tt := range tests {
		t.Run(tt.total, func(t *testing.T) {
			total := MustParseMoney(tt.total)
			shares := total.SplitEven(tt.n)
			if len(shares) != tt.n {
				t.Fatalf("got %d shares, want %d", len(shares), tt.n)
			}
			for i, s := range shares {
				if s.String() != tt.want[i] {
					t.Errorf("share[%d] = %s, want %s", i, s, tt.want[i])
				}
			}
			if !SumMoney(shares...).Equals(total) {
				t.Errorf("shares sum to %s, want %s", SumMoney(shares...), total)
			}
		})
	}
	if MustParseMoney("1.00").SplitEven(0) != nil {
		t.Error("split into zero shares should be nil")
	}
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Total Money `json:"total"`
	}{Total: MustParseMoney("195")})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"total":"195.00"}` {
		t.Errorf("json = %s", data)
	}

	var in struct {
		Amount Money `json:"amount"`
	}
	if err := json.Unmarshal([]byte(`{"amount":12.5}`), &in); err != nil {
		t.Fatal(err)
	}
	if in.Amount.String() != "12.50" {
		t.Errorf("amount = %s, want 12.50", in.Amount)
	}
}

func TestDomainErrorUnwrapAndStack(t *testing.T) {
	errOutOfStock := errors.New("insufficient stock")
	err := NewDomainError(errOutOfStock, "product", "only 2 left").WithDetail("available", 2)

	if !errors.Is(err, errOutOfStock) {
		t.Error("errors.Is should match the wrapped sentinel")
	}
	var de *DomainError
	if !errors.As(error(err), &de) || de.Details["available"] != 2 {
		t.Errorf("details not preserved: %+v", de)
	}
	if len(err.Stack()) == 0 {
		t.Error("stack should be captured at construction")
	}

	if !errors.Is(NewNotFoundError("order", "o1"), ErrNotFound) {
		t.Error("NewNotFoundError should wrap ErrNotFound")
	}
}
