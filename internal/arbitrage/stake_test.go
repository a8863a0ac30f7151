package arbitrage

import (
	"testing"

	"github.com/shopspring/decimal"

	"college-betting-ev/internal/models"
)

func TestAllocate(t *testing.T) {
	arb := GameMoneylineArbitrage(game("g1", "Home", "Away",
		mlBook("book1", models.MoneylineOdds{Team: "Home", Price: 120}),
		mlBook("book2", models.MoneylineOdds{Team: "Away", Price: 125}),
	), DefaultConfig())
	if arb == nil {
		t.Fatal("expected arb")
	}

	bankroll := decimal.NewFromInt(1000)
	alloc := arb.Allocate(bankroll)

	if !alloc.Stake1.Equal(decimal.RequireFromString("505.62")) {
		t.Errorf("Stake1 = %s, want 505.62", alloc.Stake1)
	}
	if !alloc.Stake1.Add(alloc.Stake2).Equal(bankroll) {
		t.Errorf("stakes %s + %s != %s", alloc.Stake1, alloc.Stake2, bankroll)
	}
	if !alloc.Return1.Equal(decimal.RequireFromString("1112.36")) {
		t.Errorf("Return1 = %s, want 1112.36", alloc.Return1)
	}
	if !alloc.GuaranteedProfit.IsPositive() {
		t.Errorf("GuaranteedProfit = %s, want positive", alloc.GuaranteedProfit)
	}
}

func TestGuaranteedReturn(t *testing.T) {
	tests := []struct {
		stake    string
		price    int
		expected string
	}{
		{"100", 150, "250"},
		{"150", -150, "250"},
		{"110", -110, "210"},
		{"33.33", 200, "99.99"},
	}

	for _, tt := range tests {
		got := GuaranteedReturn(decimal.RequireFromString(tt.stake), tt.price)
		if !got.Equal(decimal.RequireFromString(tt.expected)) {
			t.Errorf("GuaranteedReturn(%s, %d) = %s, want %s", tt.stake, tt.price, got, tt.expected)
		}
	}
}
