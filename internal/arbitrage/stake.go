package arbitrage

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Allocation splits a bankroll across the two legs of an arb in currency,
// rounded to cents. Leg two absorbs the rounding remainder so the stakes
// always sum to the bankroll.
type Allocation struct {
	Stake1           decimal.Decimal
	Stake2           decimal.Decimal
	Return1          decimal.Decimal // Total returned if leg one wins, stake included
	Return2          decimal.Decimal
	GuaranteedProfit decimal.Decimal // Worst-case return minus bankroll
}

// GuaranteedReturn is the total paid back on a winning stake at price,
// stake included, rounded to cents.
func GuaranteedReturn(stake decimal.Decimal, price int) decimal.Decimal {
	p := decimal.NewFromInt(int64(price))
	var profit decimal.Decimal
	if price > 0 {
		profit = stake.Mul(p).Div(hundred)
	} else {
		profit = stake.Mul(hundred).Div(p.Abs())
	}
	return stake.Add(profit).Round(2)
}

// Allocate splits bankroll with stake1Pct percent on the leg priced price1.
func Allocate(bankroll decimal.Decimal, stake1Pct float64, price1, price2 int) Allocation {
	stake1 := bankroll.Mul(decimal.NewFromFloat(stake1Pct)).Div(hundred).Round(2)
	stake2 := bankroll.Sub(stake1)

	ret1 := GuaranteedReturn(stake1, price1)
	ret2 := GuaranteedReturn(stake2, price2)

	return Allocation{
		Stake1:           stake1,
		Stake2:           stake2,
		Return1:          ret1,
		Return2:          ret2,
		GuaranteedProfit: decimal.Min(ret1, ret2).Sub(bankroll),
	}
}

// Allocate splits bankroll between the home and away legs.
func (a MoneylineArb) Allocate(bankroll decimal.Decimal) Allocation {
	return Allocate(bankroll, a.HomeStakePct, a.HomePrice, a.AwayPrice)
}

// Allocate splits bankroll between Side1 and Side2.
func (a SpreadArb) Allocate(bankroll decimal.Decimal) Allocation {
	return Allocate(bankroll, a.Side1.StakePct, a.Side1.Price, a.Side2.Price)
}
