package analysis

import (
	"math"

	"college-betting-ev/internal/odds"
)

// CalculateKelly computes the Kelly criterion bet size for an American price
// Kelly formula: f* = (p * b - q) / b
// where: p = probability of winning, q = 1-p, b = profit per unit stake
//
// fraction parameter scales the result (e.g., 0.25 for quarter Kelly)
func CalculateKelly(trueProb float64, price int, fraction float64) float64 {
	if !odds.ValidPrice(price) {
		return 0
	}
	return CalculateKellyDecimal(trueProb, odds.DecimalOdds(price), fraction)
}

// CalculateKellyDecimal computes Kelly for decimal odds
// f* = (p * d - 1) / (d - 1)
// where d = decimal odds
func CalculateKellyDecimal(trueProb, decimalOdds, fraction float64) float64 {
	if decimalOdds <= 1 || trueProb <= 0 || trueProb >= 1 {
		return 0
	}

	p := trueProb
	d := decimalOdds

	kelly := (p*d - 1) / (d - 1)

	kelly = math.Max(0, kelly)
	kelly = math.Min(kelly, 1.0)

	return kelly * fraction
}

// KellyBetSize converts a Kelly fraction into a currency amount for bankroll,
// capped at maxBet when maxBet > 0.
func KellyBetSize(kellyFraction, bankroll, maxBet float64) float64 {
	if kellyFraction <= 0 || bankroll <= 0 {
		return 0
	}

	betSize := bankroll * kellyFraction
	if maxBet > 0 && betSize > maxBet {
		betSize = maxBet
	}

	return betSize
}
