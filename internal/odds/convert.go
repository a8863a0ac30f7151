package odds

import (
	"fmt"
	"math"
)

// ValidPrice reports whether an American price can be converted.
// Zero is the only integer with no meaning in American odds.
func ValidPrice(price int) bool {
	return price != 0
}

// AmericanToImplied converts American odds to implied probability
// Example: -150 → 0.6 (60%), +150 → 0.4 (40%)
//
// A zero price is a caller bug and panics; screen input with ValidPrice.
func AmericanToImplied(price int) float64 {
	if price == 0 {
		panic("odds: american price 0 is undefined")
	}

	if price > 0 {
		// Underdog: probability = 100 / (price + 100)
		return 100.0 / (float64(price) + 100.0)
	}
	// Favorite: probability = |price| / (|price| + 100)
	abs := math.Abs(float64(price))
	return abs / (abs + 100.0)
}

// ImpliedToAmerican converts a probability back to American odds, rounded to
// the nearest integer. Probabilities outside (0, 1) have no price and return 0.
// 0.5 maps to -100.
func ImpliedToAmerican(prob float64) int {
	if prob <= 0 || prob >= 1 || math.IsNaN(prob) {
		return 0
	}

	if prob >= 0.5 {
		return -int(math.Round(prob / (1 - prob) * 100))
	}
	return int(math.Round((1 - prob) / prob * 100))
}

// WinAmount returns the profit on a one-unit stake if the bet wins.
// +150 pays 1.5, -150 pays 0.667.
func WinAmount(price int) float64 {
	if price > 0 {
		return float64(price) / 100.0
	}
	return 100.0 / math.Abs(float64(price))
}

// DecimalOdds returns the total return per unit stake, stake included.
func DecimalOdds(price int) float64 {
	return 1 + WinAmount(price)
}

// ExpectedValue is the expected profit per unit stake when the true
// probability of winning is modelProb.
// EV = p * win - (1 - p)
func ExpectedValue(modelProb float64, price int) float64 {
	return modelProb*WinAmount(price) - (1 - modelProb)
}

// FormatAmerican renders a price with an explicit sign, e.g. "+120" or "-110".
func FormatAmerican(price int) string {
	if price > 0 {
		return fmt.Sprintf("+%d", price)
	}
	return fmt.Sprintf("%d", price)
}
