package odds

// RemoveVig removes the vig/juice from a two-way market
// Returns the true probabilities that sum to 1.0
//
// Method: Multiplicative vig removal (proportional)
// trueProbA = impliedA / (impliedA + impliedB)
// trueProbB = impliedB / (impliedA + impliedB)
func RemoveVig(impliedA, impliedB float64) (float64, float64) {
	if impliedA <= 0 || impliedB <= 0 {
		return 0, 0
	}

	total := impliedA + impliedB
	return impliedA / total, impliedB / total
}

// RemoveVigFromAmerican converts American odds to vig-free probabilities.
// Returns 0, 0 if either price is invalid.
func RemoveVigFromAmerican(priceA, priceB int) (float64, float64) {
	if !ValidPrice(priceA) || !ValidPrice(priceB) {
		return 0, 0
	}
	return RemoveVig(AmericanToImplied(priceA), AmericanToImplied(priceB))
}
