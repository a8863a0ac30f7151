package odds

import (
	"time"

	"college-betting-ev/internal/models"
)

// MoneylineConsensus holds the vig-free market view of a game's moneyline,
// averaged across every bookmaker that quotes both sides.
type MoneylineConsensus struct {
	HomeTrueProb float64
	AwayTrueProb float64
	BookCount    int
}

// isBookFresh reports whether a quote set was updated within maxAge of now.
// A zero maxAge or a missing timestamp disables the check.
func isBookFresh(book models.BettingOdds, maxAge time.Duration, now time.Time) bool {
	if maxAge <= 0 || book.LastUpdate.IsZero() {
		return true
	}
	return now.Sub(book.LastUpdate) <= maxAge
}

// CalculateMoneylineConsensus averages each bookmaker's vig-free moneyline
// probabilities for game. Outcomes are matched to sides by exact team name.
// Returns nil when no bookmaker quotes a valid price on both sides.
func CalculateMoneylineConsensus(game models.Game, books []models.BettingOdds, maxAge time.Duration, now time.Time) *MoneylineConsensus {
	var homeSum, awaySum float64
	count := 0

	for _, book := range books {
		if !isBookFresh(book, maxAge, now) {
			continue
		}

		homePrice, awayPrice := moneylinePair(game, book)
		if !ValidPrice(homePrice) || !ValidPrice(awayPrice) {
			continue
		}

		homeProb, awayProb := RemoveVigFromAmerican(homePrice, awayPrice)
		homeSum += homeProb
		awaySum += awayProb
		count++
	}

	if count == 0 {
		return nil
	}

	return &MoneylineConsensus{
		HomeTrueProb: homeSum / float64(count),
		AwayTrueProb: awaySum / float64(count),
		BookCount:    count,
	}
}

// BookFairProb returns one bookmaker's vig-free probability for team, or 0
// when the bookmaker does not quote both sides.
func BookFairProb(game models.Game, book models.BettingOdds, team string) float64 {
	homePrice, awayPrice := moneylinePair(game, book)
	if !ValidPrice(homePrice) || !ValidPrice(awayPrice) {
		return 0
	}

	homeProb, awayProb := RemoveVigFromAmerican(homePrice, awayPrice)
	switch team {
	case game.HomeTeam:
		return homeProb
	case game.AwayTeam:
		return awayProb
	}
	return 0
}

func moneylinePair(game models.Game, book models.BettingOdds) (home, away int) {
	for _, ml := range book.Moneyline {
		switch ml.Team {
		case game.HomeTeam:
			home = ml.Price
		case game.AwayTeam:
			away = ml.Price
		}
	}
	return home, away
}
