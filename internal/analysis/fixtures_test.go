package analysis

import (
	"time"

	"college-betting-ev/internal/models"
)

var testNow = time.Date(2025, 9, 6, 12, 0, 0, 0, time.UTC)

func ml(team string, price int) models.MoneylineOdds {
	return models.MoneylineOdds{Team: team, Price: price}
}

func sp(team string, point float64, price int) models.SpreadOdds {
	return models.SpreadOdds{Team: team, Point: point, Price: price}
}

// testSlate has one matched game, one already-started game, one game with no
// prediction and one game whose prediction lists the teams in reverse order.
func testSlate() []models.GameOdds {
	return []models.GameOdds{
		{
			Game: models.Game{ID: "osu-mich", HomeTeam: "Ohio State Buckeyes", AwayTeam: "Michigan Wolverines", CommenceTime: testNow.Add(24 * time.Hour)},
			Odds: []models.BettingOdds{
				{
					GameID: "osu-mich", Bookmaker: "draftkings",
					Moneyline: []models.MoneylineOdds{ml("Ohio State Buckeyes", -200), ml("Michigan Wolverines", 170)},
					Spreads:   []models.SpreadOdds{sp("Ohio State Buckeyes", -6.5, -110), sp("Michigan Wolverines", 6.5, -110)},
				},
				{
					GameID: "osu-mich", Bookmaker: "fanduel",
					Moneyline: []models.MoneylineOdds{ml("Ohio State Buckeyes", -180), ml("Michigan Wolverines", 150)},
					Spreads:   []models.SpreadOdds{sp("Ohio State Buckeyes", -7, -105), sp("Michigan Wolverines", 7, -115)},
				},
			},
		},
		{
			Game: models.Game{ID: "bama-aub", HomeTeam: "Alabama Crimson Tide", AwayTeam: "Auburn Tigers", CommenceTime: testNow.Add(-time.Hour)},
			Odds: []models.BettingOdds{
				{
					Bookmaker: "draftkings",
					Moneyline: []models.MoneylineOdds{ml("Alabama Crimson Tide", 300), ml("Auburn Tigers", 300)},
					Spreads:   []models.SpreadOdds{sp("Alabama Crimson Tide", 10, 200)},
				},
			},
		},
		{
			Game: models.Game{ID: "iowa-neb", HomeTeam: "Iowa Hawkeyes", AwayTeam: "Nebraska Cornhuskers", CommenceTime: testNow.Add(48 * time.Hour)},
			Odds: []models.BettingOdds{
				{Bookmaker: "draftkings", Moneyline: []models.MoneylineOdds{ml("Iowa Hawkeyes", 500)}},
			},
		},
		{
			Game: models.Game{ID: "tex-ou", HomeTeam: "Texas Longhorns", AwayTeam: "Oklahoma Sooners", CommenceTime: testNow.Add(72 * time.Hour)},
			Odds: []models.BettingOdds{
				{
					Bookmaker: "betmgm",
					Moneyline: []models.MoneylineOdds{ml("Texas Longhorns", 160), ml("Oklahoma Sooners", -160)},
					Spreads:   []models.SpreadOdds{sp("Texas Longhorns", 4.5, -110), sp("Oklahoma Sooners", -4.5, -110)},
				},
			},
		},
	}
}

func testPredictions() []models.GamePrediction {
	return []models.GamePrediction{
		{HomeTeam: "Ohio St.", AwayTeam: "Michigan", Spread: 10, HomeWinProb: 0.75, AwayWinProb: 0.25},
		{HomeTeam: "Alabama", AwayTeam: "Auburn", Spread: 14, HomeWinProb: 0.85, AwayWinProb: 0.15},
		// Oklahoma listed as home by the model; favored by 3
		{HomeTeam: "Oklahoma", AwayTeam: "Texas", Spread: 3, HomeWinProb: 0.6, AwayWinProb: 0.4},
	}
}
