package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Game is a scheduled matchup as quoted by the odds feed.
type Game struct {
	ID           string    `json:"id"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	CommenceTime time.Time `json:"commence_time"`
	SportTitle   string    `json:"sport_title"`
}

// MoneylineOdds is one outcome of a head-to-head market. Price is American odds.
type MoneylineOdds struct {
	Team  string `json:"team"`
	Price int    `json:"price"`
}

// SpreadOdds is one outcome of a point-spread market.
// Point is the handicap applied to Team (-7 means the team gives 7).
type SpreadOdds struct {
	Team  string  `json:"team"`
	Point float64 `json:"point"`
	Price int     `json:"price"`
}

// BettingOdds is a single bookmaker's quote set for one game.
type BettingOdds struct {
	GameID     string          `json:"game_id"`
	Bookmaker  string          `json:"bookmaker"`
	LastUpdate time.Time       `json:"last_update"`
	Moneyline  []MoneylineOdds `json:"moneyline"`
	Spreads    []SpreadOdds    `json:"spreads"`
}

// GameOdds pairs a game with every bookmaker quote collected for it.
type GameOdds struct {
	Game Game          `json:"game"`
	Odds []BettingOdds `json:"odds"`
}

// UnmarshalJSON accepts both the object form and the two-element
// array form [game, [odds...]] written by the odds cache.
func (g *GameOdds) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err == nil {
		if len(tuple) != 2 {
			return fmt.Errorf("game odds tuple: expected 2 elements, got %d", len(tuple))
		}
		if err := json.Unmarshal(tuple[0], &g.Game); err != nil {
			return fmt.Errorf("decoding game: %w", err)
		}
		if err := json.Unmarshal(tuple[1], &g.Odds); err != nil {
			return fmt.Errorf("decoding odds: %w", err)
		}
		return nil
	}

	type plain GameOdds
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*g = GameOdds(p)
	return nil
}

// GamePrediction is an external model's forecast for a game.
// Spread is the predicted home margin (positive means home wins by that much).
type GamePrediction struct {
	HomeTeam    string  `json:"home_team"`
	AwayTeam    string  `json:"away_team"`
	Spread      float64 `json:"spread"`
	HomeWinProb float64 `json:"home_win_prob"`
	AwayWinProb float64 `json:"away_win_prob"`
}

// GameResult is a final (or in-progress) score from the results feed.
// Points are nil until the score is known.
type GameResult struct {
	ID         int    `json:"id"`
	StartDate  string `json:"startDate"`
	Completed  bool   `json:"completed"`
	HomeTeam   string `json:"homeTeam"`
	AwayTeam   string `json:"awayTeam"`
	HomePoints *int   `json:"homePoints"`
	AwayPoints *int   `json:"awayPoints"`
}

// Final reports whether the game is marked completed with both scores present.
// Live games carry running scores, so scores alone are not enough.
func (r GameResult) Final() bool {
	return r.Completed && r.HomePoints != nil && r.AwayPoints != nil
}
