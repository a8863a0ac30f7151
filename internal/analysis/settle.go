package analysis

import (
	"fmt"

	"college-betting-ev/internal/models"
	"college-betting-ev/internal/odds"
	"college-betting-ev/internal/teams"
)

// SettlementStatus describes how a bet resolved against results.
type SettlementStatus string

const (
	StatusWon       SettlementStatus = "won"
	StatusLost      SettlementStatus = "lost"
	StatusPush      SettlementStatus = "push"
	StatusPending   SettlementStatus = "pending"   // game found but not final
	StatusUnmatched SettlementStatus = "unmatched" // no result for the game or team
)

// BetResult pairs a moneyline recommendation with its outcome. Won and Payout
// are nil while the outcome is unknown. Payout is profit per unit stake.
type BetResult struct {
	Bet    MoneylineBet
	Result *models.GameResult
	Won    *bool
	Payout *float64
	Status SettlementStatus
}

// SpreadBetResult pairs a spread recommendation with its outcome. A push has
// a nil Won and a zero Payout.
type SpreadBetResult struct {
	Bet    SpreadBet
	Result *models.GameResult
	Won    *bool
	Payout *float64
	Margin *int // Bet side's points minus opponent's
	Status SettlementStatus
}

// SettlementStats counts settlement outcomes.
type SettlementStats struct {
	Won       int
	Lost      int
	Pushed    int
	Pending   int
	Unmatched int
	Profit    float64 // Sum of unit-stake profit over settled bets, losses count -1
}

// Settled is the number of bets with a known outcome.
func (s SettlementStats) Settled() int {
	return s.Won + s.Lost + s.Pushed
}

func (s SettlementStats) String() string {
	return fmt.Sprintf("%d won, %d lost, %d push, %d pending, %d unmatched, profit %+.2fu",
		s.Won, s.Lost, s.Pushed, s.Pending, s.Unmatched, s.Profit)
}

func (s *SettlementStats) record(status SettlementStatus, payout float64) {
	switch status {
	case StatusWon:
		s.Won++
		s.Profit += payout
	case StatusLost:
		s.Lost++
		s.Profit--
	case StatusPush:
		s.Pushed++
	case StatusPending:
		s.Pending++
	default:
		s.Unmatched++
	}
}

// ResultIndex looks game results up by team-key pair in either order.
type ResultIndex struct {
	resolver *teams.Resolver
	byPair   map[string]*models.GameResult
}

// NewResultIndex indexes results under both key orders. Results whose sides
// share a key are left out, so bets on them settle as unmatched.
func NewResultIndex(results []models.GameResult, resolver *teams.Resolver) *ResultIndex {
	idx := &ResultIndex{
		resolver: resolver,
		byPair:   make(map[string]*models.GameResult, len(results)*2),
	}
	for i := range results {
		r := &results[i]
		home, away := resolver.Key(r.HomeTeam), resolver.Key(r.AwayTeam)
		if home == away {
			continue
		}
		idx.byPair[home+"_"+away] = r
		idx.byPair[away+"_"+home] = r
	}
	return idx
}

// Lookup finds the result for a home/away pair.
func (idx *ResultIndex) Lookup(homeTeam, awayTeam string) (*models.GameResult, bool) {
	r, ok := idx.byPair[idx.resolver.PairKey(homeTeam, awayTeam)]
	return r, ok
}

// sideMargin returns team's points minus its opponent's. ok is false when the
// team is on neither side of the result.
func (idx *ResultIndex) sideMargin(r *models.GameResult, team string) (int, bool) {
	key := idx.resolver.Key(team)
	margin := *r.HomePoints - *r.AwayPoints
	switch key {
	case idx.resolver.Key(r.HomeTeam):
		return margin, true
	case idx.resolver.Key(r.AwayTeam):
		return -margin, true
	}
	return 0, false
}

// SettleMoneyline grades moneyline bets against final scores. The bet team
// wins only by outscoring its opponent; a tie grades as a loss.
func SettleMoneyline(bets []MoneylineBet, results []models.GameResult, resolver *teams.Resolver) ([]BetResult, SettlementStats) {
	idx := NewResultIndex(results, resolver)
	out := make([]BetResult, 0, len(bets))
	var stats SettlementStats

	for _, bet := range bets {
		br := BetResult{Bet: bet, Status: StatusUnmatched}

		if r, ok := idx.Lookup(bet.HomeTeam, bet.AwayTeam); ok {
			br.Result = r
			br.Status = StatusPending
			if r.Final() {
				if margin, ok := idx.sideMargin(r, bet.Team); ok {
					won := margin > 0
					payout := 0.0
					br.Status = StatusLost
					if won {
						payout = odds.WinAmount(bet.Price)
						br.Status = StatusWon
					}
					br.Won = &won
					br.Payout = &payout
				} else {
					br.Status = StatusUnmatched
				}
			}
		}

		var payout float64
		if br.Payout != nil {
			payout = *br.Payout
		}
		stats.record(br.Status, payout)
		out = append(out, br)
	}

	return out, stats
}

// SettleSpread grades spread bets. The bet side covers when its margin plus
// the line is positive; exactly zero is a push.
func SettleSpread(bets []SpreadBet, results []models.GameResult, resolver *teams.Resolver) ([]SpreadBetResult, SettlementStats) {
	idx := NewResultIndex(results, resolver)
	out := make([]SpreadBetResult, 0, len(bets))
	var stats SettlementStats

	for _, bet := range bets {
		br := SpreadBetResult{Bet: bet, Status: StatusUnmatched}

		if r, ok := idx.Lookup(bet.HomeTeam, bet.AwayTeam); ok {
			br.Result = r
			br.Status = StatusPending
			if r.Final() {
				if margin, ok := idx.sideMargin(r, bet.Team); ok {
					br.Margin = &margin
					payout := 0.0
					switch adjusted := float64(margin) + bet.Line; {
					case adjusted > 0:
						won := true
						br.Won = &won
						payout = odds.WinAmount(bet.Price)
						br.Status = StatusWon
					case adjusted < 0:
						won := false
						br.Won = &won
						br.Status = StatusLost
					default:
						br.Status = StatusPush
					}
					br.Payout = &payout
				} else {
					br.Status = StatusUnmatched
				}
			}
		}

		var payout float64
		if br.Payout != nil {
			payout = *br.Payout
		}
		stats.record(br.Status, payout)
		out = append(out, br)
	}

	return out, stats
}
