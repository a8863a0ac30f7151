package engine

import (
	"log/slog"

	"college-betting-ev/internal/analysis"
	"college-betting-ev/internal/ledger"
)

// StakeFor converts a Kelly fraction into dollars against the remaining
// bankroll. Returns 0 when no bankroll is configured.
func StakeFor(kelly, bankroll, maxBet float64) float64 {
	return analysis.KellyBetSize(kelly, bankroll, maxBet)
}

// RecordBets stores every bet of report in the ledger, moneyline first,
// each in EV order. Stakes are sized against what is left of bankroll after
// earlier bets in the same pass. Bets already in the ledger are skipped and
// spend nothing. Returns the number of new rows and the dollars staked.
func RecordBets(db *ledger.DB, report *Report, bankroll, maxBet float64) (int, float64) {
	recorded := 0
	staked := 0.0

	for _, bet := range report.MoneylineBets {
		stake := StakeFor(bet.KellyStake, bankroll-staked, maxBet)
		id, inserted, err := db.RecordMoneyline(bet, stake)
		if err != nil {
			slog.Error("Storing bet failed", "game", bet.GameID, "team", bet.Team, "err", err)
			continue
		}
		if inserted {
			recorded++
			staked += stake
			slog.Debug("Stored bet", "id", id, "market", ledger.MarketMoneyline, "team", bet.Team, "stake", stake)
		}
	}

	for _, bet := range report.SpreadBets {
		stake := StakeFor(bet.KellyStake, bankroll-staked, maxBet)
		id, inserted, err := db.RecordSpread(bet, stake)
		if err != nil {
			slog.Error("Storing bet failed", "game", bet.GameID, "team", bet.Team, "err", err)
			continue
		}
		if inserted {
			recorded++
			staked += stake
			slog.Debug("Stored bet", "id", id, "market", ledger.MarketSpread, "team", bet.Team, "line", bet.Line, "stake", stake)
		}
	}

	return recorded, staked
}
