package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"

	"college-betting-ev/internal/analysis"
	"college-betting-ev/internal/config"
	"college-betting-ev/internal/ledger"
	"college-betting-ev/internal/odds"
	"college-betting-ev/internal/snapshot"
	"college-betting-ev/internal/teams"
)

var dryRun = flag.Bool("dry-run", false, "Print outcomes without writing them to the ledger")

func main() {
	flag.Parse()

	cfg := config.Load()
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := config.SetupLogger(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	resolver, err := teams.LoadResolver(cfg.AliasFile)
	if err != nil {
		log.Fatalf("Loading team aliases: %v", err)
	}

	results, err := snapshot.LoadResults(cfg.ResultsFile)
	if err != nil {
		log.Fatalf("Loading results: %v", err)
	}

	db, err := ledger.NewDB(cfg.LedgerPath)
	if err != nil {
		log.Fatalf("Opening ledger: %v", err)
	}
	defer db.Close()

	mlPending, err := db.Pending(ledger.MarketMoneyline)
	if err != nil {
		log.Fatalf("Reading ledger: %v", err)
	}
	spPending, err := db.Pending(ledger.MarketSpread)
	if err != nil {
		log.Fatalf("Reading ledger: %v", err)
	}

	fmt.Printf("Settling %d moneyline and %d spread bets against %d results\n\n",
		len(mlPending), len(spPending), len(results))

	mlBets := make([]analysis.MoneylineBet, len(mlPending))
	for i, b := range mlPending {
		mlBets[i] = b.MoneylineBet()
	}
	mlResults, mlStats := analysis.SettleMoneyline(mlBets, results, resolver)

	fmt.Println("=== MONEYLINE ===")
	for i, r := range mlResults {
		fmt.Printf("%-9s %s %s on %s (%s@%s)\n", r.Status, r.Bet.Team, odds.FormatAmerican(r.Bet.Price),
			r.Bet.Bookmaker, r.Bet.AwayTeam, r.Bet.HomeTeam)
		save(db, mlPending[i], r.Status, r.Payout)
	}
	fmt.Printf("%s\n\n", mlStats)

	spBets := make([]analysis.SpreadBet, len(spPending))
	for i, b := range spPending {
		spBets[i] = b.SpreadBet()
	}
	spResults, spStats := analysis.SettleSpread(spBets, results, resolver)

	fmt.Println("=== SPREAD ===")
	for i, r := range spResults {
		margin := ""
		if r.Margin != nil {
			margin = fmt.Sprintf(" margin %+d", *r.Margin)
		}
		fmt.Printf("%-9s %s %+.1f %s on %s (%s@%s)%s\n", r.Status, r.Bet.Team, r.Bet.Line,
			odds.FormatAmerican(r.Bet.Price), r.Bet.Bookmaker, r.Bet.AwayTeam, r.Bet.HomeTeam, margin)
		save(db, spPending[i], r.Status, r.Payout)
	}
	fmt.Printf("%s\n\n", spStats)

	summary, err := db.Summarize()
	if err != nil {
		log.Fatalf("Summarizing ledger: %v", err)
	}
	fmt.Printf("Ledger: %d won, %d lost, %d push, %d open | %+.2fu | $%.2f staked, P&L $%+.2f\n",
		summary.Counts[analysis.StatusWon], summary.Counts[analysis.StatusLost], summary.Counts[analysis.StatusPush],
		summary.Counts[analysis.StatusPending]+summary.Counts[analysis.StatusUnmatched],
		summary.UnitProfit, summary.DollarStake, summary.DollarPnL)
}

// save writes an outcome back unless nothing changed or this is a dry run.
func save(db *ledger.DB, bet ledger.Bet, status analysis.SettlementStatus, payout *float64) {
	if *dryRun || status == bet.Status {
		return
	}
	if err := db.Settle(bet.ID, status, payout); err != nil {
		slog.Error("Settling bet failed", "id", bet.ID, "err", err)
	}
}
