package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"college-betting-ev/internal/alerts"
	"college-betting-ev/internal/config"
	"college-betting-ev/internal/engine"
	"college-betting-ev/internal/ledger"
	"college-betting-ev/internal/snapshot"
	"college-betting-ev/internal/teams"
)

var (
	watch  = flag.Bool("watch", false, "Rescan every SCAN_INTERVAL_MS until interrupted")
	record = flag.Bool("record", false, "Record recommended bets in the ledger")
)

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

	var db *ledger.DB
	if *record {
		db, err = ledger.NewDB(cfg.LedgerPath)
		if err != nil {
			log.Fatalf("Opening ledger: %v", err)
		}
		defer db.Close()
	}

	notifier := alerts.NewNotifier(cfg.AlertCooldown)
	source := snapshot.FileSource{OddsFile: cfg.OddsFile, PredictionsFile: cfg.PredictionsFile}
	eng := engine.New(source, resolver, notifier, db, cfg)

	notifier.LogStartup(fmt.Sprintf(" sd=%.1f tol=%.2f kelly=%.0f%% topN=%d workers=%d bankroll=$%.2f maxBet=%s record=%v",
		cfg.SpreadStdDev, cfg.PointTolerance, cfg.KellyFraction*100, cfg.TopN, cfg.Workers,
		cfg.Bankroll, config.FormatMaxBet(cfg.MaxBetDollars), *record))

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	if *watch {
		eng.Run(ctx)
		return
	}

	// Alerts go to the log, the report to stdout
	report, err := eng.ScanOnce(ctx)
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}
	printReport(report, cfg)
}

func printReport(r *engine.Report, cfg config.Config) {
	s := r.MoneylineStats
	fmt.Printf("Games: %d | matched %d | unmatched %d | ambiguous %d | started %d | match rate %.1f%%\n",
		r.Games, s.Matched, s.Unmatched, s.Ambiguous, s.Started, s.MatchRate()*100)
	for _, g := range s.UnmatchedGames {
		fmt.Printf("  no prediction: %s\n", g)
	}
	for _, g := range s.AmbiguousGames {
		fmt.Printf("  sides share a team key: %s\n", g)
	}

	fmt.Printf("\n=== +EV MONEYLINE (%d) ===\n", len(r.MoneylineBets))
	for i, b := range r.MoneylineBets {
		fmt.Printf("%2d. %s%s\n", i+1, b, stakeNote(b.KellyStake, cfg))
	}

	fmt.Printf("\n=== +EV SPREAD (%d) ===\n", len(r.SpreadBets))
	for i, b := range r.SpreadBets {
		fmt.Printf("%2d. %s%s\n", i+1, b, stakeNote(b.KellyStake, cfg))
	}

	bankroll := decimal.NewFromFloat(cfg.Bankroll)

	fmt.Printf("\n=== MONEYLINE ARBITRAGE (%d) ===\n", len(r.MoneylineArbs))
	for i, a := range r.MoneylineArbs {
		fmt.Printf("%2d. %s\n", i+1, a)
		if bankroll.IsPositive() {
			alloc := a.Allocate(bankroll)
			fmt.Printf("    $%s on %s, $%s on %s, guaranteed $%s\n",
				alloc.Stake1.StringFixed(2), a.HomeTeam, alloc.Stake2.StringFixed(2), a.AwayTeam,
				alloc.GuaranteedProfit.StringFixed(2))
		}
	}

	fmt.Printf("\n=== SPREAD ARBITRAGE (%d) ===\n", len(r.SpreadArbs))
	for i, a := range r.SpreadArbs {
		fmt.Printf("%2d. %s\n", i+1, a)
		if bankroll.IsPositive() {
			alloc := a.Allocate(bankroll)
			fmt.Printf("    $%s on %s, $%s on %s, guaranteed $%s\n",
				alloc.Stake1.StringFixed(2), a.Side1.Team, alloc.Stake2.StringFixed(2), a.Side2.Team,
				alloc.GuaranteedProfit.StringFixed(2))
		}
	}
}

func stakeNote(kelly float64, cfg config.Config) string {
	stake := engine.StakeFor(kelly, cfg.Bankroll, cfg.MaxBetDollars)
	if stake <= 0 {
		return ""
	}
	return fmt.Sprintf(" | Stake: $%.2f", stake)
}
