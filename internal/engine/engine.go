package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"college-betting-ev/internal/alerts"
	"college-betting-ev/internal/analysis"
	"college-betting-ev/internal/arbitrage"
	"college-betting-ev/internal/config"
	"college-betting-ev/internal/ledger"
	"college-betting-ev/internal/snapshot"
	"college-betting-ev/internal/teams"
)

// Report is the ranked output of one scan.
type Report struct {
	ScannedAt      time.Time
	Games          int
	MoneylineStats analysis.MatchStats
	SpreadStats    analysis.MatchStats
	MoneylineBets  []analysis.MoneylineBet
	SpreadBets     []analysis.SpreadBet
	MoneylineArbs  []arbitrage.MoneylineArb
	SpreadArbs     []arbitrage.SpreadArb
}

// gameSlot holds one game's unranked results so workers never share memory.
type gameSlot struct {
	ml      []analysis.MoneylineBet
	mlStats analysis.MatchStats
	sp      []analysis.SpreadBet
	spStats analysis.MatchStats
	mlArb   *arbitrage.MoneylineArb
	spArbs  []arbitrage.SpreadArb
}

// Engine is the main orchestrator that loads snapshots, finds +EV bets and
// arbitrage, alerts on them and records bets in the ledger.
type Engine struct {
	source   snapshot.Source
	resolver *teams.Resolver
	notifier *alerts.Notifier
	db       *ledger.DB
	cfg      config.Config
}

// New creates a new Engine with all dependencies. db may be nil to skip
// recording.
func New(
	source snapshot.Source,
	resolver *teams.Resolver,
	notifier *alerts.Notifier,
	db *ledger.DB,
	cfg config.Config,
) *Engine {
	return &Engine{
		source:   source,
		resolver: resolver,
		notifier: notifier,
		db:       db,
		cfg:      cfg,
	}
}

// Run scans once, then on every scan interval. It blocks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.ScanInterval)
	defer ticker.Stop()

	cleanupTicker := time.NewTicker(config.DefaultCleanupInterval)
	defer cleanupTicker.Stop()

	slog.Info("Starting scan loop", "interval", e.cfg.ScanInterval, "workers", e.cfg.Workers)

	if _, err := e.ScanOnce(ctx); err != nil && ctx.Err() == nil {
		e.notifier.LogError("scan", err)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scanner stopped gracefully")
			return

		case <-cleanupTicker.C:
			e.notifier.CleanupOldAlerts()

		case <-ticker.C:
			if _, err := e.ScanOnce(ctx); err != nil && ctx.Err() == nil {
				e.notifier.LogError("scan", err)
			}
		}
	}
}

// ScanOnce loads a fresh snapshot, scans it and publishes the report.
func (e *Engine) ScanOnce(ctx context.Context) (*Report, error) {
	snap, err := e.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	report, err := e.Scan(ctx, snap, time.Now())
	if err != nil {
		return nil, err
	}

	e.Publish(report)
	return report, nil
}

// Scan scores every game of snap in parallel. Each game writes to its own
// slot and slots are merged in input order before ranking, so the report is
// identical to a sequential pass.
func (e *Engine) Scan(ctx context.Context, snap *snapshot.Snapshot, now time.Time) (*Report, error) {
	finder := analysis.NewFinder(snap.Predictions, e.resolver, e.cfg.AnalysisConfig())
	arbCfg := e.cfg.ArbConfig()

	slots := make([]gameSlot, len(snap.Games))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.cfg.Workers, 1))

	for i := range snap.Games {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			game := snap.Games[i]
			slot := &slots[i]
			slot.ml, slot.mlStats = finder.ScoreMoneyline(game, now)
			slot.sp, slot.spStats = finder.ScoreSpread(game, now)
			slot.mlArb = arbitrage.GameMoneylineArbitrage(game, arbCfg)
			slot.spArbs = arbitrage.GameSpreadArbitrage(game, arbCfg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scanning games: %w", err)
	}

	var (
		ml     []analysis.MoneylineBet
		sp     []analysis.SpreadBet
		mlArbs []arbitrage.MoneylineArb
		spArbs []arbitrage.SpreadArb
	)
	report := &Report{ScannedAt: now, Games: len(snap.Games)}

	for _, slot := range slots {
		ml = append(ml, slot.ml...)
		sp = append(sp, slot.sp...)
		report.MoneylineStats.Add(slot.mlStats)
		report.SpreadStats.Add(slot.spStats)
		if slot.mlArb != nil {
			mlArbs = append(mlArbs, *slot.mlArb)
		}
		spArbs = append(spArbs, slot.spArbs...)
	}

	topN := e.cfg.TopN
	report.MoneylineBets = analysis.RankMoneyline(ml, topN)
	report.SpreadBets = analysis.RankSpread(sp, topN)
	report.MoneylineArbs = arbitrage.RankMoneyline(mlArbs)
	report.SpreadArbs = arbitrage.RankSpread(spArbs)

	slog.Debug("Scan finished",
		"games", report.Games,
		"matched", report.MoneylineStats.Matched,
		"unmatched", report.MoneylineStats.Unmatched,
		"ambiguous", report.MoneylineStats.Ambiguous,
		"invalidQuotes", report.MoneylineStats.InvalidQuotes+report.SpreadStats.InvalidQuotes)

	return report, nil
}

// Publish alerts on every result in report and records the bets when a
// ledger is configured.
func (e *Engine) Publish(report *Report) {
	for _, bet := range report.MoneylineBets {
		e.notifier.AlertMoneyline(bet)
	}
	for _, bet := range report.SpreadBets {
		e.notifier.AlertSpread(bet)
	}
	for _, arb := range report.MoneylineArbs {
		e.notifier.AlertMoneylineArb(arb)
	}
	for _, arb := range report.SpreadArbs {
		e.notifier.AlertSpreadArb(arb)
	}

	if e.db != nil {
		recorded, staked := RecordBets(e.db, report, e.cfg.Bankroll, e.cfg.MaxBetDollars)
		if recorded > 0 {
			slog.Info("Recorded bets", "count", recorded, "staked", staked)
		}
	}

	e.notifier.LogScan(report.Games, report.MoneylineStats,
		len(report.MoneylineBets), len(report.SpreadBets),
		len(report.MoneylineArbs)+len(report.SpreadArbs))
}
