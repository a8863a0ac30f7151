package main

import (
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"college-betting-ev/internal/analysis"
	"college-betting-ev/internal/config"
	"college-betting-ev/internal/snapshot"
	"college-betting-ev/internal/teams"
)

func main() {
	cfg := config.Load()

	resolver, err := teams.LoadResolver(cfg.AliasFile)
	if err != nil {
		log.Fatalf("Loading team aliases: %v", err)
	}

	games, err := snapshot.LoadOdds(cfg.OddsFile)
	if err != nil {
		log.Fatalf("Loading odds: %v", err)
	}
	preds, err := snapshot.LoadPredictions(cfg.PredictionsFile)
	if err != nil {
		log.Fatalf("Loading predictions: %v", err)
	}

	fmt.Println("=" + strings.Repeat("=", 79))
	fmt.Println("TEAM MATCHING VALIDATION")
	fmt.Println("=" + strings.Repeat("=", 79))
	fmt.Printf("Aliases: %d | Odds games: %d | Predictions: %d\n\n", len(resolver.Aliases()), len(games), len(preds))

	// ============================================
	// TEST 1: Game matching
	// ============================================
	fmt.Println("TEST 1: GAME MATCHING (odds vs predictions)")
	fmt.Println("-" + strings.Repeat("-", 79))

	index := analysis.NewPredictionIndex(preds, resolver)
	now := time.Now()

	var stats analysis.MatchStats
	usedPairs := make(map[string]bool)
	var unmatchedKeys []string

	for _, g := range games {
		stats.Games++
		if !g.Game.CommenceTime.After(now) {
			stats.Started++
		}

		home, away := resolver.Key(g.Game.HomeTeam), resolver.Key(g.Game.AwayTeam)
		if home == away {
			stats.Ambiguous++
			fmt.Printf("  ! %s @ %s  [both sides -> %s]\n", g.Game.AwayTeam, g.Game.HomeTeam, home)
			continue
		}
		if _, ok := index.Lookup(g.Game); ok {
			stats.Matched++
			usedPairs[resolver.PairKey(g.Game.HomeTeam, g.Game.AwayTeam)] = true
			usedPairs[resolver.PairKey(g.Game.AwayTeam, g.Game.HomeTeam)] = true
			fmt.Printf("  ✓ %s @ %s  [%s | %s]\n", g.Game.AwayTeam, g.Game.HomeTeam, away, home)
			continue
		}

		stats.Unmatched++
		unmatchedKeys = append(unmatchedKeys, home, away)
		fmt.Printf("  ✗ %s @ %s  [%s | %s]\n", g.Game.AwayTeam, g.Game.HomeTeam, away, home)
	}

	fmt.Printf("\nMatched %d/%d (%.1f%%), %d ambiguous, %d already started\n",
		stats.Matched, stats.Matched+stats.Unmatched+stats.Ambiguous, stats.MatchRate()*100, stats.Ambiguous, stats.Started)

	for _, p := range index.Collisions() {
		fmt.Printf("  ! prediction %s @ %s: both sides -> %s, add an alias\n", p.AwayTeam, p.HomeTeam, resolver.Key(p.HomeTeam))
	}

	// ============================================
	// TEST 2: Unused predictions and near misses
	// ============================================
	fmt.Println()
	fmt.Println("TEST 2: UNUSED PREDICTIONS")
	fmt.Println("-" + strings.Repeat("-", 79))

	var suggestions []string
	for _, p := range preds {
		if usedPairs[resolver.PairKey(p.HomeTeam, p.AwayTeam)] {
			continue
		}
		home, away := resolver.Key(p.HomeTeam), resolver.Key(p.AwayTeam)
		fmt.Printf("  %s @ %s  [%s | %s]\n", p.AwayTeam, p.HomeTeam, away, home)

		// Keys that share a token with an unmatched odds key are likely alias gaps
		for _, predKey := range []string{home, away} {
			for _, oddsKey := range unmatchedKeys {
				if predKey != oddsKey && shareToken(predKey, oddsKey) {
					suggestions = append(suggestions, fmt.Sprintf("  POSSIBLE ALIAS: odds key %q vs prediction key %q", oddsKey, predKey))
				}
			}
		}
	}

	slices.Sort(suggestions)
	suggestions = slices.Compact(suggestions)
	if len(suggestions) > 0 {
		fmt.Println("\nPotential alias gaps found:")
		for _, s := range suggestions {
			fmt.Println(s)
		}
	}
}

func shareToken(a, b string) bool {
	tokens := make(map[string]bool)
	for _, t := range strings.Split(a, "_") {
		if len(t) > 2 {
			tokens[t] = true
		}
	}
	for _, t := range strings.Split(b, "_") {
		if tokens[t] {
			return true
		}
	}
	return false
}
