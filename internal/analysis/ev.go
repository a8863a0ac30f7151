package analysis

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"college-betting-ev/internal/models"
	"college-betting-ev/internal/odds"
	"college-betting-ev/internal/teams"
)

// Config holds analysis configuration
type Config struct {
	SpreadStdDev  float64       // Margin standard deviation for cover probability
	TopN          int           // Keep only the N best bets; 0 keeps all
	KellyFraction float64       // Fraction of Kelly to report (e.g., 0.25 = quarter Kelly)
	MaxOddsAge    time.Duration // Books older than this are left out of the market consensus; 0 disables
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		SpreadStdDev:  DefaultSpreadStdDev,
		TopN:          0,
		KellyFraction: 0.25,
	}
}

// MoneylineBet is a single (game, bookmaker, team) moneyline quote scored
// against the model.
type MoneylineBet struct {
	GameID        string
	HomeTeam      string
	AwayTeam      string
	CommenceTime  time.Time
	Team          string
	Bookmaker     string
	Price         int
	ModelProb     float64 // Model win probability
	ImpliedProb   float64 // Probability encoded by Price
	ExpectedValue float64 // Profit per unit stake under ModelProb
	Edge          float64 // ModelProb - ImpliedProb
	FairProb      float64 // This book's vig-free probability; 0 if one-sided
	MarketProb    float64 // Vig-free consensus across books; 0 if unavailable
	KellyStake    float64 // Recommended bankroll fraction
}

func (b MoneylineBet) String() string {
	s := fmt.Sprintf("%s @ %s | Bet: %s (%s) on %s | EV: %+.2f%% | Edge: %+.2f%% | Model: %.1f%% | Implied: %.1f%%",
		b.AwayTeam, b.HomeTeam, b.Team, odds.FormatAmerican(b.Price), b.Bookmaker,
		b.ExpectedValue*100, b.Edge*100, b.ModelProb*100, b.ImpliedProb*100)
	if b.FairProb > 0 {
		s += fmt.Sprintf(" | No-vig: %.1f%%", b.FairProb*100)
	}
	if b.MarketProb > 0 {
		s += fmt.Sprintf(" | Market: %.1f%%", b.MarketProb*100)
	}
	return s
}

// SpreadBet is a single (game, bookmaker, team) spread quote scored against
// the model.
type SpreadBet struct {
	GameID        string
	HomeTeam      string
	AwayTeam      string
	CommenceTime  time.Time
	Team          string
	Bookmaker     string
	Line          float64 // Posted handicap for Team
	Price         int
	ModelSpread   float64 // Predicted home margin for this game
	ModelProb     float64 // Cover probability
	ImpliedProb   float64
	ExpectedValue float64
	Edge          float64
	KellyStake    float64
}

func (b SpreadBet) String() string {
	return fmt.Sprintf("%s @ %s | Bet: %s %+.1f (%s) on %s | EV: %+.2f%% | Edge: %+.2f%% | Model spread: %+.1f | Cover: %.1f%% | Implied: %.1f%%",
		b.AwayTeam, b.HomeTeam, b.Team, b.Line, odds.FormatAmerican(b.Price), b.Bookmaker,
		b.ExpectedValue*100, b.Edge*100, b.ModelSpread, b.ModelProb*100, b.ImpliedProb*100)
}

// Finder scores bookmaker quotes against a fixed set of predictions.
// It holds no mutable state and is safe for concurrent use.
type Finder struct {
	index *PredictionIndex
	cfg   Config
}

// NewFinder indexes preds with resolver.
func NewFinder(preds []models.GamePrediction, resolver *teams.Resolver, cfg Config) *Finder {
	return &Finder{
		index: NewPredictionIndex(preds, resolver),
		cfg:   cfg,
	}
}

// Config returns the finder's configuration.
func (f *Finder) Config() Config {
	return f.cfg
}

// lookup applies the commence-time filter and the prediction join shared by
// both markets.
func (f *Finder) lookup(game models.Game, now time.Time, stats *MatchStats) (Match, bool) {
	stats.Games++

	if !game.CommenceTime.After(now) {
		stats.Started++
		return Match{}, false
	}

	if SidesCollide(f.index.Resolver(), game.HomeTeam, game.AwayTeam) {
		stats.Ambiguous++
		stats.AmbiguousGames = append(stats.AmbiguousGames, gameLabel(game))
		slog.Debug("Game sides share a team key", "home", game.HomeTeam, "away", game.AwayTeam)
		return Match{}, false
	}

	m, ok := f.index.Lookup(game)
	if !ok {
		stats.Unmatched++
		stats.UnmatchedGames = append(stats.UnmatchedGames, gameLabel(game))
		slog.Debug("No prediction for game", "home", game.HomeTeam, "away", game.AwayTeam)
		return Match{}, false
	}

	stats.Matched++
	return m, true
}

// ScoreMoneyline scores every moneyline quote for one game. Bets are returned
// unfiltered in quote order.
func (f *Finder) ScoreMoneyline(g models.GameOdds, now time.Time) ([]MoneylineBet, MatchStats) {
	var stats MatchStats
	m, ok := f.lookup(g.Game, now, &stats)
	if !ok {
		return nil, stats
	}

	resolver := f.index.Resolver()
	consensus := odds.CalculateMoneylineConsensus(g.Game, g.Odds, f.cfg.MaxOddsAge, now)

	var bets []MoneylineBet
	for _, book := range g.Odds {
		for _, ml := range book.Moneyline {
			if !odds.ValidPrice(ml.Price) {
				stats.InvalidQuotes++
				continue
			}

			modelProb, ok := m.WinProb(resolver.Key(ml.Team))
			if !ok {
				stats.UnknownTeams++
				continue
			}

			implied := odds.AmericanToImplied(ml.Price)
			bet := MoneylineBet{
				GameID:        g.Game.ID,
				HomeTeam:      g.Game.HomeTeam,
				AwayTeam:      g.Game.AwayTeam,
				CommenceTime:  g.Game.CommenceTime,
				Team:          ml.Team,
				Bookmaker:     book.Bookmaker,
				Price:         ml.Price,
				ModelProb:     modelProb,
				ImpliedProb:   implied,
				ExpectedValue: odds.ExpectedValue(modelProb, ml.Price),
				Edge:          modelProb - implied,
				FairProb:      odds.BookFairProb(g.Game, book, ml.Team),
				KellyStake:    CalculateKelly(modelProb, ml.Price, f.cfg.KellyFraction),
			}
			if consensus != nil {
				switch ml.Team {
				case g.Game.HomeTeam:
					bet.MarketProb = consensus.HomeTrueProb
				case g.Game.AwayTeam:
					bet.MarketProb = consensus.AwayTrueProb
				}
			}
			bets = append(bets, bet)
		}
	}

	return bets, stats
}

// ScoreSpread scores every spread quote for one game. Bets are returned
// unfiltered in quote order.
func (f *Finder) ScoreSpread(g models.GameOdds, now time.Time) ([]SpreadBet, MatchStats) {
	var stats MatchStats
	m, ok := f.lookup(g.Game, now, &stats)
	if !ok {
		return nil, stats
	}

	resolver := f.index.Resolver()
	homeSpread, _ := m.SpreadFor(resolver.Key(g.Game.HomeTeam))

	var bets []SpreadBet
	for _, book := range g.Odds {
		for _, s := range book.Spreads {
			if !odds.ValidPrice(s.Price) {
				stats.InvalidQuotes++
				continue
			}

			sideSpread, ok := m.SpreadFor(resolver.Key(s.Team))
			if !ok {
				stats.UnknownTeams++
				continue
			}

			cover := SpreadCoverProbability(sideSpread, s.Point, f.cfg.SpreadStdDev)
			implied := odds.AmericanToImplied(s.Price)
			bets = append(bets, SpreadBet{
				GameID:        g.Game.ID,
				HomeTeam:      g.Game.HomeTeam,
				AwayTeam:      g.Game.AwayTeam,
				CommenceTime:  g.Game.CommenceTime,
				Team:          s.Team,
				Bookmaker:     book.Bookmaker,
				Line:          s.Point,
				Price:         s.Price,
				ModelSpread:   homeSpread,
				ModelProb:     cover,
				ImpliedProb:   implied,
				ExpectedValue: odds.ExpectedValue(cover, s.Price),
				Edge:          cover - implied,
				KellyStake:    CalculateKelly(cover, s.Price, f.cfg.KellyFraction),
			})
		}
	}

	return bets, stats
}

// MoneylineBets scores every game and returns the ranked positive-EV bets.
func (f *Finder) MoneylineBets(games []models.GameOdds, now time.Time) ([]MoneylineBet, MatchStats) {
	var all []MoneylineBet
	var stats MatchStats
	for _, g := range games {
		bets, s := f.ScoreMoneyline(g, now)
		all = append(all, bets...)
		stats.Add(s)
	}
	return RankMoneyline(all, f.cfg.TopN), stats
}

// SpreadBets scores every game and returns the ranked positive-EV bets.
func (f *Finder) SpreadBets(games []models.GameOdds, now time.Time) ([]SpreadBet, MatchStats) {
	var all []SpreadBet
	var stats MatchStats
	for _, g := range games {
		bets, s := f.ScoreSpread(g, now)
		all = append(all, bets...)
		stats.Add(s)
	}
	return RankSpread(all, f.cfg.TopN), stats
}

// RankMoneyline keeps bets with positive EV, sorts them by EV descending
// (stable, so equal EVs keep input order) and truncates to topN when topN > 0.
func RankMoneyline(bets []MoneylineBet, topN int) []MoneylineBet {
	return rankByEV(bets, func(b MoneylineBet) float64 { return b.ExpectedValue }, topN)
}

// RankSpread is RankMoneyline for spread bets.
func RankSpread(bets []SpreadBet, topN int) []SpreadBet {
	return rankByEV(bets, func(b SpreadBet) float64 { return b.ExpectedValue }, topN)
}

func rankByEV[T any](bets []T, ev func(T) float64, topN int) []T {
	out := make([]T, 0, len(bets))
	for _, b := range bets {
		if ev(b) > 0 {
			out = append(out, b)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return ev(out[i]) > ev(out[j])
	})

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// FindMoneylineBets returns positive-EV moneyline bets for games that start
// after now, using the default team aliases.
func FindMoneylineBets(games []models.GameOdds, preds []models.GamePrediction, now time.Time, cfg Config) ([]MoneylineBet, MatchStats) {
	return NewFinder(preds, teams.NewResolver(), cfg).MoneylineBets(games, now)
}

// FindSpreadBets returns positive-EV spread bets for games that start after
// now, using the default team aliases.
func FindSpreadBets(games []models.GameOdds, preds []models.GamePrediction, now time.Time, cfg Config) ([]SpreadBet, MatchStats) {
	return NewFinder(preds, teams.NewResolver(), cfg).SpreadBets(games, now)
}
