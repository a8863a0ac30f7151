package analysis

import (
	"fmt"
	"log/slog"

	"college-betting-ev/internal/models"
	"college-betting-ev/internal/teams"
)

// MatchStats counts how a batch of games joined against predictions.
// Finders return it instead of printing so join failures stay observable.
type MatchStats struct {
	Games          int      // games examined
	Started        int      // skipped because they had already commenced
	Matched        int      // games with a prediction
	Unmatched      int      // games without a prediction
	UnmatchedGames []string // "Away @ Home" for each unmatched game
	Ambiguous      int      // games whose two sides resolve to the same team key
	AmbiguousGames []string // "Away @ Home" for each ambiguous game
	InvalidQuotes  int      // quotes with an unusable price
	UnknownTeams   int      // quotes whose team matched neither side
}

// Add accumulates other into s.
func (s *MatchStats) Add(other MatchStats) {
	s.Games += other.Games
	s.Started += other.Started
	s.Matched += other.Matched
	s.Unmatched += other.Unmatched
	s.UnmatchedGames = append(s.UnmatchedGames, other.UnmatchedGames...)
	s.Ambiguous += other.Ambiguous
	s.AmbiguousGames = append(s.AmbiguousGames, other.AmbiguousGames...)
	s.InvalidQuotes += other.InvalidQuotes
	s.UnknownTeams += other.UnknownTeams
}

// MatchRate is the fraction of examined, not-yet-started games that matched.
func (s MatchStats) MatchRate() float64 {
	total := s.Matched + s.Unmatched + s.Ambiguous
	if total == 0 {
		return 0
	}
	return float64(s.Matched) / float64(total)
}

// Match is a prediction joined to a game, with the prediction's own team keys.
type Match struct {
	Prediction models.GamePrediction
	HomeKey    string
	AwayKey    string
}

// WinProb returns the model's win probability for the team with key teamKey.
func (m Match) WinProb(teamKey string) (float64, bool) {
	switch teamKey {
	case m.HomeKey:
		return m.Prediction.HomeWinProb, true
	case m.AwayKey:
		return m.Prediction.AwayWinProb, true
	}
	return 0, false
}

// SpreadFor returns the model's predicted margin from teamKey's perspective.
// The prediction's spread is home-perspective, so the away side is negated.
func (m Match) SpreadFor(teamKey string) (float64, bool) {
	switch teamKey {
	case m.HomeKey:
		return m.Prediction.Spread, true
	case m.AwayKey:
		return -m.Prediction.Spread, true
	}
	return 0, false
}

// PredictionIndex looks predictions up by team-key pair in either order.
type PredictionIndex struct {
	resolver   *teams.Resolver
	byPair     map[string]Match
	collisions []models.GamePrediction
}

// NewPredictionIndex indexes preds under "{home}_{away}" and "{away}_{home}".
// When two predictions share a pair the later one wins. Predictions whose
// sides share a key are left out and reported by Collisions.
func NewPredictionIndex(preds []models.GamePrediction, resolver *teams.Resolver) *PredictionIndex {
	idx := &PredictionIndex{
		resolver: resolver,
		byPair:   make(map[string]Match, len(preds)*2),
	}

	for _, p := range preds {
		m := Match{
			Prediction: p,
			HomeKey:    resolver.Key(p.HomeTeam),
			AwayKey:    resolver.Key(p.AwayTeam),
		}
		if m.HomeKey == m.AwayKey {
			slog.Warn("Prediction sides share a team key", "home", p.HomeTeam, "away", p.AwayTeam, "key", m.HomeKey)
			idx.collisions = append(idx.collisions, p)
			continue
		}
		idx.byPair[m.HomeKey+"_"+m.AwayKey] = m
		idx.byPair[m.AwayKey+"_"+m.HomeKey] = m
	}

	return idx
}

// Lookup finds the prediction for game using the game's own home/away keys.
// A game whose sides share a key never matches.
func (idx *PredictionIndex) Lookup(game models.Game) (Match, bool) {
	if SidesCollide(idx.resolver, game.HomeTeam, game.AwayTeam) {
		return Match{}, false
	}
	m, ok := idx.byPair[idx.resolver.PairKey(game.HomeTeam, game.AwayTeam)]
	return m, ok
}

// Collisions returns the predictions skipped because both sides resolved to
// the same team key.
func (idx *PredictionIndex) Collisions() []models.GamePrediction {
	return idx.collisions
}

// SidesCollide reports whether home and away resolve to the same team key.
// Such a matchup cannot be oriented, so quotes could not be assigned a side.
func SidesCollide(resolver *teams.Resolver, home, away string) bool {
	return resolver.Key(home) == resolver.Key(away)
}

// Resolver returns the resolver the index was built with.
func (idx *PredictionIndex) Resolver() *teams.Resolver {
	return idx.resolver
}

func gameLabel(g models.Game) string {
	return fmt.Sprintf("%s @ %s", g.AwayTeam, g.HomeTeam)
}
