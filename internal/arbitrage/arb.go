package arbitrage

import (
	"fmt"
	"math"
	"sort"

	"college-betting-ev/internal/models"
	"college-betting-ev/internal/odds"
)

// DefaultPointTolerance is how far apart two opposing spread lines may be,
// in points, and still be treated as the same market.
const DefaultPointTolerance = 0.1

// Config holds configuration for arbitrage detection
type Config struct {
	PointTolerance float64 // Max |point1 + point2| for opposing spread quotes
	MinProfitPct   float64 // Minimum profit percentage to report (e.g., 0.5 = 0.5%)
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		PointTolerance: DefaultPointTolerance,
		MinProfitPct:   0,
	}
}

// MoneylineArb is a riskless pair of moneyline bets, possibly at different books.
type MoneylineArb struct {
	GameID        string
	HomeTeam      string
	AwayTeam      string
	HomeBookmaker string
	AwayBookmaker string
	HomePrice     int
	AwayPrice     int
	CombinedProb  float64 // Sum of implied probabilities; below 1 for an arb
	ProfitPct     float64 // Guaranteed return on total stake, in percent
	HomeStakePct  float64 // Share of total stake on the home side, in percent
	AwayStakePct  float64
}

func (a MoneylineArb) String() string {
	return fmt.Sprintf("%s @ %s | Home: %s (%s) on %s [%.2f%%] | Away: %s (%s) on %s [%.2f%%] | Profit: %.2f%%",
		a.AwayTeam, a.HomeTeam,
		a.HomeTeam, odds.FormatAmerican(a.HomePrice), a.HomeBookmaker, a.HomeStakePct,
		a.AwayTeam, odds.FormatAmerican(a.AwayPrice), a.AwayBookmaker, a.AwayStakePct,
		a.ProfitPct)
}

// SpreadLeg is one side of a spread arbitrage.
type SpreadLeg struct {
	Team      string
	Point     float64
	Price     int
	Bookmaker string
	StakePct  float64
}

func (l SpreadLeg) String() string {
	return fmt.Sprintf("%s (%+.1f) (%s) on %s [%.2f%%]", l.Team, l.Point, odds.FormatAmerican(l.Price), l.Bookmaker, l.StakePct)
}

// SpreadArb is a riskless pair of opposing spread bets.
type SpreadArb struct {
	GameID       string
	HomeTeam     string
	AwayTeam     string
	Side1        SpreadLeg
	Side2        SpreadLeg
	CombinedProb float64
	ProfitPct    float64
}

func (a SpreadArb) String() string {
	return fmt.Sprintf("%s @ %s | %s | %s | Profit: %.2f%%", a.AwayTeam, a.HomeTeam, a.Side1, a.Side2, a.ProfitPct)
}

// evaluate checks a two-way price pair. ok is false when the pair is not an
// arbitrage or its profit is below minProfitPct.
func evaluate(price1, price2 int, minProfitPct float64) (combined, profitPct, stake1, stake2 float64, ok bool) {
	p1 := odds.AmericanToImplied(price1)
	p2 := odds.AmericanToImplied(price2)
	combined = p1 + p2
	if combined >= 1 {
		return combined, 0, 0, 0, false
	}

	profitPct = (1/combined - 1) * 100
	if profitPct < minProfitPct {
		return combined, profitPct, 0, 0, false
	}

	stake1 = p1 / combined * 100
	stake2 = 100 - stake1
	return combined, profitPct, stake1, stake2, true
}

type bestPrice struct {
	price     int
	bookmaker string
	found     bool
}

func (b *bestPrice) offer(price int, bookmaker string) {
	if !b.found || price > b.price {
		b.price = price
		b.bookmaker = bookmaker
		b.found = true
	}
}

// GameMoneylineArbitrage combines the best home price and the best away price
// across all books for one game. Outcomes are matched to sides by exact team
// name. Returns nil when either side is unquoted or the pair is not an arb.
func GameMoneylineArbitrage(g models.GameOdds, cfg Config) *MoneylineArb {
	var home, away bestPrice

	for _, book := range g.Odds {
		for _, ml := range book.Moneyline {
			if !odds.ValidPrice(ml.Price) {
				continue
			}
			switch ml.Team {
			case g.Game.HomeTeam:
				home.offer(ml.Price, book.Bookmaker)
			case g.Game.AwayTeam:
				away.offer(ml.Price, book.Bookmaker)
			}
		}
	}

	if !home.found || !away.found {
		return nil
	}

	combined, profit, homeStake, awayStake, ok := evaluate(home.price, away.price, cfg.MinProfitPct)
	if !ok {
		return nil
	}

	return &MoneylineArb{
		GameID:        g.Game.ID,
		HomeTeam:      g.Game.HomeTeam,
		AwayTeam:      g.Game.AwayTeam,
		HomeBookmaker: home.bookmaker,
		AwayBookmaker: away.bookmaker,
		HomePrice:     home.price,
		AwayPrice:     away.price,
		CombinedProb:  combined,
		ProfitPct:     profit,
		HomeStakePct:  homeStake,
		AwayStakePct:  awayStake,
	}
}

type spreadQuote struct {
	team      string
	point     float64
	price     int
	bookmaker string
}

// GameSpreadArbitrage pairs every two spread quotes for one game and returns
// each opposing pair that forms an arb, in discovery order. Quotes are on
// opposite sides when their teams differ and their points cancel within
// cfg.PointTolerance.
func GameSpreadArbitrage(g models.GameOdds, cfg Config) []SpreadArb {
	var quotes []spreadQuote
	for _, book := range g.Odds {
		for _, s := range book.Spreads {
			if !odds.ValidPrice(s.Price) {
				continue
			}
			quotes = append(quotes, spreadQuote{s.Team, s.Point, s.Price, book.Bookmaker})
		}
	}

	var arbs []SpreadArb
	for i := 0; i < len(quotes); i++ {
		for j := i + 1; j < len(quotes); j++ {
			q1, q2 := quotes[i], quotes[j]
			if q1.team == q2.team || math.Abs(q1.point+q2.point) >= cfg.PointTolerance {
				continue
			}

			combined, profit, stake1, stake2, ok := evaluate(q1.price, q2.price, cfg.MinProfitPct)
			if !ok {
				continue
			}

			arbs = append(arbs, SpreadArb{
				GameID:       g.Game.ID,
				HomeTeam:     g.Game.HomeTeam,
				AwayTeam:     g.Game.AwayTeam,
				Side1:        SpreadLeg{q1.team, q1.point, q1.price, q1.bookmaker, stake1},
				Side2:        SpreadLeg{q2.team, q2.point, q2.price, q2.bookmaker, stake2},
				CombinedProb: combined,
				ProfitPct:    profit,
			})
		}
	}
	return arbs
}

// RankMoneyline sorts arbs by profit descending. Equal profits keep input order.
func RankMoneyline(arbs []MoneylineArb) []MoneylineArb {
	out := make([]MoneylineArb, len(arbs))
	copy(out, arbs)
	sortByProfit(out, func(a MoneylineArb) float64 { return a.ProfitPct })
	return out
}

type spreadKey struct {
	home, away, book1, book2 string
	profit                   float64
}

// RankSpread drops arbs that repeat the same game, bookmaker pair and profit,
// then sorts by profit descending. The first occurrence of a duplicate is kept.
func RankSpread(arbs []SpreadArb) []SpreadArb {
	seen := make(map[spreadKey]bool, len(arbs))
	out := make([]SpreadArb, 0, len(arbs))
	for _, a := range arbs {
		k := spreadKey{a.HomeTeam, a.AwayTeam, a.Side1.Bookmaker, a.Side2.Bookmaker, a.ProfitPct}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, a)
	}

	sortByProfit(out, func(a SpreadArb) float64 { return a.ProfitPct })
	return out
}

// sortByProfit orders arbs by profit descending in place. Equal profits keep
// their relative order.
func sortByProfit[T any](arbs []T, profit func(T) float64) {
	sort.SliceStable(arbs, func(i, j int) bool {
		return profit(arbs[i]) > profit(arbs[j])
	})
}

// FindMoneylineArbitrage returns every moneyline arb across games, most
// profitable first.
func FindMoneylineArbitrage(games []models.GameOdds, cfg Config) []MoneylineArb {
	var arbs []MoneylineArb
	for _, g := range games {
		if a := GameMoneylineArbitrage(g, cfg); a != nil {
			arbs = append(arbs, *a)
		}
	}
	return RankMoneyline(arbs)
}

// FindSpreadArbitrage returns every distinct spread arb across games, most
// profitable first.
func FindSpreadArbitrage(games []models.GameOdds, cfg Config) []SpreadArb {
	var arbs []SpreadArb
	for _, g := range games {
		arbs = append(arbs, GameSpreadArbitrage(g, cfg)...)
	}
	return RankSpread(arbs)
}
