package arbitrage

import (
	"math"
	"reflect"
	"testing"
	"time"

	"college-betting-ev/internal/models"
)

func game(id, home, away string, books ...models.BettingOdds) models.GameOdds {
	return models.GameOdds{
		Game: models.Game{ID: id, HomeTeam: home, AwayTeam: away, CommenceTime: time.Date(2025, 9, 6, 19, 30, 0, 0, time.UTC)},
		Odds: books,
	}
}

func mlBook(name string, quotes ...models.MoneylineOdds) models.BettingOdds {
	return models.BettingOdds{Bookmaker: name, Moneyline: quotes}
}

func spBook(name string, quotes ...models.SpreadOdds) models.BettingOdds {
	return models.BettingOdds{Bookmaker: name, Spreads: quotes}
}

func TestFindMoneylineArbitrage(t *testing.T) {
	tests := []struct {
		name      string
		games     []models.GameOdds
		wantCount int
	}{
		{
			name: "clear arb across two books",
			games: []models.GameOdds{game("g1", "Home", "Away",
				mlBook("book1", models.MoneylineOdds{Team: "Home", Price: 120}, models.MoneylineOdds{Team: "Away", Price: -150}),
				mlBook("book2", models.MoneylineOdds{Team: "Home", Price: -140}, models.MoneylineOdds{Team: "Away", Price: 125}),
			)},
			wantCount: 1,
		},
		{
			name: "standard juice is not an arb",
			games: []models.GameOdds{game("g1", "Home", "Away",
				mlBook("book1", models.MoneylineOdds{Team: "Home", Price: -110}, models.MoneylineOdds{Team: "Away", Price: -110}),
			)},
			wantCount: 0,
		},
		{
			name: "one side unquoted",
			games: []models.GameOdds{game("g1", "Home", "Away",
				mlBook("book1", models.MoneylineOdds{Team: "Home", Price: 500}),
			)},
			wantCount: 0,
		},
		{
			name: "team names must match exactly",
			games: []models.GameOdds{game("g1", "Home", "Away",
				mlBook("book1", models.MoneylineOdds{Team: "Home", Price: 120}, models.MoneylineOdds{Team: "Away Team", Price: 125}),
			)},
			wantCount: 0,
		},
		{
			name:      "empty input",
			games:     nil,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arbs := FindMoneylineArbitrage(tt.games, DefaultConfig())
			if len(arbs) != tt.wantCount {
				t.Fatalf("got %d arbs, want %d: %+v", len(arbs), tt.wantCount, arbs)
			}
		})
	}
}

func TestMoneylineArbitrageValues(t *testing.T) {
	g := game("g1", "Home", "Away",
		mlBook("book1", models.MoneylineOdds{Team: "Home", Price: 120}, models.MoneylineOdds{Team: "Away", Price: -150}),
		mlBook("book2", models.MoneylineOdds{Team: "Home", Price: -140}, models.MoneylineOdds{Team: "Away", Price: 125}),
	)

	arb := GameMoneylineArbitrage(g, DefaultConfig())
	if arb == nil {
		t.Fatal("expected arb")
	}

	if arb.HomeBookmaker != "book1" || arb.AwayBookmaker != "book2" || arb.HomePrice != 120 || arb.AwayPrice != 125 {
		t.Errorf("legs = %s %d / %s %d", arb.HomeBookmaker, arb.HomePrice, arb.AwayBookmaker, arb.AwayPrice)
	}
	if math.Abs(arb.CombinedProb-0.89899) > 0.0001 {
		t.Errorf("CombinedProb = %v, want 0.89899", arb.CombinedProb)
	}
	if math.Abs(arb.ProfitPct-11.236) > 0.001 {
		t.Errorf("ProfitPct = %v, want 11.236", arb.ProfitPct)
	}
	if arb.ProfitPct <= 0 {
		t.Errorf("ProfitPct = %v, want > 0", arb.ProfitPct)
	}
	if sum := arb.HomeStakePct + arb.AwayStakePct; sum < 99 || sum > 101 {
		t.Errorf("stake percentages sum to %v", sum)
	}
	if math.Abs(arb.HomeStakePct-50.562) > 0.001 {
		t.Errorf("HomeStakePct = %v, want 50.562", arb.HomeStakePct)
	}
}

func TestMoneylineArbitrageBestPriceTieKeepsFirstBook(t *testing.T) {
	g := game("g1", "Home", "Away",
		mlBook("first", models.MoneylineOdds{Team: "Home", Price: 130}),
		mlBook("second", models.MoneylineOdds{Team: "Home", Price: 130}, models.MoneylineOdds{Team: "Away", Price: 110}),
	)

	arb := GameMoneylineArbitrage(g, DefaultConfig())
	if arb == nil || arb.HomeBookmaker != "first" {
		t.Errorf("arb = %+v, want home leg at first", arb)
	}
}

func TestMoneylineArbitrageMinProfit(t *testing.T) {
	g := game("g1", "Home", "Away",
		mlBook("book1", models.MoneylineOdds{Team: "Home", Price: 105}, models.MoneylineOdds{Team: "Away", Price: 100}),
	)

	if arb := GameMoneylineArbitrage(g, DefaultConfig()); arb == nil {
		t.Fatal("expected small arb with default config")
	}

	cfg := DefaultConfig()
	cfg.MinProfitPct = 5
	if arb := GameMoneylineArbitrage(g, cfg); arb != nil {
		t.Errorf("arb with profit %.2f%% should be filtered at 5%%", arb.ProfitPct)
	}
}

func TestMoneylineArbitrageSkipsZeroPrices(t *testing.T) {
	g := game("g1", "Home", "Away",
		mlBook("broken", models.MoneylineOdds{Team: "Home", Price: 0}, models.MoneylineOdds{Team: "Away", Price: 0}),
		mlBook("book1", models.MoneylineOdds{Team: "Home", Price: -110}, models.MoneylineOdds{Team: "Away", Price: -110}),
	)
	if arb := GameMoneylineArbitrage(g, DefaultConfig()); arb != nil {
		t.Errorf("unexpected arb %+v", arb)
	}
}

func TestFindSpreadArbitrage(t *testing.T) {
	tests := []struct {
		name      string
		books     []models.BettingOdds
		wantCount int
	}{
		{
			name: "opposite lines at plus money",
			books: []models.BettingOdds{
				spBook("book1", models.SpreadOdds{Team: "Home", Point: -7, Price: 110}),
				spBook("book2", models.SpreadOdds{Team: "Away", Point: 7, Price: 110}),
			},
			wantCount: 1,
		},
		{
			name: "half point apart",
			books: []models.BettingOdds{
				spBook("book1", models.SpreadOdds{Team: "Home", Point: -7, Price: 110}),
				spBook("book2", models.SpreadOdds{Team: "Away", Point: 6.5, Price: 110}),
			},
			wantCount: 0,
		},
		{
			name: "same team never pairs",
			books: []models.BettingOdds{
				spBook("book1", models.SpreadOdds{Team: "Home", Point: -7, Price: 110}),
				spBook("book2", models.SpreadOdds{Team: "Home", Point: 7, Price: 110}),
			},
			wantCount: 0,
		},
		{
			name: "standard juice",
			books: []models.BettingOdds{
				spBook("book1", models.SpreadOdds{Team: "Home", Point: -3.5, Price: -110}, models.SpreadOdds{Team: "Away", Point: 3.5, Price: -110}),
			},
			wantCount: 0,
		},
		{
			name: "order independent",
			books: []models.BettingOdds{
				spBook("book2", models.SpreadOdds{Team: "Away", Point: 7, Price: 110}),
				spBook("book1", models.SpreadOdds{Team: "Home", Point: -7, Price: 110}),
			},
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arbs := FindSpreadArbitrage([]models.GameOdds{game("g1", "Home", "Away", tt.books...)}, DefaultConfig())
			if len(arbs) != tt.wantCount {
				t.Fatalf("got %d arbs, want %d: %+v", len(arbs), tt.wantCount, arbs)
			}
		})
	}
}

func TestSpreadArbitrageValues(t *testing.T) {
	g := game("g1", "Home", "Away",
		spBook("book1", models.SpreadOdds{Team: "Home", Point: -7, Price: 110}),
		spBook("book2", models.SpreadOdds{Team: "Away", Point: 7, Price: 110}),
	)

	arbs := GameSpreadArbitrage(g, DefaultConfig())
	if len(arbs) != 1 {
		t.Fatalf("got %d arbs, want 1", len(arbs))
	}
	a := arbs[0]
	if a.Side1.Team != "Home" || a.Side1.Bookmaker != "book1" || a.Side2.Team != "Away" || a.Side2.Bookmaker != "book2" {
		t.Errorf("legs = %+v / %+v", a.Side1, a.Side2)
	}
	if math.Abs(a.ProfitPct-5) > 1e-9 {
		t.Errorf("ProfitPct = %v, want 5", a.ProfitPct)
	}
	if math.Abs(a.Side1.StakePct-50) > 1e-9 || math.Abs(a.Side2.StakePct-50) > 1e-9 {
		t.Errorf("stakes = %v / %v, want 50 / 50", a.Side1.StakePct, a.Side2.StakePct)
	}
}

func TestSpreadArbitrageTolerance(t *testing.T) {
	g := game("g1", "Home", "Away",
		spBook("book1", models.SpreadOdds{Team: "Home", Point: -7, Price: 110}),
		spBook("book2", models.SpreadOdds{Team: "Away", Point: 6.5, Price: 110}),
	)

	cfg := DefaultConfig()
	cfg.PointTolerance = 0.6
	if arbs := GameSpreadArbitrage(g, cfg); len(arbs) != 1 {
		t.Errorf("with tolerance 0.6 got %d arbs, want 1", len(arbs))
	}
}

func TestRankSpreadDedupAndOrder(t *testing.T) {
	leg := func(book string) SpreadLeg { return SpreadLeg{Bookmaker: book} }
	arbs := []SpreadArb{
		{HomeTeam: "H", AwayTeam: "A", Side1: leg("b1"), Side2: leg("b2"), ProfitPct: 1},
		{HomeTeam: "H", AwayTeam: "A", Side1: leg("b1"), Side2: leg("b3"), ProfitPct: 3},
		{HomeTeam: "H", AwayTeam: "A", Side1: leg("b1"), Side2: leg("b2"), ProfitPct: 1},
		{HomeTeam: "X", AwayTeam: "Y", Side1: leg("b1"), Side2: leg("b2"), ProfitPct: 1},
	}

	ranked := RankSpread(arbs)
	if len(ranked) != 3 {
		t.Fatalf("got %d arbs after dedup, want 3", len(ranked))
	}
	if ranked[0].ProfitPct != 3 || ranked[1].HomeTeam != "H" || ranked[2].HomeTeam != "X" {
		t.Errorf("ranked = %+v", ranked)
	}
}

func TestArbitrageIdempotent(t *testing.T) {
	games := []models.GameOdds{
		game("g1", "Home", "Away",
			mlBook("book1", models.MoneylineOdds{Team: "Home", Price: 120}),
			mlBook("book2", models.MoneylineOdds{Team: "Away", Price: 125}),
			spBook("book1", models.SpreadOdds{Team: "Home", Point: -7, Price: 110}),
			spBook("book2", models.SpreadOdds{Team: "Away", Point: 7, Price: 110}),
		),
		game("g2", "Other", "Team",
			mlBook("book3", models.MoneylineOdds{Team: "Other", Price: 150}, models.MoneylineOdds{Team: "Team", Price: 110}),
		),
	}

	ml1, ml2 := FindMoneylineArbitrage(games, DefaultConfig()), FindMoneylineArbitrage(games, DefaultConfig())
	if !reflect.DeepEqual(ml1, ml2) {
		t.Error("moneyline arbs differ between identical runs")
	}
	if len(ml1) != 2 || ml1[0].GameID != "g2" {
		t.Errorf("moneyline arbs = %+v, want g2 first", ml1)
	}

	sp1, sp2 := FindSpreadArbitrage(games, DefaultConfig()), FindSpreadArbitrage(games, DefaultConfig())
	if !reflect.DeepEqual(sp1, sp2) {
		t.Error("spread arbs differ between identical runs")
	}
}

func TestArbString(t *testing.T) {
	a := MoneylineArb{HomeTeam: "H", AwayTeam: "A", HomeBookmaker: "b1", AwayBookmaker: "b2", HomePrice: 120, AwayPrice: -105, HomeStakePct: 50, AwayStakePct: 50, ProfitPct: 2.5}
	want := "A @ H | Home: H (+120) on b1 [50.00%] | Away: A (-105) on b2 [50.00%] | Profit: 2.50%"
	if got := a.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
