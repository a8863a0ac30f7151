package ledger

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"college-betting-ev/internal/analysis"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Failed to create DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var kickoff = time.Date(2025, 9, 6, 19, 30, 0, 0, time.UTC)

func moneylineBet() analysis.MoneylineBet {
	return analysis.MoneylineBet{
		GameID:        "401",
		HomeTeam:      "Michigan Wolverines",
		AwayTeam:      "Ohio State Buckeyes",
		CommenceTime:  kickoff,
		Team:          "Ohio State Buckeyes",
		Bookmaker:     "FanDuel",
		Price:         -180,
		ModelProb:     0.75,
		ExpectedValue: 0.16667,
	}
}

func spreadBet() analysis.SpreadBet {
	return analysis.SpreadBet{
		GameID:        "401",
		HomeTeam:      "Michigan Wolverines",
		AwayTeam:      "Ohio State Buckeyes",
		CommenceTime:  kickoff,
		Team:          "Ohio State Buckeyes",
		Bookmaker:     "DraftKings",
		Line:          -6.5,
		Price:         -110,
		ModelProb:     0.61473,
		ExpectedValue: 0.17357,
	}
}

func TestRecordAndGet(t *testing.T) {
	db := newTestDB(t)

	id, inserted, err := db.RecordMoneyline(moneylineBet(), 25)
	if err != nil {
		t.Fatalf("RecordMoneyline: %v", err)
	}
	if !inserted || id == "" {
		t.Fatalf("inserted = %v, id = %q", inserted, id)
	}

	bet, err := db.GetBet(id)
	if err != nil {
		t.Fatalf("GetBet: %v", err)
	}
	if bet == nil {
		t.Fatal("expected bet")
	}

	if bet.Market != MarketMoneyline || bet.Team != "Ohio State Buckeyes" || bet.Price != -180 || bet.Stake != 25 {
		t.Errorf("bet = %+v", bet)
	}
	if !bet.CommenceTime.Equal(kickoff) {
		t.Errorf("CommenceTime = %v, want %v", bet.CommenceTime, kickoff)
	}
	if bet.Status != analysis.StatusPending {
		t.Errorf("Status = %q, want pending", bet.Status)
	}
	if bet.Payout != nil || bet.SettledAt != nil {
		t.Errorf("unsettled bet has payout %v settled %v", bet.Payout, bet.SettledAt)
	}

	missing, err := db.GetBet("nope")
	if err != nil || missing != nil {
		t.Errorf("GetBet(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestRecordDeduplicates(t *testing.T) {
	db := newTestDB(t)

	if _, inserted, err := db.RecordSpread(spreadBet(), 0); err != nil || !inserted {
		t.Fatalf("first insert: inserted=%v err=%v", inserted, err)
	}

	// A rescan of the same quote must not add a row
	if _, inserted, err := db.RecordSpread(spreadBet(), 0); err != nil || inserted {
		t.Fatalf("duplicate insert: inserted=%v err=%v", inserted, err)
	}

	// A moved line is a different bet
	moved := spreadBet()
	moved.Line = -7
	if _, inserted, err := db.RecordSpread(moved, 0); err != nil || !inserted {
		t.Fatalf("moved line: inserted=%v err=%v", inserted, err)
	}

	pending, err := db.Pending(MarketSpread)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Errorf("got %d pending spread bets, want 2", len(pending))
	}
}

func TestPendingByMarket(t *testing.T) {
	db := newTestDB(t)

	if _, _, err := db.RecordMoneyline(moneylineBet(), 0); err != nil {
		t.Fatal(err)
	}
	if _, _, err := db.RecordSpread(spreadBet(), 0); err != nil {
		t.Fatal(err)
	}

	ml, err := db.Pending(MarketMoneyline)
	if err != nil {
		t.Fatal(err)
	}
	if len(ml) != 1 || ml[0].Market != MarketMoneyline {
		t.Fatalf("moneyline pending = %+v", ml)
	}

	sp, err := db.Pending(MarketSpread)
	if err != nil {
		t.Fatal(err)
	}
	if len(sp) != 1 || sp[0].Line != -6.5 {
		t.Fatalf("spread pending = %+v", sp)
	}

	round := sp[0].SpreadBet()
	if round.Team != "Ohio State Buckeyes" || round.Line != -6.5 || round.Price != -110 {
		t.Errorf("SpreadBet() = %+v", round)
	}
}

func TestSettle(t *testing.T) {
	db := newTestDB(t)

	winID, _, _ := db.RecordMoneyline(moneylineBet(), 100)
	lossID, _, _ := db.RecordSpread(spreadBet(), 50)

	win := 100.0 / 180.0
	if err := db.Settle(winID, analysis.StatusWon, &win); err != nil {
		t.Fatalf("Settle won: %v", err)
	}
	zero := 0.0
	if err := db.Settle(lossID, analysis.StatusLost, &zero); err != nil {
		t.Fatalf("Settle lost: %v", err)
	}

	bet, err := db.GetBet(winID)
	if err != nil {
		t.Fatal(err)
	}
	if bet.Status != analysis.StatusWon || bet.Payout == nil || math.Abs(*bet.Payout-win) > 1e-9 || bet.SettledAt == nil {
		t.Errorf("settled bet = %+v", bet)
	}

	pending, err := db.Pending(MarketMoneyline)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("got %d pending after settlement, want 0", len(pending))
	}

	s, err := db.Summarize()
	if err != nil {
		t.Fatal(err)
	}
	if s.Counts[analysis.StatusWon] != 1 || s.Counts[analysis.StatusLost] != 1 {
		t.Errorf("Counts = %v", s.Counts)
	}
	if math.Abs(s.UnitProfit-(win-1)) > 1e-9 {
		t.Errorf("UnitProfit = %v, want %v", s.UnitProfit, win-1)
	}
	if math.Abs(s.DollarPnL-(100*win-50)) > 1e-6 {
		t.Errorf("DollarPnL = %v, want %v", s.DollarPnL, 100*win-50)
	}
	if s.DollarStake != 150 {
		t.Errorf("DollarStake = %v, want 150", s.DollarStake)
	}
}

func TestSettleUnmatchedStaysPending(t *testing.T) {
	db := newTestDB(t)

	id, _, _ := db.RecordMoneyline(moneylineBet(), 0)
	if err := db.Settle(id, analysis.StatusUnmatched, nil); err != nil {
		t.Fatal(err)
	}

	pending, err := db.Pending(MarketMoneyline)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].Status != analysis.StatusUnmatched || pending[0].Payout != nil {
		t.Errorf("pending = %+v", pending)
	}
}

func TestSettleMissing(t *testing.T) {
	db := newTestDB(t)
	zero := 0.0
	if err := db.Settle("missing", analysis.StatusLost, &zero); err == nil {
		t.Error("expected error settling unknown bet")
	}
}
