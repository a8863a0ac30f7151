package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"college-betting-ev/internal/analysis"
)

// Market identifies the bet type of a ledger entry.
type Market string

const (
	MarketMoneyline Market = "moneyline"
	MarketSpread    Market = "spread"
)

// Bet is a recommended bet as stored in the ledger
type Bet struct {
	ID            string
	Market        Market
	GameID        string
	HomeTeam      string
	AwayTeam      string
	CommenceTime  time.Time
	Team          string
	Bookmaker     string
	Price         int
	Line          float64 // 0 for moneyline
	ModelProb     float64
	ExpectedValue float64
	Stake         float64 // Dollars; 0 when no bankroll is configured
	Status        analysis.SettlementStatus
	Payout        *float64 // Profit per unit stake once settled
	CreatedAt     time.Time
	SettledAt     *time.Time
}

// MoneylineBet rebuilds the analysis view of a moneyline entry for settlement.
func (b Bet) MoneylineBet() analysis.MoneylineBet {
	return analysis.MoneylineBet{
		GameID:        b.GameID,
		HomeTeam:      b.HomeTeam,
		AwayTeam:      b.AwayTeam,
		CommenceTime:  b.CommenceTime,
		Team:          b.Team,
		Bookmaker:     b.Bookmaker,
		Price:         b.Price,
		ModelProb:     b.ModelProb,
		ExpectedValue: b.ExpectedValue,
	}
}

// SpreadBet rebuilds the analysis view of a spread entry for settlement.
func (b Bet) SpreadBet() analysis.SpreadBet {
	return analysis.SpreadBet{
		GameID:        b.GameID,
		HomeTeam:      b.HomeTeam,
		AwayTeam:      b.AwayTeam,
		CommenceTime:  b.CommenceTime,
		Team:          b.Team,
		Bookmaker:     b.Bookmaker,
		Line:          b.Line,
		Price:         b.Price,
		ModelProb:     b.ModelProb,
		ExpectedValue: b.ExpectedValue,
	}
}

// DB handles bet storage
type DB struct {
	db *sql.DB
}

// NewDB opens (or creates) the ledger at dbPath
func NewDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS bets (
		id TEXT PRIMARY KEY,
		market TEXT NOT NULL,
		game_id TEXT NOT NULL,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		commence_time DATETIME NOT NULL,
		team TEXT NOT NULL,
		bookmaker TEXT NOT NULL,
		price INTEGER NOT NULL,
		line REAL NOT NULL DEFAULT 0,
		model_prob REAL NOT NULL,
		ev REAL NOT NULL,
		stake REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		payout REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		settled_at DATETIME,
		UNIQUE (market, game_id, team, bookmaker, line)
	);

	CREATE INDEX IF NOT EXISTS idx_bets_status ON bets(status);
	CREATE INDEX IF NOT EXISTS idx_bets_game ON bets(game_id);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// Record stores a bet. A bet on the same market, game, team, bookmaker and
// line as an existing entry is ignored; inserted reports whether a row was
// written.
func (d *DB) Record(bet Bet) (id string, inserted bool, err error) {
	if bet.ID == "" {
		bet.ID = uuid.NewString()
	}
	if bet.Status == "" {
		bet.Status = analysis.StatusPending
	}

	result, err := d.db.Exec(`
		INSERT OR IGNORE INTO bets (id, market, game_id, home_team, away_team, commence_time,
			team, bookmaker, price, line, model_prob, ev, stake, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, bet.ID, bet.Market, bet.GameID, bet.HomeTeam, bet.AwayTeam, bet.CommenceTime.UTC(),
		bet.Team, bet.Bookmaker, bet.Price, bet.Line, bet.ModelProb, bet.ExpectedValue, bet.Stake, bet.Status)
	if err != nil {
		return "", false, fmt.Errorf("inserting bet: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("inserting bet: %w", err)
	}
	return bet.ID, n > 0, nil
}

// RecordMoneyline stores a moneyline recommendation with a dollar stake.
func (d *DB) RecordMoneyline(b analysis.MoneylineBet, stake float64) (string, bool, error) {
	return d.Record(Bet{
		Market:        MarketMoneyline,
		GameID:        b.GameID,
		HomeTeam:      b.HomeTeam,
		AwayTeam:      b.AwayTeam,
		CommenceTime:  b.CommenceTime,
		Team:          b.Team,
		Bookmaker:     b.Bookmaker,
		Price:         b.Price,
		ModelProb:     b.ModelProb,
		ExpectedValue: b.ExpectedValue,
		Stake:         stake,
	})
}

// RecordSpread stores a spread recommendation with a dollar stake.
func (d *DB) RecordSpread(b analysis.SpreadBet, stake float64) (string, bool, error) {
	return d.Record(Bet{
		Market:        MarketSpread,
		GameID:        b.GameID,
		HomeTeam:      b.HomeTeam,
		AwayTeam:      b.AwayTeam,
		CommenceTime:  b.CommenceTime,
		Team:          b.Team,
		Bookmaker:     b.Bookmaker,
		Price:         b.Price,
		Line:          b.Line,
		ModelProb:     b.ModelProb,
		ExpectedValue: b.ExpectedValue,
		Stake:         stake,
	})
}

const selectBets = `
	SELECT id, market, game_id, home_team, away_team, commence_time, team, bookmaker,
		price, line, model_prob, ev, stake, status, payout, created_at, settled_at
	FROM bets`

func scanBet(rows interface{ Scan(...any) error }) (Bet, error) {
	var (
		b         Bet
		payout    sql.NullFloat64
		settledAt sql.NullTime
	)
	err := rows.Scan(&b.ID, &b.Market, &b.GameID, &b.HomeTeam, &b.AwayTeam, &b.CommenceTime,
		&b.Team, &b.Bookmaker, &b.Price, &b.Line, &b.ModelProb, &b.ExpectedValue, &b.Stake,
		&b.Status, &payout, &b.CreatedAt, &settledAt)
	if err != nil {
		return Bet{}, err
	}
	if payout.Valid {
		b.Payout = &payout.Float64
	}
	if settledAt.Valid {
		b.SettledAt = &settledAt.Time
	}
	return b, nil
}

func (d *DB) query(q string, args ...any) ([]Bet, error) {
	rows, err := d.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bets: %w", err)
	}
	defer rows.Close()

	var bets []Bet
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bet row: %w", err)
		}
		bets = append(bets, b)
	}

	return bets, rows.Err()
}

// GetBet retrieves a bet by ID. Returns nil when no such bet exists.
func (d *DB) GetBet(id string) (*Bet, error) {
	row := d.db.QueryRow(selectBets+` WHERE id = ?`, id)
	b, err := scanBet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning bet: %w", err)
	}
	return &b, nil
}

// Pending returns unsettled bets of one market, oldest game first
func (d *DB) Pending(market Market) ([]Bet, error) {
	return d.query(selectBets+`
		WHERE market = ? AND status IN ('pending', 'unmatched')
		ORDER BY commence_time, created_at`, market)
}

// All returns every bet, newest first
func (d *DB) All() ([]Bet, error) {
	return d.query(selectBets + ` ORDER BY created_at DESC, id`)
}

// Settle writes an outcome. Pending and unmatched outcomes only update the
// status; the others also store the payout and settlement time.
func (d *DB) Settle(id string, status analysis.SettlementStatus, payout *float64) error {
	var (
		result sql.Result
		err    error
	)
	switch status {
	case analysis.StatusPending, analysis.StatusUnmatched:
		result, err = d.db.Exec(`UPDATE bets SET status = ? WHERE id = ?`, status, id)
	default:
		p := 0.0
		if payout != nil {
			p = *payout
		}
		result, err = d.db.Exec(`UPDATE bets SET status = ?, payout = ?, settled_at = ? WHERE id = ?`,
			status, p, time.Now().UTC(), id)
	}
	if err != nil {
		return fmt.Errorf("settling bet %s: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("settling bet %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("settling bet %s: not found", id)
	}
	return nil
}

// Summary totals the ledger by status.
type Summary struct {
	Counts      map[analysis.SettlementStatus]int
	UnitProfit  float64 // Sum of unit payouts, losses count -1
	DollarStake float64
	DollarPnL   float64 // Stake-weighted profit over settled bets
}

// Summarize computes totals over every bet in the ledger
func (d *DB) Summarize() (Summary, error) {
	rows, err := d.db.Query(`
		SELECT status, COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'won' THEN payout WHEN status = 'lost' THEN -1 ELSE 0 END), 0),
			COALESCE(SUM(stake), 0),
			COALESCE(SUM(CASE WHEN status = 'won' THEN payout * stake WHEN status = 'lost' THEN -stake ELSE 0 END), 0)
		FROM bets GROUP BY status
	`)
	if err != nil {
		return Summary{}, fmt.Errorf("summarizing bets: %w", err)
	}
	defer rows.Close()

	s := Summary{Counts: make(map[analysis.SettlementStatus]int)}
	for rows.Next() {
		var (
			status             analysis.SettlementStatus
			count              int
			units, stake, dpnl float64
		)
		if err := rows.Scan(&status, &count, &units, &stake, &dpnl); err != nil {
			return Summary{}, fmt.Errorf("scanning summary row: %w", err)
		}
		s.Counts[status] = count
		s.UnitProfit += units
		s.DollarStake += stake
		s.DollarPnL += dpnl
	}
	return s, rows.Err()
}
