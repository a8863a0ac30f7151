package alerts

import (
	"fmt"
	"log"
	"sync"
	"time"

	"college-betting-ev/internal/analysis"
	"college-betting-ev/internal/arbitrage"
	"college-betting-ev/internal/odds"
)

// Notifier handles alert notifications
type Notifier struct {
	mu         sync.Mutex
	lastAlerts map[string]time.Time // Dedupe alerts
	cooldown   time.Duration        // Minimum time between same alerts
	logger     *log.Logger
}

// NewNotifier creates a new notifier that writes to the standard logger
func NewNotifier(cooldown time.Duration) *Notifier {
	return NewNotifierWithLogger(cooldown, log.Default())
}

// NewNotifierWithLogger creates a notifier writing to logger
func NewNotifierWithLogger(cooldown time.Duration, logger *log.Logger) *Notifier {
	return &Notifier{
		lastAlerts: make(map[string]time.Time),
		cooldown:   cooldown,
		logger:     logger,
	}
}

// checkCooldown reports whether key was alerted within the cooldown window.
// When it was not, the key is stamped with the current time.
func (n *Notifier) checkCooldown(key string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if lastTime, ok := n.lastAlerts[key]; ok {
		if time.Since(lastTime) < n.cooldown {
			return true
		}
	}
	n.lastAlerts[key] = time.Now()
	return false
}

// AlertMoneyline sends an alert for a +EV moneyline bet. Returns false when
// the alert was suppressed by the cooldown.
func (n *Notifier) AlertMoneyline(bet analysis.MoneylineBet) bool {
	key := fmt.Sprintf("ml-%s-%s-%s-%d", bet.GameID, bet.Team, bet.Bookmaker, bet.Price)
	if n.checkCooldown(key) {
		return false
	}

	n.logger.Printf("+EV ML: %s %s on %s (%s@%s) | model=%.1f%% implied=%.1f%% novig=%.1f%% market=%.1f%% ev=%.2f%% kelly=%.1f%%",
		bet.Team, odds.FormatAmerican(bet.Price), bet.Bookmaker,
		bet.AwayTeam, bet.HomeTeam,
		bet.ModelProb*100, bet.ImpliedProb*100,
		bet.FairProb*100, bet.MarketProb*100,
		bet.ExpectedValue*100, bet.KellyStake*100,
	)
	return true
}

// AlertSpread sends an alert for a +EV spread bet
func (n *Notifier) AlertSpread(bet analysis.SpreadBet) bool {
	key := fmt.Sprintf("sp-%s-%s-%s-%.1f-%d", bet.GameID, bet.Team, bet.Bookmaker, bet.Line, bet.Price)
	if n.checkCooldown(key) {
		return false
	}

	n.logger.Printf("+EV SPREAD: %s %+.1f %s on %s (%s@%s) | model=%+.1f cover=%.1f%% implied=%.1f%% ev=%.2f%% kelly=%.1f%%",
		bet.Team, bet.Line, odds.FormatAmerican(bet.Price), bet.Bookmaker,
		bet.AwayTeam, bet.HomeTeam,
		bet.ModelSpread, bet.ModelProb*100, bet.ImpliedProb*100,
		bet.ExpectedValue*100, bet.KellyStake*100,
	)
	return true
}

// AlertMoneylineArb sends an alert for a moneyline arbitrage
func (n *Notifier) AlertMoneylineArb(arb arbitrage.MoneylineArb) bool {
	key := fmt.Sprintf("arb-ml-%s-%s-%d-%s-%d", arb.GameID, arb.HomeBookmaker, arb.HomePrice, arb.AwayBookmaker, arb.AwayPrice)
	if n.checkCooldown(key) {
		return false
	}

	n.logger.Printf("ARB ML: %s@%s | %s %s on %s [%.1f%%] + %s %s on %s [%.1f%%] | profit=%.2f%%",
		arb.AwayTeam, arb.HomeTeam,
		arb.HomeTeam, odds.FormatAmerican(arb.HomePrice), arb.HomeBookmaker, arb.HomeStakePct,
		arb.AwayTeam, odds.FormatAmerican(arb.AwayPrice), arb.AwayBookmaker, arb.AwayStakePct,
		arb.ProfitPct,
	)
	return true
}

// AlertSpreadArb sends an alert for a spread arbitrage
func (n *Notifier) AlertSpreadArb(arb arbitrage.SpreadArb) bool {
	key := fmt.Sprintf("arb-sp-%s-%s-%.1f-%s-%.1f", arb.GameID, arb.Side1.Bookmaker, arb.Side1.Point, arb.Side2.Bookmaker, arb.Side2.Point)
	if n.checkCooldown(key) {
		return false
	}

	n.logger.Printf("ARB SPREAD: %s@%s | %s + %s | profit=%.2f%%",
		arb.AwayTeam, arb.HomeTeam, arb.Side1, arb.Side2, arb.ProfitPct)
	return true
}

// LogScan logs a scan completion
func (n *Notifier) LogScan(games int, stats analysis.MatchStats, mlBets, spreadBets, arbs int) {
	n.logger.Printf("Scan complete: %d games (%d matched, %d unmatched, %d ambiguous, %d started), %d ML bets, %d spread bets, %d arbs",
		games, stats.Matched, stats.Unmatched, stats.Ambiguous, stats.Started, mlBets, spreadBets, arbs)
}

// LogError logs an error
func (n *Notifier) LogError(context string, err error) {
	n.logger.Printf("ERROR [%s]: %v", context, err)
}

// LogStartup logs finder startup
func (n *Notifier) LogStartup(config string) {
	n.logger.Printf("EV finder started |%s", config)
}

// CleanupOldAlerts removes alert records older than an hour or the
// cooldown, whichever is longer.
func (n *Notifier) CleanupOldAlerts() {
	n.mu.Lock()
	defer n.mu.Unlock()

	age := time.Hour
	if n.cooldown > age {
		age = n.cooldown
	}
	cutoff := time.Now().Add(-age)
	for key, t := range n.lastAlerts {
		if t.Before(cutoff) {
			delete(n.lastAlerts, key)
		}
	}
}
