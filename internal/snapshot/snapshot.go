package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"college-betting-ev/internal/models"
)

// Snapshot is one consistent view of the market and the model.
type Snapshot struct {
	Games       []models.GameOdds
	Predictions []models.GamePrediction
	LoadedAt    time.Time
}

// Source produces snapshots for the scan engine.
type Source interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// FileSource reads odds and predictions from JSON cache files on every Load.
type FileSource struct {
	OddsFile        string
	PredictionsFile string
}

// Load reads both files. ctx is checked between reads.
func (s FileSource) Load(ctx context.Context) (*Snapshot, error) {
	games, err := LoadOdds(s.OddsFile)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	preds, err := LoadPredictions(s.PredictionsFile)
	if err != nil {
		return nil, err
	}

	return &Snapshot{Games: games, Predictions: preds, LoadedAt: time.Now()}, nil
}

// Static serves the same snapshot on every Load.
type Static struct {
	Snapshot *Snapshot
}

func (s Static) Load(ctx context.Context) (*Snapshot, error) {
	return s.Snapshot, ctx.Err()
}

func readJSON(path, what string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s file: %w", what, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s file %s: %w", what, path, err)
	}
	return nil
}

// LoadOdds reads a list of games with their bookmaker odds. Entries may be
// objects or [game, [odds...]] pairs.
func LoadOdds(path string) ([]models.GameOdds, error) {
	var games []models.GameOdds
	if err := readJSON(path, "odds", &games); err != nil {
		return nil, err
	}
	return games, nil
}

// LoadPredictions reads a list of model predictions.
func LoadPredictions(path string) ([]models.GamePrediction, error) {
	var preds []models.GamePrediction
	if err := readJSON(path, "predictions", &preds); err != nil {
		return nil, err
	}
	return preds, nil
}

// LoadResults reads a list of game results.
func LoadResults(path string) ([]models.GameResult, error) {
	var results []models.GameResult
	if err := readJSON(path, "results", &results); err != nil {
		return nil, err
	}
	return results, nil
}
