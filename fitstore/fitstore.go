// Package fitstore persists minimization results and their per-round
// convergence history in a SQLite database.
package fitstore

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/attpc-tools/mcfit/internal/monitoring"
	"github.com/attpc-tools/mcfit/minimizer"
)

// schema.sql defines the fit_runs and fit_rounds tables.
//
//go:embed schema.sql
var schemaSQL string

// FitStore wraps the SQLite database holding fit results.
type FitStore struct {
	*sql.DB
}

// Open opens (creating if needed) the fit database at path and applies
// the schema. Foreign keys are enabled so deleting a run removes its
// round history.
func Open(path string) (*FitStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply fit store schema: %w", err)
	}
	monitoring.Logf("initialized fit store at %s", path)
	return &FitStore{db}, nil
}

// FitRun is one persisted minimization run.
type FitRun struct {
	RunID            string
	CreatedUnixNanos int64
	ConfigJSON       string
	Ctr              [minimizer.NumParams]float64
	PosChi           float64
	EnChi            float64
	Rounds           []FitRound
}

// FitRound is one round of a run's convergence history.
type FitRound struct {
	RoundIdx      int
	BestParams    [minimizer.NumParams]float64
	PosChi        float64
	EnChi         float64
	BestSampleIdx int
}

// InsertResult stores a minimizer result with a fresh run ID and returns
// it. configJSON may be empty; it is stored as-is for later inspection.
func (s *FitStore) InsertResult(res *minimizer.Result, configJSON string) (string, error) {
	if res == nil {
		return "", fmt.Errorf("fitstore: nil result")
	}
	run := FitRun{
		RunID:            uuid.NewString(),
		CreatedUnixNanos: time.Now().UnixNano(),
		ConfigJSON:       configJSON,
		Ctr:              res.Ctr,
	}
	n := len(res.MinPosChis)
	if n > 0 {
		run.PosChi = res.MinPosChis[n-1]
		run.EnChi = res.MinEnChis[n-1]
	}
	for i := range res.MinPosChis {
		var params [minimizer.NumParams]float64
		if res.AllParams != nil {
			copy(params[:], res.AllParams.RawRowView(res.BestIdxs[i]))
		}
		run.Rounds = append(run.Rounds, FitRound{
			RoundIdx:      i,
			BestParams:    params,
			PosChi:        res.MinPosChis[i],
			EnChi:         res.MinEnChis[i],
			BestSampleIdx: res.BestIdxs[i],
		})
	}
	if err := s.InsertRun(&run); err != nil {
		return "", err
	}
	return run.RunID, nil
}

// InsertRun stores a run and its rounds in one transaction.
func (s *FitStore) InsertRun(run *FitRun) error {
	ctrJSON, err := json.Marshal(run.Ctr)
	if err != nil {
		return fmt.Errorf("marshal run center: %w", err)
	}
	configJSON := run.ConfigJSON
	if configJSON == "" {
		configJSON = "{}"
	}

	tx, err := s.Begin()
	if err != nil {
		return fmt.Errorf("begin fit run insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO fit_runs (run_id, created_unix_nanos, config_json, ctr_json, pos_chi, en_chi)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.CreatedUnixNanos, configJSON, string(ctrJSON), run.PosChi, run.EnChi)
	if err != nil {
		return fmt.Errorf("insert fit run: %w", err)
	}

	for _, round := range run.Rounds {
		paramsJSON, err := json.Marshal(round.BestParams)
		if err != nil {
			return fmt.Errorf("marshal round params: %w", err)
		}
		_, err = tx.Exec(`
			INSERT INTO fit_rounds (run_id, round_idx, best_params_json, pos_chi, en_chi, best_sample_idx)
			VALUES (?, ?, ?, ?, ?, ?)`,
			run.RunID, round.RoundIdx, string(paramsJSON), round.PosChi, round.EnChi, round.BestSampleIdx)
		if err != nil {
			return fmt.Errorf("insert fit round %d: %w", round.RoundIdx, err)
		}
	}

	return tx.Commit()
}

// GetRun loads a run and its rounds by ID.
func (s *FitStore) GetRun(runID string) (*FitRun, error) {
	run := &FitRun{RunID: runID}
	var ctrJSON string
	err := s.QueryRow(`
		SELECT created_unix_nanos, config_json, ctr_json, pos_chi, en_chi
		FROM fit_runs WHERE run_id = ?`, runID).
		Scan(&run.CreatedUnixNanos, &run.ConfigJSON, &ctrJSON, &run.PosChi, &run.EnChi)
	if err != nil {
		return nil, fmt.Errorf("get fit run %s: %w", runID, err)
	}
	if err := json.Unmarshal([]byte(ctrJSON), &run.Ctr); err != nil {
		return nil, fmt.Errorf("unmarshal run center: %w", err)
	}

	rows, err := s.Query(`
		SELECT round_idx, best_params_json, pos_chi, en_chi, best_sample_idx
		FROM fit_rounds WHERE run_id = ? ORDER BY round_idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("get fit rounds for %s: %w", runID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var round FitRound
		var paramsJSON string
		if err := rows.Scan(&round.RoundIdx, &paramsJSON, &round.PosChi, &round.EnChi, &round.BestSampleIdx); err != nil {
			return nil, fmt.Errorf("scan fit round: %w", err)
		}
		if err := json.Unmarshal([]byte(paramsJSON), &round.BestParams); err != nil {
			return nil, fmt.Errorf("unmarshal round params: %w", err)
		}
		run.Rounds = append(run.Rounds, round)
	}
	return run, rows.Err()
}

// ListRuns returns the most recent runs, newest first, without their
// round histories.
func (s *FitStore) ListRuns(limit int) ([]*FitRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Query(`
		SELECT run_id, created_unix_nanos, config_json, ctr_json, pos_chi, en_chi
		FROM fit_runs ORDER BY created_unix_nanos DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list fit runs: %w", err)
	}
	defer rows.Close()

	var runs []*FitRun
	for rows.Next() {
		run := &FitRun{}
		var ctrJSON string
		if err := rows.Scan(&run.RunID, &run.CreatedUnixNanos, &run.ConfigJSON, &ctrJSON, &run.PosChi, &run.EnChi); err != nil {
			return nil, fmt.Errorf("scan fit run: %w", err)
		}
		if err := json.Unmarshal([]byte(ctrJSON), &run.Ctr); err != nil {
			return nil, fmt.Errorf("unmarshal run center: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
