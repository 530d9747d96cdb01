// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package history persists a record of every completed or aborted search
// run: the reference schema below (reference only — no driver is pinned, the
// deployer supplies one via database/sql) upserts by RunID so retrying a
// failed persist attempt for the same run is a no-op rather than a
// duplicate row.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Postgres schema (reference):
//
// CREATE TABLE IF NOT EXISTS search_runs (
//   run_id           TEXT PRIMARY KEY,
//   input_hash       TEXT NOT NULL,
//   goal_distance    DOUBLE PRECISION NOT NULL,
//   reached_distance DOUBLE PRECISION NOT NULL,
//   opcodes          TEXT NOT NULL,
//   termination      TEXT NOT NULL,
//   started_at       TIMESTAMPTZ NOT NULL,
//   finished_at      TIMESTAMPTZ NOT NULL
// );

// Termination enumerates why a run's Store call is being made.
type Termination string

const (
	TerminationGoalReached Termination = "goal_reached"
	TerminationOpenEmpty   Termination = "open_exhausted"
	TerminationAborted     Termination = "aborted"
)

// Run is one row of run history.
type Run struct {
	RunID           string
	InputHash       string
	GoalDistance    float64
	ReachedDistance float64
	Opcodes         string
	Termination     Termination
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Store upserts run history rows into Postgres, idempotent by RunID.
type Store struct {
	db             *sql.DB
	defaultTimeout time.Duration
}

// NewStore builds a Store over an already-opened *sql.DB.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, defaultTimeout: 10 * time.Second}
}

// Record upserts run. For an existing RunID it updates only the reached
// distance, opcodes, termination and finish time; the other columns keep
// their first-recorded values.
func (s *Store) Record(ctx context.Context, run Run) error {
	if run.RunID == "" {
		return errors.New("history: Run.RunID must be set")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok && s.defaultTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.defaultTimeout)
		defer cancel()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_runs (run_id, input_hash, goal_distance, reached_distance, opcodes, termination, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (run_id) DO UPDATE SET
			reached_distance = EXCLUDED.reached_distance,
			opcodes          = EXCLUDED.opcodes,
			termination      = EXCLUDED.termination,
			finished_at      = EXCLUDED.finished_at`,
		run.RunID, run.InputHash, run.GoalDistance, run.ReachedDistance, run.Opcodes, run.Termination, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("history: record run %s: %w", run.RunID, err)
	}
	return nil
}
