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

package search

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ealvarez/obfuscate/internal/textstate"
)

// OperatorStats accumulates per-operator usage counters across a run. All
// fields are updated with atomic operations since each operator can be
// applied concurrently from a worker pool.
type OperatorStats struct {
	Applications    atomic.Int64
	GeneratedStates atomic.Int64
	RuntimeInMicros atomic.Int64
}

// Status is the thread-safe control plane for a running search: the caller
// (any goroutine) can poll its atomic counters, snapshot the current
// node/context pair, request an abort, or block until the run finishes.
// The driver goroutine is the only writer of the non-atomic fields.
type Status struct {
	Finished          atomic.Bool
	HasGoalState      atomic.Bool
	AbortedByCaller   atomic.Bool
	AbortedByMemguard atomic.Bool

	RuntimeMillis      atomic.Int64
	BranchingFactorMin atomic.Int64
	BranchingFactorMax atomic.Int64

	InitMemoryKB atomic.Int64
	UsedMemoryKB atomic.Int64
	FreeMemoryKB atomic.Int64

	NumDuplicatedStates atomic.Int64
	NumReopenedStates   atomic.Int64
	NumGoalChecks       atomic.Int64

	SizeOfOpen   atomic.Int64
	SizeOfClosed atomic.Int64

	OperatorStats []*OperatorStats

	ErrorMessage atomic.Value // string

	mu             sync.Mutex
	currentNode    *Node
	currentContext *textstate.Context

	doneMu   sync.Mutex
	doneCond *sync.Cond
}

// NewStatus builds a Status for a search with numOperators concrete
// operators; branching factor bounds start at the widest possible range so
// the first RecordBranching call always narrows them correctly.
func NewStatus(numOperators int) *Status {
	s := &Status{
		OperatorStats: make([]*OperatorStats, numOperators),
	}
	for i := range s.OperatorStats {
		s.OperatorStats[i] = &OperatorStats{}
	}
	s.BranchingFactorMin.Store(math.MaxInt64)
	s.doneCond = sync.NewCond(&s.doneMu)
	return s
}

// CurrentNodeAndContext returns the most recently published node/context
// pair.
func (s *Status) CurrentNodeAndContext() (*Node, *textstate.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentNode, s.currentContext
}

// SetCurrentNodeAndContext publishes the driver's current position for
// pollers and the status callback to observe.
func (s *Status) SetCurrentNodeAndContext(node *Node, ctx *textstate.Context) {
	s.mu.Lock()
	s.currentNode = node
	s.currentContext = ctx
	s.mu.Unlock()
}

// RecordBranching folds num_branches into the running min/max branching
// factor.
func (s *Status) RecordBranching(numBranches int) {
	n := int64(numBranches)
	for {
		cur := s.BranchingFactorMin.Load()
		if n >= cur || s.BranchingFactorMin.CompareAndSwap(cur, n) {
			break
		}
	}
	for {
		cur := s.BranchingFactorMax.Load()
		if n <= cur || s.BranchingFactorMax.CompareAndSwap(cur, n) {
			break
		}
	}
}

// RecordRuntime stamps the elapsed time since start.
func (s *Status) RecordRuntime(start time.Time) {
	s.RuntimeMillis.Store(time.Since(start).Milliseconds())
}

// RecordMemoryUsage refreshes the used/free memory gauges via the platform
// memory guard.
func (s *Status) RecordMemoryUsage() {
	s.UsedMemoryKB.Store(int64(UsedMemoryKB()))
	s.FreeMemoryKB.Store(int64(FreeMemoryKB()))
}

// MarkFinished signals completion and wakes every goroutine blocked in
// WaitForCompletion.
func (s *Status) MarkFinished() {
	s.Finished.Store(true)
	s.doneMu.Lock()
	s.doneCond.Broadcast()
	s.doneMu.Unlock()
}

// WaitForCompletion blocks until MarkFinished has been called.
func (s *Status) WaitForCompletion() {
	s.doneMu.Lock()
	defer s.doneMu.Unlock()
	for !s.Finished.Load() {
		s.doneCond.Wait()
	}
}

// Abort requests early termination from outside the driver goroutine. The
// driver observes this on its next loop iteration, before expanding the node
// it just popped.
func (s *Status) Abort() {
	s.AbortedByCaller.Store(true)
}
