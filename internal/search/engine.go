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
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/ealvarez/obfuscate/internal/operators"
	"github.com/ealvarez/obfuscate/internal/textstate"
)

// Options controls the driver loop's pacing and safety limits.
type Options struct {
	// StatusUpdateInterval is how many goal checks elapse between status
	// snapshots, memory-guard probes, and callback invocations.
	StatusUpdateInterval int

	// FreeMemoryLimitMB aborts the search once system free memory falls
	// below this many megabytes.
	FreeMemoryLimitMB int64

	// OpenSizeLimit triggers an OPEN/CLOSED prune once OPEN grows past it.
	OpenSizeLimit int

	// OpenKeepAfterPrune is how many of OPEN's lowest-f nodes survive a
	// prune.
	OpenKeepAfterPrune int

	// Workers bounds how many operators run concurrently per node
	// expansion. Zero means runtime.NumCPU().
	Workers int
}

// DefaultOptions returns the engine's default pacing and safety limits.
func DefaultOptions() Options {
	return Options{
		StatusUpdateInterval: 500,
		FreeMemoryLimitMB:    2000,
		OpenSizeLimit:        40000,
		OpenKeepAfterPrune:   10,
	}
}

// Engine drives the best-first search: pop the lowest-f OPEN node, check
// goal and memory/abort conditions, expand it by running every operator
// concurrently, and fold the successors back into OPEN/CLOSED.
type Engine struct {
	Operators []operators.Operator
	Options   Options
	Logger    Warner
}

// NewEngine builds an Engine over the given operator set. Unset Options
// fields fall back to DefaultOptions.
func NewEngine(ops []operators.Operator, opts Options) *Engine {
	def := DefaultOptions()
	if opts.StatusUpdateInterval <= 0 {
		opts.StatusUpdateInterval = def.StatusUpdateInterval
	}
	if opts.FreeMemoryLimitMB <= 0 {
		opts.FreeMemoryLimitMB = def.FreeMemoryLimitMB
	}
	if opts.OpenSizeLimit <= 0 {
		opts.OpenSizeLimit = def.OpenSizeLimit
	}
	if opts.OpenKeepAfterPrune <= 0 {
		opts.OpenKeepAfterPrune = def.OpenKeepAfterPrune
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Engine{Operators: ops, Options: opts}
}

// Run executes the search to completion (goal found, OPEN exhausted, or
// abort) and returns the last node the driver visited. status is updated
// throughout and callback, if non-nil, is invoked every StatusUpdateInterval
// goal checks. ctx cancellation is honored at the same cadence as the
// caller-abort and memory-guard checks.
func (e *Engine) Run(ctx context.Context, initial *textstate.State, sctx *textstate.Context, status *Status, callback func(*Status)) *Node {
	start := time.Now()
	status.InitMemoryKB.Store(int64(UsedMemoryKB()))

	open := NewOpenList()
	closed := NewClosedList()

	root := NewRoot(initial)
	root.H = float32(CostH(root, sctx, e.Logger))
	open.PushOrUpdate(root)
	status.SetCurrentNodeAndContext(root, sctx)

	node := root

	// A panic anywhere in the loop body (a bug in an operator, a corrupt
	// state, an out-of-range slice) is caught here rather than crashing the
	// process: it is recorded on status.ErrorMessage and the driver falls
	// through to the same finalization every other exit path takes.
	func() {
		defer func() {
			if r := recover(); r != nil {
				status.ErrorMessage.Store(fmt.Sprintf("search: driver loop panic: %v", r))
			}
		}()

		for !open.Empty() {
			node = open.Pop()
			closed.Put(node)

			status.SizeOfOpen.Store(int64(open.Size()))
			status.SizeOfClosed.Store(int64(closed.Size()))

			if status.NumGoalChecks.Load()%int64(e.Options.StatusUpdateInterval) == 0 {
				status.SetCurrentNodeAndContext(node, sctx)
				status.RecordMemoryUsage()
				status.RecordRuntime(start)
				if callback != nil {
					callback(status)
				}
				if status.FreeMemoryKB.Load() != 0 && status.FreeMemoryKB.Load() < e.Options.FreeMemoryLimitMB*1024 {
					status.AbortedByMemguard.Store(true)
				}
			}

			status.NumGoalChecks.Add(1)
			if GoalCheck(node, sctx) {
				status.HasGoalState.Store(true)
				break
			}

			if status.AbortedByMemguard.Load() || status.AbortedByCaller.Load() {
				break
			}
			if ctx.Err() != nil {
				status.AbortedByCaller.Store(true)
				break
			}

			children := e.generateSuccessors(ctx, node, sctx, status)
			status.RecordBranching(len(children))

			for _, child := range children {
				if closedNode, ok := closed.Get(child.Hash()); ok {
					if child.G < closedNode.G {
						closed.Pop(child.Hash())
						open.PushOrUpdate(child)
						status.NumReopenedStates.Add(1)
					} else {
						status.NumDuplicatedStates.Add(1)
					}
					continue
				}

				child.H = float32(CostH(child, sctx, e.Logger))
				switch open.PushOrUpdate(child) {
				case Duplicate:
					status.NumDuplicatedStates.Add(1)
				case Inserted, Updated:
					if open.Size() > e.Options.OpenSizeLimit {
						open.Clear(e.Options.OpenKeepAfterPrune)
						closed.ClearKeepingAncestorsOf(open.Nodes())
					}
				}
			}
		}
	}()

	status.SizeOfOpen.Store(int64(open.Size()))
	status.SizeOfClosed.Store(int64(closed.Size()))
	status.SetCurrentNodeAndContext(node, sctx)
	status.RecordMemoryUsage()
	status.RecordRuntime(start)
	status.MarkFinished()

	return node
}

// generateSuccessors runs every operator against node concurrently, bounded
// by Options.Workers, and records per-operator stats as each finishes.
func (e *Engine) generateSuccessors(ctx context.Context, node *Node, sctx *textstate.Context, status *Status) []*Node {
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.Options.Workers)
	results := make(chan []*Node, len(e.Operators))

	for i, op := range e.Operators {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, op operators.Operator) {
			defer wg.Done()
			defer func() { <-sem }()
			// A panic in an operator's Apply (an out-of-range edit, a
			// corrupt focus point) is a task failure, not a driver failure:
			// it is captured here, reported on status.ErrorMessage, and the
			// operator simply contributes no successors for this node.
			defer func() {
				if r := recover(); r != nil {
					status.ErrorMessage.Store(fmt.Sprintf("search: operator %q panic: %v", op.Name(), r))
					results <- nil
				}
			}()

			t0 := time.Now()
			states := op.Apply(node.State, sctx)
			elapsed := time.Since(t0)

			stats := status.OperatorStats[i]
			stats.Applications.Add(1)
			stats.GeneratedStates.Add(int64(len(states)))
			stats.RuntimeInMicros.Add(elapsed.Microseconds())

			children := make([]*Node, 0, len(states))
			for _, st := range states {
				children = append(children, NewChild(node, st, uint8(i), float32(op.Cost())))
			}
			results <- children
		}(i, op)
	}

	wg.Wait()
	close(results)

	var all []*Node
	for children := range results {
		all = append(all, children...)
	}
	return all
}
