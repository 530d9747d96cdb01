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

// Package e2e exercises the search engine, operators, profile I/O, and
// output sink together, end to end, the way cmd/obfuscate wires them,
// without going through the CLI's flag parsing.
package e2e

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ealvarez/obfuscate/internal/operators"
	"github.com/ealvarez/obfuscate/internal/profileio"
	"github.com/ealvarez/obfuscate/internal/search"
	"github.com/ealvarez/obfuscate/internal/sinks"
	"github.com/ealvarez/obfuscate/internal/textstate"
	"github.com/ealvarez/obfuscate/pkg/ngram"
)

// S1: a short input with a sharply different, hand-built target profile
// must reach the goal, and the winning candidate's JS-distance must clear
// the configured threshold.
func TestObfuscate_ReachesExplicitGoalDistance(t *testing.T) {
	target := ngram.New(3)
	target.Update([]ngram.Delta{
		{Key: ngram.Encode([]byte("aaa")), Delta: 1},
		{Key: ngram.Encode([]byte("bbb")), Delta: 9},
	})
	target.Flatten()

	ops := []operators.Operator{operators.NewNgramRemoval(operators.CostNgramRemoval)}
	initial := textstate.New([]byte("aaaaaaaaaa"), 3)
	sctx := textstate.NewContext(target, 10, 0.50)

	engine := search.NewEngine(ops, search.DefaultOptions())
	status := search.NewStatus(len(ops))
	final := engine.Run(context.Background(), initial, sctx, status, nil)

	require.True(t, status.HasGoalState.Load())
	require.True(t, status.Finished.Load())
	jsd, ok := final.State.Meta.CachedJSD()
	require.True(t, ok)
	require.GreaterOrEqual(t, search.JSDistance(jsd), 0.50)
}

// S2: a target identical to the source starts at JSD ~= 0, so the root
// itself never satisfies GoalCheck (depth 0 is excluded even at JSD 1), one
// round of expansion runs, and since every trigram of the text occurs only
// once (rankNgrams skips n-grams seen fewer than twice) the operator
// produces no successors — OPEN empties out and the engine reports no error
// and no goal state.
func TestObfuscate_IdenticalTargetExhaustsOpenWithoutError(t *testing.T) {
	text := "a quick brown fox"
	target := ngram.FromText([]byte(text), 3)

	ops := []operators.Operator{operators.NewNgramRemoval(operators.CostNgramRemoval)}
	initial := textstate.New([]byte(text), 3)
	sctx := textstate.NewContext(target, len(text), 1.0)

	engine := search.NewEngine(ops, search.DefaultOptions())
	status := search.NewStatus(len(ops))
	final := engine.Run(context.Background(), initial, sctx, status, nil)

	require.False(t, status.HasGoalState.Load())
	require.True(t, status.Finished.Load())
	require.Equal(t, 0, final.Depth())
	require.True(t, status.ErrorMessage.Load() == nil)
}

// S3: the built-in length-scaled goal formula, evaluated at the length this
// scenario names, sits well inside the reachable JS-distance range, and a
// run against a maximally different target reaches it.
func TestObfuscate_BuiltinGoalFormulaIsReachable(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 6)[:256]
	goal := profileio.GoalJSDistance(len(text))
	require.InDelta(t, 1.2482, goal, 0.01)

	target := ngram.FromText([]byte(strings.Repeat("zzz zzz zzz zzz ", 20)), 3)
	ops := []operators.Operator{
		operators.NewNgramRemoval(operators.CostNgramRemoval),
		operators.NewCharacterFlip(operators.CostCharacterFlip),
	}
	initial := textstate.New([]byte(text), 3)
	sctx := textstate.NewContext(target, len(text), goal)

	engine := search.NewEngine(ops, search.DefaultOptions())
	status := search.NewStatus(len(ops))
	engine.Run(context.Background(), initial, sctx, status, nil)

	require.True(t, status.HasGoalState.Load())
}

// S4: an abort requested before any expansion completes must be observed
// within one status-update tick, leaving has_goal_state false.
func TestObfuscate_CallerAbortStopsWithinOneTick(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	target := ngram.FromText([]byte("zzz zzz zzz zzz zzz zzz"), 3)

	ops := []operators.Operator{operators.NewNgramRemoval(operators.CostNgramRemoval)}
	initial := textstate.New([]byte(text), 3)
	sctx := textstate.NewContext(target, len(text), 100.0) // unreachable

	engine := search.NewEngine(ops, search.Options{StatusUpdateInterval: 1})
	status := search.NewStatus(len(ops))
	status.Abort()

	engine.Run(context.Background(), initial, sctx, status, nil)

	require.True(t, status.Finished.Load())
	require.True(t, status.AbortedByCaller.Load())
	require.False(t, status.HasGoalState.Load())
}

// S5: a memory guard tripping on the first status-update tick must abort
// the run cleanly, without a goal state.
func TestObfuscate_MemoryGuardAbortsCleanly(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	target := ngram.FromText([]byte("zzz zzz zzz zzz zzz zzz"), 3)

	ops := []operators.Operator{operators.NewNgramRemoval(operators.CostNgramRemoval)}
	initial := textstate.New([]byte(text), 3)
	sctx := textstate.NewContext(target, len(text), 100.0) // unreachable

	engine := search.NewEngine(ops, search.Options{
		StatusUpdateInterval: 1,
		FreeMemoryLimitMB:    1 << 40, // impossibly high, so the first probe always trips it
	})
	status := search.NewStatus(len(ops))

	engine.Run(context.Background(), initial, sctx, status, nil)

	require.True(t, status.Finished.Load())
	require.True(t, status.AbortedByMemguard.Load())
	require.False(t, status.HasGoalState.Load())
}

// S6: two successor nodes that materialize to the same text but arrive with
// different g must be deduplicated in OPEN down to the cheaper one.
func TestObfuscate_OpenListKeepsCheaperDuplicate(t *testing.T) {
	open := search.NewOpenList()

	base := textstate.New([]byte("duplicate text"), 3)
	root := search.NewRoot(base)

	cheap := search.NewChild(root, base.Clone(), 0, 5.0)
	expensive := search.NewChild(root, base.Clone(), 1, 40.0)

	require.Equal(t, search.Inserted, open.PushOrUpdate(expensive))
	require.Equal(t, search.Updated, open.PushOrUpdate(cheap))

	got, ok := open.Get(cheap.Hash())
	require.True(t, ok)
	require.Equal(t, float32(5.0), got.G)

	popped := open.Pop()
	require.Equal(t, float32(5.0), popped.G)
}

func TestProfileGen_BuildsSavesAndLoadsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "corpus.txt")
	require.NoError(t, os.WriteFile(srcPath, []byte("the quick brown fox jumps over the lazy dog"), 0o644))

	profilePath := filepath.Join(dir, "target.json")
	built, err := profileio.BuildFromFiles([]string{srcPath}, 3, false)
	require.NoError(t, err)
	require.NoError(t, profileio.Save(profilePath, built))

	loaded, err := profileio.Load(profilePath)
	require.NoError(t, err)
	require.Equal(t, built.N(), loaded.N())
	require.Equal(t, built.Size(), loaded.Size())
}

// The layered sink is what the CLI's status callback writes each improved
// candidate to: writes accumulate until Truncate resets the file, so a
// caller tailing --output only ever sees the best candidate so far.
func TestSink_TruncateBetweenCandidatesLeavesOnlyLatest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	sink, err := sinks.NewLayeredFileSink(path)
	require.NoError(t, err)
	defer sink.Close()

	_, err = sink.Write([]byte("first candidate"))
	require.NoError(t, err)
	require.NoError(t, sink.Flush())

	require.NoError(t, sink.Truncate())
	_, err = sink.Write([]byte("second, better candidate"))
	require.NoError(t, err)
	require.NoError(t, sink.Flush())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second, better candidate", string(contents))
}
