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

package profileio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ealvarez/obfuscate/pkg/ngram"
)

func TestSaveLoad_RoundTrips(t *testing.T) {
	original := ngram.FromText([]byte("the quick brown fox jumps over the lazy dog"), 3)

	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, Save(path, original))

	loaded, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, original.Order(), loaded.Order())
	require.Equal(t, original.N(), loaded.N())
	require.Equal(t, original.Size(), loaded.Size())

	original.Iterate(func(k ngram.Key, count int64) bool {
		require.Equal(t, count, loaded.Freq(k))
		return true
	})
}

func TestBuildFromFiles_ConcatenatesAndCounts(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("aaa"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("bbb"), 0o644))

	p, err := BuildFromFiles([]string{a, b}, 3, false)
	require.NoError(t, err)
	require.Equal(t, int64(4), p.N()) // "aaabbb" yields 4 overlapping trigrams
}

func TestGoalJSDistance_DecreasesWithLength(t *testing.T) {
	short := GoalJSDistance(50)
	long := GoalJSDistance(5000)
	require.Greater(t, short, long)
}
