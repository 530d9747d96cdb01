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

package ngram

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sumFreqs(p *Profile) int64 {
	var total int64
	p.Iterate(func(_ Key, count int64) bool {
		total += count
		return true
	})
	return total
}

func TestProfile_NEqualsSumOfFreqs(t *testing.T) {
	p := FromText([]byte("the cat sat on the mat"), 3)
	require.Equal(t, p.N(), sumFreqs(p))
}

func TestProfile_SizeMatchesIteratedKeys(t *testing.T) {
	p := FromText([]byte("aaaaaaaaaa"), 3)
	var n int
	p.Iterate(func(_ Key, count int64) bool {
		require.Greater(t, count, int64(0))
		n++
		return true
	})
	require.Equal(t, p.Size(), n)
}

func TestProfile_CloneIsIndependent(t *testing.T) {
	p := FromText([]byte("banana bandana"), 3)
	before := p.N()

	clone := p.Clone()
	clone.Update([]Delta{{Key: Encode([]byte("ban")), Delta: 5}})

	require.Equal(t, before, p.N())
	require.NotEqual(t, p.N(), clone.N())
}

func TestProfile_FlattenIsNoOp(t *testing.T) {
	p := FromText([]byte("mississippi river"), 3)
	before := map[Key]int64{}
	p.Iterate(func(k Key, count int64) bool {
		before[k] = count
		return true
	})

	p.Update([]Delta{{Key: Encode([]byte("miz")), Delta: 3}})
	p.Flatten()
	p.Update([]Delta{{Key: Encode([]byte("miz")), Delta: -3}})
	p.Flatten()

	after := map[Key]int64{}
	p.Iterate(func(k Key, count int64) bool {
		after[k] = count
		return true
	})
	require.Equal(t, before, after)
}

func TestProfile_UpdateFromStringRange(t *testing.T) {
	old := []byte("the cat sat")
	p := FromText(old, 3)
	beforeN := p.N()

	// replace "cat" with "hat"; recompute over the full strings for the test
	// (production callers use a tighter ORDER-wide window, see updateSuccessor).
	newText := []byte("the hat sat")
	p.UpdateFromStringRange(old, newText, 0, len(old), 0, len(newText))

	want := FromText(newText, 3)
	require.Equal(t, want.N(), p.N())
	require.Equal(t, beforeN, p.N()) // same length replacement keeps total n-gram count
	want.Iterate(func(k Key, count int64) bool {
		require.Equal(t, count, p.Freq(k), "key %v", k)
		return true
	})
}

func TestProfile_NegativeCountPanics(t *testing.T) {
	p := New(3)
	require.Panics(t, func() {
		p.Update([]Delta{{Key: Encode([]byte("abc")), Delta: -1}})
	})
}
