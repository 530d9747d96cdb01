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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ealvarez/obfuscate/pkg/ngram"
)

func TestJSD_IdentityIsZero(t *testing.T) {
	p := ngram.FromText([]byte("the cat sat on the mat"), 3)
	require.InDelta(t, 0.0, CalculateJSD(p, p), 1e-9)
}

func TestJSD_Symmetric(t *testing.T) {
	p := ngram.FromText([]byte("the cat sat on the mat"), 3)
	q := ngram.FromText([]byte("dogs bark loudly at night"), 3)
	require.InDelta(t, CalculateJSD(p, q), CalculateJSD(q, p), 1e-9)
}

func TestJSD_Bounded(t *testing.T) {
	p := ngram.FromText([]byte("aaaaaaaaaa"), 3)
	q := ngram.New(3)
	q.Update([]ngram.Delta{{Key: ngram.Encode([]byte("bbb")), Delta: 9}, {Key: ngram.Encode([]byte("aaa")), Delta: 1}})
	q.Flatten()

	jsd := CalculateJSD(p, q)
	require.GreaterOrEqual(t, jsd, 0.0)
	require.LessOrEqual(t, jsd, 1.0+1e-9)
}

func TestJSD_DisjointProfilesReachMaximum(t *testing.T) {
	p := ngram.FromText([]byte("aaaaaaaaaa"), 3)
	q := ngram.FromText([]byte("zzzzzzzzzz"), 3)
	require.InDelta(t, 1.0, CalculateJSD(p, q), 1e-9)
}
