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

package textstate

import (
	"sync"

	"github.com/ealvarez/obfuscate/pkg/ngram"
)

// ContextMeta is the global, mutable-once search metadata a Context carries
// alongside its immutable target profile: the original text length, the
// original JS-distance (recorded once, on the first cost evaluation) and the
// goal distance the search must reach.
//
// Per spec.md section 5, writes here happen only from the driver goroutine
// on the first CostH call; workers never mutate it. mu still guards the
// write because CostH is exported and nothing stops a caller from
// invoking it off the driver goroutine (e.g. from a test).
type ContextMeta struct {
	OriginalTextLen int
	GoalJSDist      float64

	mu             sync.Mutex
	originalSet    bool
	originalJSD    float64
	originalJSDist float64
}

// RecordOriginal registers the original JSD/JS-distance the first time
// CostH runs for this context; subsequent calls are no-ops.
func (m *ContextMeta) RecordOriginal(jsd, jsDist float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.originalSet {
		return
	}
	m.originalJSD = jsd
	m.originalJSDist = jsDist
	m.originalSet = true
}

// Original returns the recorded original JSD/JS-distance, and whether they
// have been recorded yet.
func (m *ContextMeta) Original() (jsd, jsDist float64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.originalJSD, m.originalJSDist, m.originalSet
}

// Context bundles the target n-gram profile (shared read-only across a
// search) with the mutable search-wide metadata.
type Context struct {
	Target *ngram.Profile
	Meta   *ContextMeta
}

// NewContext builds a context targeting target, with the given original
// text length and goal JS-distance.
func NewContext(target *ngram.Profile, originalTextLen int, goalJSDist float64) *Context {
	return &Context{
		Target: target,
		Meta: &ContextMeta{
			OriginalTextLen: originalTextLen,
			GoalJSDist:      goalJSDist,
		},
	}
}
