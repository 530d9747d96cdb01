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

import "github.com/ealvarez/obfuscate/pkg/ngram"

// Meta carries per-state mutable, cacheable derived values. A state's own
// Meta is only ever touched by the goroutine currently holding the state
// (the driver, when computing h), so it needs no locking of its own.
type Meta struct {
	hasJSD bool
	jsd    float64
}

// CachedJSD returns the cached Jensen-Shannon divergence and whether one has
// been recorded yet.
func (m *Meta) CachedJSD() (float64, bool) { return m.jsd, m.hasJSD }

// SetJSD records the divergence for later CostH/GoalCheck calls on the same
// state.
func (m *Meta) SetJSD(v float64) {
	m.jsd = v
	m.hasJSD = true
}

// State pairs a text (as a DiffString), its incrementally maintained n-gram
// profile, and mutable per-state metadata. Two states compare equal iff
// their texts compare equal; a state's hash is its text's hash.
type State struct {
	Text    *DiffString
	Profile *ngram.Profile
	Meta    *Meta
}

// New constructs the root state for src at the given n-gram order.
func New(src []byte, order int) *State {
	return &State{
		Text:    NewDiffString(src),
		Profile: ngram.FromText(src, order),
		Meta:    &Meta{},
	}
}

// Equal reports whether two states have bytewise-equal materialized texts.
func (s *State) Equal(other *State) bool { return s.Text.Equal(other.Text) }

// HashValue returns the state's identity hash, used as the OPEN/CLOSED key.
func (s *State) HashValue() Digest { return s.Text.HashValue() }

// Clone produces an independent copy of s: a fresh Meta (derived values are
// not carried over, since a successor's JSD differs from its parent's), and
// a profile clone (cheap: shares the base map).
func (s *State) Clone() *State {
	return &State{
		Text:    s.Text, // callers replace Text with a fresh DiffString on edit
		Profile: s.Profile.Clone(),
		Meta:    &Meta{},
	}
}
