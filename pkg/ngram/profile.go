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

import "sort"

// FlattenThreshold is the pending-log size at which Profile.Update
// automatically materializes a fresh base map, matching the DiffString edit
// log threshold used for the same purpose.
const FlattenThreshold = 150

// Delta is a single signed count adjustment to apply to a Key.
type Delta struct {
	Key   Key
	Delta int64
}

// base is the shared, immutable-once-published count map a Profile's clones
// fan out from. It is never mutated in place; Flatten swaps in a brand new
// instance instead, so existing clones keep seeing the old one.
type base struct {
	m map[Key]uint64
}

// Profile is a mapping Key -> non-negative count plus a running total `n`,
// physically split into a shared base layer and a private pending-updates
// layer so that Clone is cheap. See spec.md section 3/4.1.
type Profile struct {
	order   int
	base    *base
	pending map[Key]int64 // absolute logical count for touched keys, overriding base
	n       int64
	size    int
}

// New creates an empty profile for the given n-gram order.
func New(order int) *Profile {
	return &Profile{
		order:   order,
		base:    &base{m: make(map[Key]uint64)},
		pending: make(map[Key]int64),
	}
}

// FromText builds a profile by counting every order-length n-gram in text.
func FromText(text []byte, order int) *Profile {
	p := New(order)
	deltas := make([]Delta, 0, len(text))
	for _, k := range Of(text, 0, len(text), order) {
		deltas = append(deltas, Delta{Key: k, Delta: 1})
	}
	p.Update(deltas)
	p.Flatten()
	return p
}

// Order returns the configured n-gram order.
func (p *Profile) Order() int { return p.order }

// N returns the total number of n-gram occurrences counted.
func (p *Profile) N() int64 { return p.n }

// Size returns the number of distinct keys with a positive logical count.
func (p *Profile) Size() int { return p.size }

func (p *Profile) logical(k Key) int64 {
	if v, ok := p.pending[k]; ok {
		return v
	}
	return int64(p.base.m[k])
}

// Freq returns the raw logical count for key.
func (p *Profile) Freq(k Key) int64 { return p.logical(k) }

// NormFreq returns freq(k)/n, or 0 if the profile is empty.
func (p *Profile) NormFreq(k Key) float64 {
	if p.n <= 0 {
		return 0
	}
	return float64(p.Freq(k)) / float64(p.n)
}

// Update applies a batch of signed count adjustments. Panics if any key's
// logical count would go negative — that is a programmer invariant
// violation per spec.md section 7.
func (p *Profile) Update(deltas []Delta) {
	for _, d := range deltas {
		if d.Delta == 0 {
			continue
		}
		before := p.logical(d.Key)
		after := before + d.Delta
		if after < 0 {
			panic("ngram: profile count would go negative")
		}
		p.pending[d.Key] = after
		if before == 0 && after != 0 {
			p.size++
		} else if before != 0 && after == 0 {
			p.size--
		}
		p.n += d.Delta
	}
	if len(p.pending) > FlattenThreshold {
		p.Flatten()
	}
}

// UpdateFromStringRange decrements the n-grams of the old window
// oldText[oldBegin:oldEnd] and increments those of the new window
// newText[newBegin:newEnd]. Callers must pick windows wide enough to cover
// every order-wide n-gram touched by the edit on both sides.
func (p *Profile) UpdateFromStringRange(oldText, newText []byte, oldBegin, oldEnd, newBegin, newEnd int) {
	var deltas []Delta
	for _, k := range Of(oldText, oldBegin, oldEnd, p.order) {
		deltas = append(deltas, Delta{Key: k, Delta: -1})
	}
	for _, k := range Of(newText, newBegin, newEnd, p.order) {
		deltas = append(deltas, Delta{Key: k, Delta: 1})
	}
	p.Update(deltas)
}

// Flatten collapses pending into a fresh, private base map and clears
// pending. Iteration before and after yields the same (key, count)
// sequence — Flatten is semantically a no-op.
func (p *Profile) Flatten() {
	merged := make(map[Key]uint64, p.size)
	for k := range p.base.m {
		if _, touched := p.pending[k]; touched {
			continue
		}
		if v := p.base.m[k]; v > 0 {
			merged[k] = v
		}
	}
	for k, v := range p.pending {
		if v > 0 {
			merged[k] = uint64(v)
		}
	}
	p.base = &base{m: merged}
	p.pending = make(map[Key]int64)
}

// Clone returns an independent profile sharing this one's base map (cheap,
// O(len(pending))) until either side calls Flatten.
func (p *Profile) Clone() *Profile {
	pending := make(map[Key]int64, len(p.pending))
	for k, v := range p.pending {
		pending[k] = v
	}
	return &Profile{
		order:   p.order,
		base:    p.base,
		pending: pending,
		n:       p.n,
		size:    p.size,
	}
}

// Iterate visits keys with positive logical count in sorted key order,
// merging base and pending, each key exactly once. Stops early if fn
// returns false.
func (p *Profile) Iterate(fn func(k Key, count int64) bool) {
	keys := make(map[Key]struct{}, len(p.base.m)+len(p.pending))
	for k := range p.base.m {
		keys[k] = struct{}{}
	}
	for k := range p.pending {
		keys[k] = struct{}{}
	}
	sorted := make([]Key, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, k := range sorted {
		v := p.logical(k)
		if v <= 0 {
			continue
		}
		if !fn(k, v) {
			return
		}
	}
}
