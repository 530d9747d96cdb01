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

// Package operators implements the text-edit operators that generate
// successor states during the search: n-gram removal, character-level
// permutation, punctuation remapping, and dictionary- or suggester-backed
// word substitution.
package operators

import (
	"bytes"
	"container/list"
	"math/rand"
	"sort"
	"sync"

	"github.com/ealvarez/obfuscate/internal/textstate"
	"github.com/ealvarez/obfuscate/pkg/ngram"
)

const (
	// MaxNgramRank bounds how many of a state's n-grams are considered for
	// producing successors, ranked by how much reducing them would help.
	MaxNgramRank = 10

	// MaxOccurrences bounds how many occurrences of a chosen n-gram an
	// operator is applied to.
	MaxOccurrences = 2

	// MaxSuccessors bounds how many successor states a single operator
	// invocation returns.
	MaxSuccessors = 6

	// ngramSelectionCacheSize is the LRU capacity for cached n-gram
	// selections, keyed by state hash and shared across all operators.
	ngramSelectionCacheSize = 200
)

// Operator generates successor states from a search state by editing its
// text at one or more focus points chosen from the state's most promising
// n-grams.
type Operator interface {
	Name() string
	Cost() float64
	Description() string
	Apply(state *textstate.State, ctx *textstate.Context) []*textstate.State
}

// FocusPoint identifies where inside a text an operator should act.
type FocusPoint struct {
	NgramOffset int
	Text        []byte
}

// impl is implemented by concrete operators; Base.Apply drives it once per
// selected focus point.
type impl interface {
	applyImpl(fp FocusPoint, state *textstate.State, ctx *textstate.Context) []*textstate.State
}

// Base implements the shared n-gram selection, caching, and successor
// bookkeeping that every concrete operator relies on. Concrete operators
// embed Base and supply applyImpl.
type Base struct {
	name        string
	cost        float64
	description string

	self impl
}

// NewBase constructs the shared operator state. self must be the concrete
// operator embedding this Base, so Apply can dispatch to its applyImpl.
func NewBase(name string, cost float64, description string, self impl) Base {
	return Base{name: name, cost: cost, description: description, self: self}
}

func (b *Base) Name() string        { return b.name }
func (b *Base) Cost() float64       { return b.cost }
func (b *Base) Description() string { return b.description }

type cacheData struct {
	ngramPositions []int
	sourceText     []byte
}

var (
	selectionCacheMu sync.Mutex
	selectionCache   = newLRU(ngramSelectionCacheSize)
)

// Apply selects the state's highest-ranked n-grams (rank = target normalized
// frequency over source normalized frequency, at least 1.0), picks up to
// MaxOccurrences positions per selected n-gram, and runs applyImpl at each
// resulting focus point. The combined successor set is truncated to
// MaxSuccessors.
func (b *Base) Apply(state *textstate.State, ctx *textstate.Context) []*textstate.State {
	data, ok := getCachedNgramSelection(state, ctx)
	if !ok {
		return nil
	}

	var successors []*textstate.State
	for _, pos := range data.ngramPositions {
		fp := FocusPoint{NgramOffset: pos, Text: data.sourceText}
		successors = append(successors, b.self.applyImpl(fp, state, ctx)...)
	}

	if len(successors) > MaxSuccessors {
		rand.Shuffle(len(successors), func(i, j int) { successors[i], successors[j] = successors[j], successors[i] })
		successors = successors[:MaxSuccessors]
	}

	return successors
}

func getCachedNgramSelection(state *textstate.State, ctx *textstate.Context) (cacheData, bool) {
	key := state.HashValue()

	selectionCacheMu.Lock()
	if v, ok := selectionCache.get(key); ok {
		selectionCacheMu.Unlock()
		return v.(cacheData), true
	}
	selectionCacheMu.Unlock()

	ranked := rankNgrams(state.Profile, ctx.Target)
	if len(ranked) == 0 {
		return cacheData{}, false
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].rank > ranked[j].rank })
	if len(ranked) > MaxNgramRank {
		ranked = ranked[:MaxNgramRank]
	}

	if state.Text.Len() > textstate.EditLogFlattenThreshold {
		state.Text.Apply()
	}
	sourceText := state.Text.String()

	var positions []int
	order := state.Profile.Order()
	for _, r := range ranked {
		key := ngram.Decode(r.key, order)
		var candidates []int
		last := 0
		for {
			rel := bytes.Index(sourceText[last:], key)
			if rel < 0 {
				break
			}
			idx := last + rel
			candidates = append(candidates, idx)
			last = idx + 1
		}
		rand.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
		if len(candidates) > MaxOccurrences {
			candidates = candidates[:MaxOccurrences]
		}
		positions = append(positions, candidates...)
	}

	data := cacheData{ngramPositions: positions, sourceText: sourceText}

	selectionCacheMu.Lock()
	selectionCache.put(key, data)
	selectionCacheMu.Unlock()

	return data, true
}

type ngramRank struct {
	key  ngram.Key
	rank float64
}

// rankNgrams scores every n-gram the source text shares with the target
// profile by how much reducing it would help, discarding singletons, n-grams
// absent from the target, and n-grams whose reduction would move the source
// toward the target (those more frequent in the source than in the target).
func rankNgrams(source, target *ngram.Profile) []ngramRank {
	var out []ngramRank
	n := float64(source.N())
	if n == 0 {
		return out
	}

	source.Iterate(func(k ngram.Key, count int64) bool {
		if count < 2 {
			return true
		}
		normQ := float64(count) / n
		normP := target.NormFreq(k)
		if normP == 0 {
			return true
		}
		rank := normP / normQ
		if rank < 1.0 {
			return true
		}
		out = append(out, ngramRank{key: k, rank: rank})
		return true
	})

	return out
}

// updateSuccessor edits origState's text between editStart and editEnd
// (byte offsets into focus.Text) with update, and reports whether the edit
// is admissible: it is rejected if it would reintroduce the exact n-gram
// currently sitting at the focus point within one order-width on either
// side. On success it returns the new state; the caller is responsible for
// discarding it on false.
func updateSuccessor(origState *textstate.State, focus FocusPoint, editStart, editEnd int, update []byte) (*textstate.State, bool) {
	text := focus.Text
	order := origState.Profile.Order()

	focusPos := focus.NgramOffset
	if focusPos+order > len(text) {
		return nil, false
	}
	origNgram := text[focusPos : focusPos+order]

	newText := make([]byte, 0, len(text)-(editEnd-editStart)+len(update))
	newText = append(newText, text[:editStart]...)
	newText = append(newText, update...)
	newText = append(newText, text[editEnd:]...)

	newEditPos := editStart
	newBegin := max(0, newEditPos-order)
	newEnd := min(len(newText), newEditPos+len(update)+order)

	if bytes.Contains(newText[newBegin:newEnd], origNgram) {
		return nil, false
	}

	oldBegin := max(0, editStart-order)
	oldEnd := min(len(text), editEnd+order)

	newProfile := origState.Profile.Clone()
	newProfile.UpdateFromStringRange(text, newText, oldBegin, oldEnd, newBegin, newEnd)

	newDiff := origState.Text.Clone()
	newDiff.EditFast(textstate.Edit{
		Pos:         oldBegin,
		DeleteCount: oldEnd - oldBegin,
		Insert:      append([]byte(nil), newText[newBegin:newEnd]...),
	}, newText)

	successor := &textstate.State{Text: newDiff, Profile: newProfile, Meta: &textstate.Meta{}}
	return successor, true
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// lru is a small fixed-capacity least-recently-used cache. The example pack
// carries no third-party LRU library, so this mirrors the shape of the
// hand-rolled caches used elsewhere in the pack (mutex-guarded map plus an
// auxiliary ordering structure) rather than reaching for one.
type lru struct {
	capacity int
	items    map[textstate.Digest]*list.Element
	order    *list.List
}

type lruEntry struct {
	key   textstate.Digest
	value interface{}
}

func newLRU(capacity int) *lru {
	return &lru{capacity: capacity, items: make(map[textstate.Digest]*list.Element), order: list.New()}
}

func (c *lru) get(key textstate.Digest) (interface{}, bool) {
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*lruEntry).value, true
}

func (c *lru) put(key textstate.Digest, value interface{}) {
	if el, ok := c.items[key]; ok {
		el.Value.(*lruEntry).value = value
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&lruEntry{key: key, value: value})
	c.items[key] = el
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry).key)
		}
	}
}
