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
	"container/heap"
	"sort"

	"github.com/ealvarez/obfuscate/internal/textstate"
)

// PushResult reports what push_or_update did.
type PushResult int

const (
	Inserted PushResult = iota
	Updated
	Duplicate
)

type openItem struct {
	node  *Node
	index int // position in the heap slice, maintained by heap.Interface
}

type openHeap []*openItem

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool { return h[i].node.F() < h[j].node.F() }
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *openHeap) Push(x any) {
	it := x.(*openItem)
	it.index = len(*h)
	*h = append(*h, it)
}
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// OpenList is a priority queue keyed by f=g+h (lowest first) with O(1)
// by-hash lookup, so a state can never appear twice.
type OpenList struct {
	heap openHeap
	byID map[textstate.Digest]*openItem
}

// NewOpenList returns an empty OpenList.
func NewOpenList() *OpenList {
	return &OpenList{byID: make(map[textstate.Digest]*openItem)}
}

// PushOrUpdate inserts node if its state is new to OPEN, replaces the
// stored node if the new one strictly improves g, or is a no-op otherwise.
func (o *OpenList) PushOrUpdate(node *Node) PushResult {
	key := node.Hash()
	if existing, ok := o.byID[key]; ok {
		if node.G < existing.node.G {
			existing.node = node
			heap.Fix(&o.heap, existing.index)
			return Updated
		}
		return Duplicate
	}
	it := &openItem{node: node}
	heap.Push(&o.heap, it)
	o.byID[key] = it
	return Inserted
}

// Pop removes and returns the minimum-f node.
func (o *OpenList) Pop() *Node {
	if o.heap.Len() == 0 {
		return nil
	}
	it := heap.Pop(&o.heap).(*openItem)
	delete(o.byID, it.node.Hash())
	return it.node
}

// Contains reports whether a state with the given hash is on OPEN.
func (o *OpenList) Contains(key textstate.Digest) bool {
	_, ok := o.byID[key]
	return ok
}

// Get returns the node currently on OPEN for key, if any.
func (o *OpenList) Get(key textstate.Digest) (*Node, bool) {
	it, ok := o.byID[key]
	if !ok {
		return nil, false
	}
	return it.node, true
}

// Size returns the number of entries on OPEN.
func (o *OpenList) Size() int { return o.heap.Len() }

// Empty reports whether OPEN has no entries.
func (o *OpenList) Empty() bool { return o.heap.Len() == 0 }

// Clear retains only the keepK lowest-f nodes and drops the rest, returning
// the nodes that were dropped (for callers that need to know what left
// OPEN; the engine's size-limit prune ignores them).
func (o *OpenList) Clear(keepK int) []*Node {
	all := make([]*Node, 0, o.heap.Len())
	for _, it := range o.heap {
		all = append(all, it.node)
	}
	// Re-sort ascending by f to find the keepK best.
	sort.Slice(all, func(i, j int) bool { return all[i].F() < all[j].F() })
	if keepK > len(all) {
		keepK = len(all)
	}
	keep := all[:keepK]
	dropped := all[keepK:]

	o.heap = o.heap[:0]
	o.byID = make(map[textstate.Digest]*openItem)
	for _, n := range keep {
		it := &openItem{node: n}
		heap.Push(&o.heap, it)
		o.byID[n.Hash()] = it
	}
	return dropped
}

// Nodes returns a snapshot slice of the current contents, in no particular
// order (use Clear or repeated Pop for an ordered walk).
func (o *OpenList) Nodes() []*Node {
	out := make([]*Node, 0, len(o.heap))
	for _, it := range o.heap {
		out = append(out, it.node)
	}
	return out
}
