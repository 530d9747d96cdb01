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

import "github.com/ealvarez/obfuscate/internal/textstate"

// ClosedList is a hash-indexed set of expanded nodes.
type ClosedList struct {
	byHash map[textstate.Digest]*Node
}

// NewClosedList returns an empty ClosedList.
func NewClosedList() *ClosedList {
	return &ClosedList{byHash: make(map[textstate.Digest]*Node)}
}

// Put inserts node, returning false if its state was already present.
func (c *ClosedList) Put(node *Node) bool {
	key := node.Hash()
	if _, ok := c.byHash[key]; ok {
		return false
	}
	c.byHash[key] = node
	return true
}

// Get returns the closed node for a state hash, if any.
func (c *ClosedList) Get(key textstate.Digest) (*Node, bool) {
	n, ok := c.byHash[key]
	return n, ok
}

// Pop removes and returns the closed node for a state hash, if any.
func (c *ClosedList) Pop(key textstate.Digest) (*Node, bool) {
	n, ok := c.byHash[key]
	if ok {
		delete(c.byHash, key)
	}
	return n, ok
}

// Contains reports whether a state hash is present.
func (c *ClosedList) Contains(key textstate.Digest) bool {
	_, ok := c.byHash[key]
	return ok
}

// Size returns the number of closed nodes.
func (c *ClosedList) Size() int { return len(c.byHash) }

// Clear empties CLOSED entirely.
func (c *ClosedList) Clear() {
	c.byHash = make(map[textstate.Digest]*Node)
}

// ClearKeepingAncestorsOf performs the parent-preserving prune from
// spec.md section 4.4: given the current OPEN nodes (assumed not themselves
// present in CLOSED), retain in CLOSED only the ancestor chains reachable
// from those nodes' parents, and drop everything else. The OPEN nodes
// themselves are never added to CLOSED by this call.
//
// Callers must run this after pruning OPEN (spec.md section 9's ordering
// note): the surviving OPEN nodes are what defines which ancestor chains
// are worth keeping.
func (c *ClosedList) ClearKeepingAncestorsOf(openNodes []*Node) {
	keep := make(map[textstate.Digest]*Node)
	for _, n := range openNodes {
		for p := n.Parent; p != nil; p = p.Parent {
			key := p.Hash()
			if _, already := keep[key]; already {
				break
			}
			stored, ok := c.byHash[key]
			if !ok {
				continue
			}
			keep[key] = stored
		}
	}
	c.byHash = keep
}
