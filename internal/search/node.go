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

// Package search implements the generic best-first (A*) engine and the
// obfuscation-specific cost model layered on top of it: Node, OpenList,
// ClosedList (spec.md C5/C6), CostH/GoalCheck (C7), the A* engine (C10) and
// the Status/control plane (C11).
package search

import "github.com/ealvarez/obfuscate/internal/textstate"

// RootOpcode is the placeholder opcode carried by the root node; it is
// excluded from reconstructed opcode paths.
const RootOpcode uint8 = 0xff

// Node is a search-graph node: a state, an optional parent, the operator
// opcode that produced it from its parent, and the g/h costs. Nodes are
// immutable except for H, which CostH (re)writes.
type Node struct {
	State  *textstate.State
	Parent *Node
	Opcode uint8
	G      float32
	H      float32
}

// NewRoot builds the search's root node: no parent, g=0, h left at its
// zero value until the caller runs CostH on it.
func NewRoot(state *textstate.State) *Node {
	return &Node{State: state, Opcode: RootOpcode}
}

// NewChild builds a child of parent reached via opcode at edge cost cost.
func NewChild(parent *Node, state *textstate.State, opcode uint8, cost float32) *Node {
	return &Node{State: state, Parent: parent, Opcode: opcode, G: parent.G + cost}
}

// F returns the node's total estimated cost g+h.
func (n *Node) F() float32 { return n.G + n.H }

// Depth is the length of the parent chain (0 for the root).
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// PathOpcodes returns the opcodes from root to n, root-to-leaf order,
// excluding the root's placeholder opcode.
func (n *Node) PathOpcodes() []uint8 {
	var rev []uint8
	for cur := n; cur != nil && cur.Parent != nil; cur = cur.Parent {
		rev = append(rev, cur.Opcode)
	}
	out := make([]uint8, len(rev))
	for i, op := range rev {
		out[len(rev)-1-i] = op
	}
	return out
}

// Hash returns the identity key used by OpenList/ClosedList.
func (n *Node) Hash() textstate.Digest { return n.State.HashValue() }
