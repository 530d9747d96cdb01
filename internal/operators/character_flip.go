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

package operators

import "github.com/ealvarez/obfuscate/internal/textstate"

// CharacterFlip swaps each adjacent byte pair inside the focused n-gram,
// one successor per swap position.
type CharacterFlip struct {
	Base
}

// NewCharacterFlip builds a character-flip operator with the given edit
// cost.
func NewCharacterFlip(cost float64) *CharacterFlip {
	op := &CharacterFlip{}
	op.Base = NewBase("character-flip", cost, "swaps an adjacent byte pair inside a shared n-gram", op)
	return op
}

func (op *CharacterFlip) applyImpl(fp FocusPoint, state *textstate.State, ctx *textstate.Context) []*textstate.State {
	order := state.Profile.Order()
	var successors []*textstate.State

	for i := 0; i < order-1; i++ {
		start := fp.NgramOffset + i
		end := start + 2
		if end > len(fp.Text) {
			break
		}

		orig := fp.Text[start:end]
		if orig[0] == orig[1] {
			continue
		}
		perm := []byte{orig[1], orig[0]}

		successor, ok := updateSuccessor(state, fp, start, end, perm)
		if ok {
			successors = append(successors, successor)
		}
	}

	return successors
}
