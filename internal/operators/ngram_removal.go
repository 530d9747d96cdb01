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

// NgramRemoval deletes the focused n-gram outright.
type NgramRemoval struct {
	Base
}

// NewNgramRemoval builds an n-gram removal operator with the given edit
// cost.
func NewNgramRemoval(cost float64) *NgramRemoval {
	op := &NgramRemoval{}
	op.Base = NewBase("ngram-removal", cost, "deletes a shared n-gram outright", op)
	return op
}

func (op *NgramRemoval) applyImpl(fp FocusPoint, state *textstate.State, ctx *textstate.Context) []*textstate.State {
	order := state.Profile.Order()
	end := fp.NgramOffset + order
	if end > len(fp.Text) {
		return nil
	}

	successor, ok := updateSuccessor(state, fp, fp.NgramOffset, end, nil)
	if !ok {
		return nil
	}
	return []*textstate.State{successor}
}
