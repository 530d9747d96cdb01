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

import (
	"math/rand"

	"github.com/ealvarez/obfuscate/internal/textstate"
)

// punctuationVariants maps a punctuation byte to the marks it may be
// replaced with, mirroring conventional sentence-splitting and run-on
// substitutions (comma <-> semicolon/period, and so on).
var punctuationVariants = map[byte][]byte{
	',': {';', '.'},
	'.': {',', '!'},
	':': {'.', ';'},
	'!': {'.', ','},
	'?': {'.'},
}

// PunctuationRemap replaces a punctuation byte inside the focused n-gram
// with one of its configured variants.
type PunctuationRemap struct {
	Base
}

// NewPunctuationRemap builds a punctuation-remapping operator with the
// given edit cost.
func NewPunctuationRemap(cost float64) *PunctuationRemap {
	op := &PunctuationRemap{}
	op.Base = NewBase("punctuation-remap", cost, "replaces a punctuation mark with a similar one", op)
	return op
}

func (op *PunctuationRemap) applyImpl(fp FocusPoint, state *textstate.State, ctx *textstate.Context) []*textstate.State {
	order := state.Profile.Order()
	var successors []*textstate.State

	for i := 0; i < order; i++ {
		pos := fp.NgramOffset + i
		if pos >= len(fp.Text) {
			break
		}

		variants, ok := punctuationVariants[fp.Text[pos]]
		if !ok {
			continue
		}
		repl := variants[rand.Intn(len(variants))]

		successor, ok := updateSuccessor(state, fp, pos, pos+1, []byte{repl})
		if ok {
			successors = append(successors, successor)
		}
	}

	return successors
}
