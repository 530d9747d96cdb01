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
	"github.com/ealvarez/obfuscate/internal/dictionary"
	"github.com/ealvarez/obfuscate/internal/textstate"
)

// ContextlessHypernym replaces the focused word with one of its dictionary
// hypernyms (a broader term), without regard to surrounding context.
type ContextlessHypernym struct {
	Base
	dict *dictionary.Dictionary
}

// NewContextlessHypernym builds a hypernym operator backed by the TSV
// dictionary at dictPath.
func NewContextlessHypernym(cost float64, dictPath string) *ContextlessHypernym {
	op := &ContextlessHypernym{}
	op.Base = NewBase("contextless-hypernym", cost, "replaces a word with a broader dictionary term", op)
	if d, err := dictionary.Load(dictPath); err == nil {
		op.dict = d
	}
	return op
}

func (op *ContextlessHypernym) applyImpl(fp FocusPoint, state *textstate.State, ctx *textstate.Context) []*textstate.State {
	return replaceFocusWord(op, fp, state, ctx)
}

func (op *ContextlessHypernym) lookup(word string) ([]string, bool) {
	if op.dict == nil {
		return nil, false
	}
	return op.dict.Lookup(word)
}
