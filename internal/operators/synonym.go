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
	"strings"

	"github.com/ealvarez/obfuscate/internal/dictionary"
	"github.com/ealvarez/obfuscate/internal/textstate"
)

// ContextlessSynonym replaces the focused word with one of its dictionary
// synonyms, without regard to surrounding context.
type ContextlessSynonym struct {
	Base
	dict *dictionary.Dictionary
}

// NewContextlessSynonym builds a synonym operator backed by the TSV
// dictionary at dictPath. A load failure yields an operator that always
// returns no successors rather than failing construction, matching how a
// missing asset degrades the search rather than aborting it.
func NewContextlessSynonym(cost float64, dictPath string) *ContextlessSynonym {
	op := &ContextlessSynonym{}
	op.Base = NewBase("contextless-synonym", cost, "replaces a word with a dictionary synonym", op)
	if d, err := dictionary.Load(dictPath); err == nil {
		op.dict = d
	}
	return op
}

func (op *ContextlessSynonym) applyImpl(fp FocusPoint, state *textstate.State, ctx *textstate.Context) []*textstate.State {
	return replaceFocusWord(op, fp, state, ctx)
}

func (op *ContextlessSynonym) lookup(word string) ([]string, bool) {
	if op.dict == nil {
		return nil, false
	}
	return op.dict.Lookup(word)
}

// replaceFocusWord is shared between ContextlessSynonym and
// ContextlessHypernym: both pick the focus word and substitute each
// dictionary alternative in turn.
func replaceFocusWord(op interface {
	lookup(string) ([]string, bool)
}, fp FocusPoint, state *textstate.State, ctx *textstate.Context) []*textstate.State {
	_, after := parseWordBounds(fp, 0, 0)
	if len(after) == 0 {
		return nil
	}
	bounds := after[0]
	word := strings.ToLower(string(bounds.slice(fp.Text)))

	alternatives, ok := op.lookup(word)
	if !ok {
		return nil
	}

	var successors []*textstate.State
	for _, alt := range alternatives {
		successor, ok := updateSuccessor(state, fp, bounds.Start, bounds.End, []byte(alt))
		if ok {
			successors = append(successors, successor)
		}
	}
	return successors
}
