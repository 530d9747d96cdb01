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
	"context"
	"strings"

	"github.com/ealvarez/obfuscate/internal/suggest"
	"github.com/ealvarez/obfuscate/internal/textstate"
)

// WordRemoval deletes the focused word if the phrase suggester reports the
// surrounding text remains natural (frequent enough) without it.
type WordRemoval struct {
	Base
	suggester suggest.Suggester
}

// NewWordRemoval builds a word-removal operator backed by suggester.
func NewWordRemoval(cost float64, suggester suggest.Suggester) *WordRemoval {
	op := &WordRemoval{suggester: suggester}
	op.Base = NewBase("word-removal", cost, "removes a word when the surrounding phrase remains natural without it", op)
	return op
}

func (op *WordRemoval) applyImpl(fp FocusPoint, state *textstate.State, ctx *textstate.Context) []*textstate.State {
	if op.suggester == nil {
		return nil
	}

	var successors []*textstate.State
	for offset := -1; offset <= 1; offset++ {
		before, after := parseWordBounds(fp, 2+offset, 2-offset)
		if len(before) == 0 || len(after) < 2 {
			continue
		}

		var query strings.Builder
		for _, b := range before {
			query.Write(b.slice(fp.Text))
			query.WriteByte(' ')
		}
		for _, a := range after[1:] {
			query.Write(a.slice(fp.Text))
			query.WriteByte(' ')
		}

		phrases, err := op.suggester.Suggest(context.Background(), query.String(), 5)
		if err != nil {
			continue
		}

		delBounds := after[0]
		for _, phrase := range phrases {
			if phrase.Frequency < minSuggestionFrequency {
				continue
			}
			successor, ok := updateSuccessor(state, fp, delBounds.Start, delBounds.End, nil)
			if ok {
				successors = append(successors, successor)
			}
		}
	}

	return successors
}
