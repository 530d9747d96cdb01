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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ealvarez/obfuscate/internal/suggest"
	"github.com/ealvarez/obfuscate/internal/textstate"
	"github.com/ealvarez/obfuscate/pkg/ngram"
)

func newTestContext(sourceText string, targetText string) (*textstate.State, *textstate.Context) {
	state := textstate.New([]byte(sourceText), 3)
	target := ngram.FromText([]byte(targetText), 3)
	ctx := textstate.NewContext(target, len(sourceText), 0.5)
	return state, ctx
}

func TestNgramRemoval_ShrinksText(t *testing.T) {
	state, ctx := newTestContext("the quick brown fox jumps over the lazy dog", "the the the the")
	op := NewNgramRemoval(1.0)

	successors := op.Apply(state, ctx)
	require.NotEmpty(t, successors)
	for _, s := range successors {
		require.Less(t, s.Text.Len(), state.Text.Len())
		require.False(t, s.Equal(state))
	}
}

func TestCharacterFlip_ProducesPermutedText(t *testing.T) {
	state, ctx := newTestContext("the quick brown fox jumps over the lazy dog", "xyz xyz xyz xyz")
	op := NewCharacterFlip(1.0)

	successors := op.Apply(state, ctx)
	for _, s := range successors {
		require.Equal(t, state.Text.Len(), s.Text.Len())
		require.False(t, s.Equal(state))
	}
}

func TestPunctuationRemap_OnlyTouchesConfiguredMarks(t *testing.T) {
	state, ctx := newTestContext("hello, world. how are you? fine!", "aaa aaa aaa aaa")
	op := NewPunctuationRemap(1.0)

	successors := op.Apply(state, ctx)
	for _, s := range successors {
		require.Equal(t, state.Text.Len(), s.Text.Len())
	}
}

func TestRankNgrams_ExcludesSingletonsAndUnsharedNgrams(t *testing.T) {
	source := ngram.FromText([]byte("aaa aaa bbb"), 3)
	target := ngram.FromText([]byte("aaa aaa aaa aaa"), 3)

	ranked := rankNgrams(source, target)
	require.NotEmpty(t, ranked)
	for _, r := range ranked {
		require.GreaterOrEqual(t, r.rank, 1.0)
	}
}

func TestRankNgrams_EmptySourceYieldsNoRanks(t *testing.T) {
	source := ngram.New(3)
	target := ngram.FromText([]byte("aaa aaa aaa"), 3)
	require.Empty(t, rankNgrams(source, target))
}

func TestUpdateSuccessor_RejectsReintroducedNgram(t *testing.T) {
	state := textstate.New([]byte("banana"), 3)
	text := state.Text.String()
	fp := FocusPoint{NgramOffset: 0, Text: text}

	// Replacing "ban" with "ban" trivially reintroduces the original n-gram.
	_, ok := updateSuccessor(state, fp, 0, 3, []byte("ban"))
	require.False(t, ok)
}

func TestUpdateSuccessor_AcceptsGenuineEdit(t *testing.T) {
	state := textstate.New([]byte("banana"), 3)
	text := state.Text.String()
	fp := FocusPoint{NgramOffset: 0, Text: text}

	successor, ok := updateSuccessor(state, fp, 0, 3, []byte("pin"))
	require.True(t, ok)
	require.Equal(t, "pinana", string(successor.Text.String()))
}

func TestParseWordBounds_FindsSurroundingWords(t *testing.T) {
	text := []byte("the quick brown fox jumps")
	fp := FocusPoint{NgramOffset: 10, Text: text} // inside "brown"

	before, after := parseWordBounds(fp, 2, 2)
	require.Len(t, before, 2)
	require.Equal(t, "the", string(text[before[0].Start:before[0].End]))
	require.Equal(t, "quick", string(text[before[1].Start:before[1].End]))

	require.GreaterOrEqual(t, len(after), 1)
	require.Equal(t, "brown", string(text[after[0].Start:after[0].End]))
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newLRU(2)
	var k1, k2, k3 textstate.Digest
	k1[0], k2[0], k3[0] = 1, 2, 3

	c.put(k1, "a")
	c.put(k2, "b")
	c.get(k1) // k1 now most-recent
	c.put(k3, "c")

	_, ok := c.get(k2)
	require.False(t, ok, "k2 should have been evicted")
	_, ok = c.get(k1)
	require.True(t, ok)
	_, ok = c.get(k3)
	require.True(t, ok)
}

func writeDict(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dict.tsv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestContextlessSynonym_ReplacesFocusWordWithDictionaryAlternatives(t *testing.T) {
	path := writeDict(t, "brown\tsilver\tgray")
	op := NewContextlessSynonym(1.0, path)
	require.NotNil(t, op.dict)

	state, ctx := newTestContext("the quick brown fox", "aaa aaa aaa")
	text := state.Text.String()
	fp := FocusPoint{NgramOffset: strings.Index(string(text), "brown"), Text: text}

	successors := op.applyImpl(fp, state, ctx)
	require.Len(t, successors, 2)
	var texts []string
	for _, s := range successors {
		texts = append(texts, string(s.Text.String()))
	}
	require.Contains(t, texts, "the quick silver fox")
	require.Contains(t, texts, "the quick gray fox")
}

func TestContextlessSynonym_UnknownWordYieldsNoSuccessors(t *testing.T) {
	path := writeDict(t, "brown\tsilver")
	op := NewContextlessSynonym(1.0, path)

	state, ctx := newTestContext("the quick red fox", "aaa aaa aaa")
	text := state.Text.String()
	fp := FocusPoint{NgramOffset: strings.Index(string(text), "red"), Text: text}

	require.Empty(t, op.applyImpl(fp, state, ctx))
}

func TestContextlessSynonym_MissingDictionaryDegradesGracefully(t *testing.T) {
	op := NewContextlessSynonym(1.0, filepath.Join(t.TempDir(), "does-not-exist.tsv"))
	require.Nil(t, op.dict)

	state, ctx := newTestContext("the quick brown fox", "aaa aaa aaa")
	text := state.Text.String()
	fp := FocusPoint{NgramOffset: strings.Index(string(text), "brown"), Text: text}

	require.Empty(t, op.applyImpl(fp, state, ctx))
}

func TestContextlessHypernym_ReplacesFocusWordWithDictionaryAlternative(t *testing.T) {
	path := writeDict(t, "dog\tanimal")
	op := NewContextlessHypernym(1.0, path)
	require.NotNil(t, op.dict)

	state, ctx := newTestContext("the lazy dog sleeps", "aaa aaa aaa")
	text := state.Text.String()
	fp := FocusPoint{NgramOffset: strings.Index(string(text), "dog"), Text: text}

	successors := op.applyImpl(fp, state, ctx)
	require.Len(t, successors, 1)
	require.Equal(t, "the lazy animal sleeps", string(successors[0].Text.String()))
}

func TestContextlessHypernym_MissingDictionaryDegradesGracefully(t *testing.T) {
	op := NewContextlessHypernym(1.0, filepath.Join(t.TempDir(), "does-not-exist.tsv"))
	require.Nil(t, op.dict)

	state, ctx := newTestContext("the lazy dog sleeps", "aaa aaa aaa")
	text := state.Text.String()
	fp := FocusPoint{NgramOffset: strings.Index(string(text), "dog"), Text: text}

	require.Empty(t, op.applyImpl(fp, state, ctx))
}

// echoSuggester answers with the query's own words, substituting the "?"
// wildcard for a fixed replacement, so a test can predict the exact
// successor text regardless of which of the operator's context offsets
// produced the call.
type echoSuggester struct {
	replacement string
	frequency   int64
}

func (e *echoSuggester) Suggest(_ context.Context, query string, _ int) ([]suggest.Phrase, error) {
	words := strings.Fields(query)
	for i, w := range words {
		if w == "?" {
			words[i] = e.replacement
		}
	}
	return []suggest.Phrase{{Words: words, Frequency: e.frequency}}, nil
}

func TestWordReplacement_ReplacesFocusWordWithSuggestedFiller(t *testing.T) {
	state, ctx := newTestContext("one two three four five six seven eight nine", "aaa aaa aaa")
	text := state.Text.String()
	fp := FocusPoint{NgramOffset: strings.Index(string(text), "five"), Text: text}

	op := NewWordReplacement(1.0, &echoSuggester{replacement: "FIVE", frequency: minSuggestionFrequency + 1})
	successors := op.applyImpl(fp, state, ctx)

	require.NotEmpty(t, successors)
	for _, s := range successors {
		require.Contains(t, string(s.Text.String()), "FIVE")
		require.NotContains(t, string(s.Text.String()), "five")
	}
}

func TestWordReplacement_NilSuggesterYieldsNoSuccessors(t *testing.T) {
	state, ctx := newTestContext("one two three four five six seven eight nine", "aaa aaa aaa")
	text := state.Text.String()
	fp := FocusPoint{NgramOffset: strings.Index(string(text), "five"), Text: text}

	op := NewWordReplacement(1.0, nil)
	require.Empty(t, op.applyImpl(fp, state, ctx))
}

func TestWordReplacement_LowFrequencySuggestionRejected(t *testing.T) {
	state, ctx := newTestContext("one two three four five six seven eight nine", "aaa aaa aaa")
	text := state.Text.String()
	fp := FocusPoint{NgramOffset: strings.Index(string(text), "five"), Text: text}

	op := NewWordReplacement(1.0, &echoSuggester{replacement: "FIVE", frequency: minSuggestionFrequency - 1})
	require.Empty(t, op.applyImpl(fp, state, ctx))
}

func TestWordRemoval_RemovesFocusWordWhenSuggestionIsFrequent(t *testing.T) {
	state, ctx := newTestContext("one two three four five six seven eight nine", "aaa aaa aaa")
	text := state.Text.String()
	fp := FocusPoint{NgramOffset: strings.Index(string(text), "five"), Text: text}

	op := NewWordRemoval(1.0, &echoSuggester{replacement: "unused", frequency: minSuggestionFrequency + 1})
	successors := op.applyImpl(fp, state, ctx)

	require.NotEmpty(t, successors)
	for _, s := range successors {
		require.NotContains(t, string(s.Text.String()), "five")
	}
}

func TestWordRemoval_NilSuggesterYieldsNoSuccessors(t *testing.T) {
	state, ctx := newTestContext("one two three four five six seven eight nine", "aaa aaa aaa")
	text := state.Text.String()
	fp := FocusPoint{NgramOffset: strings.Index(string(text), "five"), Text: text}

	op := NewWordRemoval(1.0, nil)
	require.Empty(t, op.applyImpl(fp, state, ctx))
}
