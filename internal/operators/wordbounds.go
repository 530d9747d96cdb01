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

import "unicode"

// WordBounds is a half-open [Start, End) byte range spanning one word.
type WordBounds struct {
	Start, End int
}

func (w WordBounds) slice(text []byte) []byte { return text[w.Start:w.End] }

func isWordBoundary(c byte) bool {
	return unicode.IsSpace(rune(c)) || unicode.IsPunct(rune(c)) || unicode.IsSymbol(rune(c))
}

// parseWordStart returns the byte offset of the beginning of the word
// containing pos, or of the next word if pos sits on a boundary.
func parseWordStart(text []byte, pos int) int {
	if pos >= len(text) || pos <= 0 {
		return pos
	}

	if isWordBoundary(text[pos]) {
		for pos < len(text) && isWordBoundary(text[pos]) {
			pos++
		}
		return pos
	}

	for pos > 0 && !isWordBoundary(text[pos-1]) {
		pos--
	}
	return pos
}

// parseWordEnd returns the byte offset past the end of the word containing
// pos, or of the previous word if pos sits on a boundary.
func parseWordEnd(text []byte, pos int) int {
	if pos >= len(text) || pos <= 0 {
		return pos
	}

	if isWordBoundary(text[pos]) {
		for pos > 0 && isWordBoundary(text[pos]) {
			pos--
		}
		return pos + 1
	}

	for pos < len(text) && !isWordBoundary(text[pos]) {
		pos++
	}
	return pos
}

// parseWordBounds returns up to wordsBefore words preceding the word at the
// focus point, and up to wordsAfter+1 words starting with the focus word
// itself (index 0 of the second slice is always the focus word).
func parseWordBounds(fp FocusPoint, wordsBefore, wordsAfter int) (before, after []WordBounds) {
	text := fp.Text
	pos := fp.NgramOffset

	start := parseWordStart(text, pos)
	end := parseWordEnd(text, start)
	after = append(after, WordBounds{start, end})

	for wordsAfter > 0 && end < len(text) {
		nextStart := parseWordStart(text, end+1)
		nextEnd := parseWordEnd(text, nextStart)
		if nextEnd <= nextStart || nextStart == start {
			break
		}
		start, end = nextStart, nextEnd
		after = append(after, WordBounds{start, end})
		wordsAfter--
	}

	start = after[0].Start
	for wordsBefore > 0 && start > 0 {
		prevEnd := parseWordEnd(text, start-1)
		prevStart := parseWordStart(text, prevEnd-1)
		if prevEnd <= prevStart || prevStart == start {
			break
		}
		start = prevStart
		before = append(before, WordBounds{prevStart, prevEnd})
		wordsBefore--
	}
	for i, j := 0, len(before)-1; i < j; i, j = i+1, j-1 {
		before[i], before[j] = before[j], before[i]
	}

	return before, after
}
