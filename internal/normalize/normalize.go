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

// Package normalize canonicalizes raw input text before it is turned into a
// DiffString or folded into an n-gram profile: Unicode NFC folding, BOM
// stripping, quote/dash/ellipsis canonicalization, and CRLF normalization.
// StripPOS additionally removes Penn Treebank-style "/TAG" annotations from
// pre-tagged corpora used to build profiles.
package normalize

import (
	"github.com/dlclark/regexp2"
	"golang.org/x/text/unicode/norm"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	quoteRegex    = regexp2.MustCompile("(?:''|``|\"|„|“|”|‘|’|«|»)", regexp2.None)
	dashRegex     = regexp2.MustCompile("(?:(?:‒|–|—|―)+|-{2,})", regexp2.None)
	ellipsisRegex = regexp2.MustCompile("(?:…|\\.{3,})", regexp2.None)
	crlfRegex     = regexp2.MustCompile("\\r\\n", regexp2.None)
)

// Text folds text to NFC, strips a leading UTF-8 BOM, and canonicalizes
// quotes, dashes, ellipses, and line endings the way the reference corpus
// this profile format was built from does, so a text and the profile it is
// compared against agree on how these marks are spelled.
func Text(text string) string {
	folded := norm.NFC.String(text)

	if b := []byte(folded); len(b) >= 3 && b[0] == utf8BOM[0] && b[1] == utf8BOM[1] && b[2] == utf8BOM[2] {
		folded = string(b[3:])
	}

	folded = mustReplace(quoteRegex, folded, "'")
	folded = mustReplace(dashRegex, folded, "--")
	folded = mustReplace(ellipsisRegex, folded, "...")
	folded = mustReplace(crlfRegex, folded, "\n")

	return folded
}

// wordPOS matches a trailing "/TAG" annotation on a token, e.g. "dog/NN".
// (?=\s|$) requires the match be followed by whitespace or end of string.
var wordPOS = regexp2.MustCompile(`/[\w+\-\$\*]+(?=\s|$)`, regexp2.None)

// The open/close bracket and quote annotations use lookbehind to recognize
// the token they are attached to without consuming it, mirroring the
// original tagger's punctuation conventions ("``" opens a quote, "-LRB-"
// style bracket tags, and bare punctuation tags).
var (
	openQuotePOS    = regexp2.MustCompile(`(?<=\s)(.{1,2})/`+"``"+`\s`, regexp2.None)
	closeQuotePOS   = regexp2.MustCompile(`\s(.{1,2})/''(?=\s|$)`, regexp2.None)
	openBracketPOS  = regexp2.MustCompile(`(?<=\s)(.)/\((?:-\w\w)?\s`, regexp2.None)
	closeBracketPOS = regexp2.MustCompile(`\s(.)/\)(?:-\w\w)?(?=\s|$)`, regexp2.None)
	punctPOS        = regexp2.MustCompile(`\s(.)/[.,:'](?:-\w\w)?(?=\s|$)`, regexp2.None)
)

// StripPOS removes Penn Treebank-style part-of-speech tags ("word/NN") from
// pre-tagged corpus text, restoring the plain surface form the n-gram
// profile is built from.
func StripPOS(text string) string {
	text = mustReplace(wordPOS, text, "")
	text = mustReplace(openQuotePOS, text, "$1")
	text = mustReplace(closeQuotePOS, text, "$1")
	text = mustReplace(openBracketPOS, text, "$1")
	text = mustReplace(closeBracketPOS, text, "$1")
	text = mustReplace(punctPOS, text, "$1")
	return text
}

func mustReplace(re *regexp2.Regexp, input, replacement string) string {
	out, err := re.Replace(input, replacement, -1, -1)
	if err != nil {
		return input
	}
	return out
}
