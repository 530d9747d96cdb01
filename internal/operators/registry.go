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

import "github.com/ealvarez/obfuscate/internal/suggest"

// Default edge weights for the built-in operators. Costlier edits (removing
// an n-gram outright, flipping characters) cost more g than the gentler
// lexical substitutions, so the search prefers the cheapest edit that still
// makes goal-ward progress.
const (
	CostNgramRemoval        = 40.0
	CostCharacterFlip       = 30.0
	CostPunctuationRemap    = 3.0
	CostContextlessSynonym  = 10.0
	CostContextlessHypernym = 6.0
	CostWordReplacement     = 4.0
	CostWordRemoval         = 2.0
)

// DictionaryPaths configures the on-disk TSV dictionaries the built-in
// synonym and hypernym operators read from.
type DictionaryPaths struct {
	Synonym  string
	Hypernym string
}

// BuildDefaultSet assembles the standard operator lineup: n-gram removal,
// character flip, and punctuation remap always run; the dictionary
// operators run if their path is non-empty; the suggester-backed operators
// run if suggester is non-nil.
func BuildDefaultSet(dicts DictionaryPaths, suggester suggest.Suggester) []Operator {
	set := []Operator{
		NewNgramRemoval(CostNgramRemoval),
		NewCharacterFlip(CostCharacterFlip),
		NewPunctuationRemap(CostPunctuationRemap),
	}

	if dicts.Synonym != "" {
		set = append(set, NewContextlessSynonym(CostContextlessSynonym, dicts.Synonym))
	}
	if dicts.Hypernym != "" {
		set = append(set, NewContextlessHypernym(CostContextlessHypernym, dicts.Hypernym))
	}
	if suggester != nil {
		set = append(set, NewWordReplacement(CostWordReplacement, suggester))
		set = append(set, NewWordRemoval(CostWordRemoval, suggester))
	}

	return set
}
