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

// Package suggest defines the external word/phrase suggestion backend used
// by the word-replacement and word-removal operators, plus two concrete
// backends: a Netspeak-shaped n-gram phrase service and an OpenAI-backed
// completion service.
package suggest

import "context"

// Phrase is one candidate completion for a wildcard query, along with the
// corpus frequency the backend reports for it.
type Phrase struct {
	Words     []string
	Frequency int64
}

// Suggester answers "what fills the ? in this query" requests. query uses a
// single "?" token to mark the wildcard position; maxResults bounds the
// number of returned phrases.
type Suggester interface {
	Suggest(ctx context.Context, query string, maxResults int) ([]Phrase, error)
}
