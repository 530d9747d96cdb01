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

package suggest

import (
	"context"
	"encoding/json"

	"github.com/ealvarez/obfuscate/internal/cache"
)

// getShared and putShared let NetspeakClient and ChatSuggester fall back to
// a process-external cache.SharedCache before hitting the network, so a
// fleet of obfuscate workers sharing one Redis instance only pays for a
// given wildcard query once. Both are no-ops when shared is nil, which is
// the default until a caller opts in with SetSharedCache.
func getShared(ctx context.Context, shared *cache.SharedCache, key string) ([]Phrase, bool) {
	if shared == nil {
		return nil, false
	}
	raw, ok, err := shared.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var phrases []Phrase
	if err := json.Unmarshal(raw, &phrases); err != nil {
		return nil, false
	}
	return phrases, true
}

func putShared(ctx context.Context, shared *cache.SharedCache, key string, phrases []Phrase) {
	if shared == nil {
		return
	}
	raw, err := json.Marshal(phrases)
	if err != nil {
		return
	}
	_ = shared.Set(ctx, key, raw)
}
