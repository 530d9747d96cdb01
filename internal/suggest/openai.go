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
	"fmt"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ealvarez/obfuscate/internal/cache"
)

// syntheticFrequency is the Frequency ChatSuggester reports for every
// completion it proposes, since the model has no real corpus count to give.
// It must clear internal/operators' minSuggestionFrequency (50000): the
// word-replacement/word-removal operators discard any suggestion below that
// threshold, so a lower synthetic value would make an OpenAI-backed run
// silently reject every suggestion it ever produces.
const syntheticFrequency = 75000

// ChatSuggester fills a query's "?" wildcard by asking a chat completion
// model for plausible single-word fillers, used as a fallback (or
// alternative) to a Netspeak-shaped frequency service when one isn't
// available. An optional shared cache (see SetSharedCache) avoids paying
// for the same completion twice, which matters more here than for
// NetspeakClient since every miss is a billed API call.
type ChatSuggester struct {
	client *openai.Client
	model  string

	shared *cache.SharedCache
}

// NewChatSuggester builds a suggester against the OpenAI chat completions
// API using apiKey and model (e.g. "gpt-4o-mini").
func NewChatSuggester(apiKey, model string) *ChatSuggester {
	return &ChatSuggester{client: openai.NewClient(apiKey), model: model}
}

// SetSharedCache backs s with a shared cache, so a completion looked up by
// another process is reused before a request ever reaches the API.
func (s *ChatSuggester) SetSharedCache(shared *cache.SharedCache) {
	s.shared = shared
}

// Suggest asks the model to propose maxResults words filling the "?" in
// query. Every returned Phrase carries the same syntheticFrequency, high
// enough to clear the operators' minimum-frequency gate without pretending
// to be a real corpus count.
func (s *ChatSuggester) Suggest(ctx context.Context, query string, maxResults int) ([]Phrase, error) {
	key := "openai:" + s.model + ":" + query + "\x00" + strconv.Itoa(maxResults)
	if phrases, ok := getShared(ctx, s.shared, key); ok {
		return phrases, nil
	}

	prompt := fmt.Sprintf(
		"Given the sentence fragment %q where ? marks a missing single word, "+
			"list %d plausible words to fill the blank, most natural first, one per line, "+
			"with no punctuation or numbering.",
		query, maxResults,
	)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   64,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("suggest: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, nil
	}

	lines := strings.Split(resp.Choices[0].Message.Content, "\n")
	phrases := make([]Phrase, 0, len(lines))
	for _, line := range lines {
		word := strings.TrimSpace(line)
		if word == "" {
			continue
		}
		phrases = append(phrases, Phrase{Words: []string{word}, Frequency: syntheticFrequency})
		if len(phrases) >= maxResults {
			break
		}
	}

	putShared(ctx, s.shared, key, phrases)
	return phrases, nil
}
