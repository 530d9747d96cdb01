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
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ealvarez/obfuscate/internal/cache"
)

// NetspeakClient queries an n-gram phrase-frequency service (a Netspeak
// instance) over HTTP and caches responses in memory, since the same
// wildcard query recurs constantly across a search run. An optional shared
// cache (see SetSharedCache) extends that reuse across processes.
type NetspeakClient struct {
	baseURL string
	client  *http.Client

	mu    sync.Mutex
	cache map[string][]Phrase

	shared *cache.SharedCache
}

// NewNetspeakClient builds a client against a Netspeak-compatible HTTP
// endpoint at baseURL.
func NewNetspeakClient(baseURL string) *NetspeakClient {
	tr := &http.Transport{
		MaxIdleConns:        64,
		MaxIdleConnsPerHost: 64,
		IdleConnTimeout:     30 * time.Second,
	}
	return &NetspeakClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Transport: tr, Timeout: 5 * time.Second},
		cache:   make(map[string][]Phrase),
	}
}

type netspeakPhrase struct {
	Words     []string `json:"words"`
	Frequency int64    `json:"frequency"`
}

type netspeakResponse struct {
	Phrases []netspeakPhrase `json:"phrases"`
}

func (c *NetspeakClient) cacheKey(query string, maxResults int) string {
	return query + "\x00" + strconv.Itoa(maxResults)
}

// SetSharedCache backs c with a shared cache, so a hit populated by another
// process is reused before a request ever reaches the Netspeak service.
func (c *NetspeakClient) SetSharedCache(shared *cache.SharedCache) {
	c.shared = shared
}

// Suggest sends query (using "?" as the wildcard token, in Netspeak's own
// query syntax) and returns up to maxResults ranked phrases.
func (c *NetspeakClient) Suggest(ctx context.Context, query string, maxResults int) ([]Phrase, error) {
	key := c.cacheKey(query, maxResults)

	c.mu.Lock()
	if cached, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	if phrases, ok := getShared(ctx, c.shared, "netspeak:"+key); ok {
		c.mu.Lock()
		c.cache[key] = phrases
		c.mu.Unlock()
		return phrases, nil
	}

	u := c.baseURL + "/search?" + url.Values{
		"query": {query},
		"topk":  {strconv.Itoa(maxResults)},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("suggest: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suggest: netspeak request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggest: netspeak returned status %d", resp.StatusCode)
	}

	var parsed netspeakResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("suggest: decode netspeak response: %w", err)
	}

	phrases := make([]Phrase, 0, len(parsed.Phrases))
	for _, p := range parsed.Phrases {
		phrases = append(phrases, Phrase{Words: p.Words, Frequency: p.Frequency})
	}

	c.mu.Lock()
	c.cache[key] = phrases
	c.mu.Unlock()
	putShared(ctx, c.shared, "netspeak:"+key, phrases)

	return phrases, nil
}
