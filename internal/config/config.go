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

// Package config holds the resolved CLI options that flow from cmd/obfuscate
// into internal/search.Engine, internal/operators, and internal/profileio.
package config

import "errors"

// Default n-gram order, matching the reference implementation's --order
// default and every profile in the retrieved corpus.
const DefaultOrder = 3

// Options is the fully-resolved configuration for one obfuscation run.
type Options struct {
	// InputPath is the text file to obfuscate. Required.
	InputPath string
	// OutputPath receives the best candidate found so far, truncated and
	// rewritten every time a new best is found.
	OutputPath string
	// ProfilePath is where the target n-gram profile is read from, or
	// written to when ProfileSourceFiles is non-empty.
	ProfilePath string
	// ProfileSourceFiles, if non-empty, causes the target profile to be
	// (re)generated from these files and saved to ProfilePath instead of
	// being loaded from it.
	ProfileSourceFiles []string

	// StripPOS strips Penn Treebank POS annotations from InputPath before
	// obfuscating it.
	StripPOS bool
	// ProfileStripPOS strips POS annotations from ProfileSourceFiles before
	// building the target profile. Only meaningful with ProfileSourceFiles
	// set.
	ProfileStripPOS bool

	// NetspeakDir is the base URL of a Netspeak-compatible phrase-frequency
	// service used by the word-replacement/word-removal operators. Empty
	// disables those operators unless OpenAIAPIKey is set.
	NetspeakDir string
	// OpenAIAPIKey, if set and NetspeakDir is empty, backs the
	// word-replacement/word-removal operators with a chat-completion
	// suggester. When both are set, only Netspeak is used.
	OpenAIAPIKey string

	// SynonymDictPath and HypernymDictPath are TSV dictionaries for the
	// contextless synonym/hypernym operators. Empty disables the
	// corresponding operator.
	SynonymDictPath  string
	HypernymDictPath string

	// Order is the n-gram order used throughout the run.
	Order int

	// FreeMemoryLimitMB aborts the search once system free memory drops
	// below this many megabytes.
	FreeMemoryLimitMB int64
	// StatusUpdateInterval is how many goal checks elapse between status
	// snapshots and callback invocations.
	StatusUpdateInterval int

	// StatusAddr, if non-empty, starts an HTTP server on this address
	// exposing /status and /metrics for the duration of the run.
	StatusAddr string

	// CacheAddr, if non-empty, points at a Redis instance backing a shared
	// suggester-response cache, so concurrent obfuscate processes reuse each
	// other's word-replacement/word-removal lookups instead of each paying
	// the network or API cost independently.
	CacheAddr string
}

// Validate reports the same constraints the reference CLI enforces:
// ProfileStripPOS requires ProfileSourceFiles.
func (o *Options) Validate() error {
	if o.InputPath == "" {
		return errors.New("config: --input is required")
	}
	if o.OutputPath == "" {
		return errors.New("config: --output is required")
	}
	if o.ProfilePath == "" {
		return errors.New("config: --profile is required")
	}
	if o.ProfileStripPOS && len(o.ProfileSourceFiles) == 0 {
		return errors.New("config: --profile-strip-pos requires --profile-source-files")
	}
	return nil
}

// ApplyDefaults fills unset numeric fields with the reference tool's
// defaults.
func (o *Options) ApplyDefaults() {
	if o.Order <= 0 {
		o.Order = DefaultOrder
	}
	if o.FreeMemoryLimitMB <= 0 {
		o.FreeMemoryLimitMB = 2000
	}
	if o.StatusUpdateInterval <= 0 {
		o.StatusUpdateInterval = 500
	}
}
