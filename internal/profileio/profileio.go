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

// Package profileio serializes n-gram profiles to a portable file format and
// builds them from raw source-file corpora, mirroring the two entry points
// the search engine needs: load a pre-built target profile, or compute one
// fresh from a list of text files.
package profileio

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/ealvarez/obfuscate/internal/normalize"
	"github.com/ealvarez/obfuscate/pkg/ngram"
)

// Goal-distance formula constants: a target JS-distance is derived from the
// input length by a linear fit against text length in log2 space, so short
// texts (where n-gram statistics are noisier) must reach a larger distance
// than long ones.
const (
	GoalDistSlope     = -0.10437
	GoalDistIntercept = 2.0831
)

// GoalJSDistance returns the JS-distance a search over a text of textLen
// bytes must reach to be considered obfuscated.
func GoalJSDistance(textLen int) float64 {
	if textLen <= 0 {
		return GoalDistIntercept
	}
	return GoalDistSlope*math.Log2(float64(textLen)) + GoalDistIntercept
}

// document is the on-disk shape of a saved profile: n-gram order, total
// occurrence count, and per-key counts keyed by the n-gram's hex-encoded
// byte sequence (JSON object keys must be strings, so the packed integer Key
// is rendered as hex rather than decimal for readability).
type document struct {
	Order  int              `json:"order"`
	Total  int64            `json:"total"`
	Counts map[string]int64 `json:"counts"`
}

// Save writes p to path in the portable JSON profile format.
func Save(path string, p *ngram.Profile) error {
	doc := document{
		Order:  p.Order(),
		Total:  p.N(),
		Counts: make(map[string]int64, p.Size()),
	}
	p.Iterate(func(k ngram.Key, count int64) bool {
		doc.Counts[keyToHex(k, p.Order())] = count
		return true
	})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("profileio: create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("profileio: encode %s: %w", path, err)
	}
	return nil
}

// Load reads a profile previously written by Save.
func Load(path string) (*ngram.Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("profileio: open %s: %w", path, err)
	}
	defer f.Close()

	var doc document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("profileio: decode %s: %w", path, err)
	}

	p := ngram.New(doc.Order)
	deltas := make([]ngram.Delta, 0, len(doc.Counts))
	for hexKey, count := range doc.Counts {
		k, err := hexToKey(hexKey, doc.Order)
		if err != nil {
			return nil, fmt.Errorf("profileio: %s: %w", path, err)
		}
		deltas = append(deltas, ngram.Delta{Key: k, Delta: count})
	}
	p.Update(deltas)
	p.Flatten()
	return p, nil
}

// BuildFromFiles concatenates paths, normalizing the text and optionally
// stripping Penn Treebank POS tags first, and returns the n-gram profile of
// the result.
func BuildFromFiles(paths []string, order int, stripPOS bool) (*ngram.Profile, error) {
	var full []byte
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("profileio: read %s: %w", path, err)
		}
		text := string(raw)
		if stripPOS {
			text = normalize.StripPOS(text)
		}
		text = normalize.Text(text)
		full = append(full, text...)
	}
	return ngram.FromText(full, order), nil
}

func keyToHex(k ngram.Key, order int) string {
	b := ngram.Decode(k, order)
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0xf]
	}
	return string(out)
}

func hexToKey(s string, order int) (ngram.Key, error) {
	if len(s) != order*2 {
		return 0, fmt.Errorf("malformed n-gram key %q for order %d", s, order)
	}
	b := make([]byte, order)
	for i := 0; i < order; i++ {
		hi, err := hexNibble(s[i*2])
		if err != nil {
			return 0, err
		}
		lo, err := hexNibble(s[i*2+1])
		if err != nil {
			return 0, err
		}
		b[i] = hi<<4 | lo
	}
	return ngram.Encode(b), nil
}

func hexNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex digit %q", c)
	}
}
