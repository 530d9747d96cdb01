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

// Package sinks provides the output sink the search driver writes candidate
// obfuscated text to: a buffered file that can be flushed for visibility and
// truncated so a later, better candidate replaces an earlier one in place.
package sinks

import (
	"bufio"
	"os"
	"sync"
	"time"
)

// LayeredFileSink is a buffered file writer that can rewind to the start and
// overwrite whatever it had written before, mirroring a layered output
// stream that flushes to a rewindable base. The search driver uses this to
// keep only the best candidate on disk without accumulating every
// intermediate rewrite.
type LayeredFileSink struct {
	mu   sync.Mutex
	f    *os.File
	w    *bufio.Writer
	path string

	lastFlush time.Time
}

// NewLayeredFileSink creates (or truncates) the file at path and wraps it in
// a 1MiB buffered writer.
func NewLayeredFileSink(path string) (*LayeredFileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &LayeredFileSink{f: f, w: bufio.NewWriterSize(f, 1<<20), path: path, lastFlush: time.Now()}, nil
}

// Write appends p to the buffered layer, flushing periodically to bound data
// loss on crash.
func (s *LayeredFileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.w.Write(p)
	if time.Since(s.lastFlush) > 100*time.Millisecond {
		_ = s.w.Flush()
		s.lastFlush = time.Now()
	}
	return n, err
}

// Flush forces buffered data to disk.
func (s *LayeredFileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFlush = time.Now()
	return s.w.Flush()
}

// Truncate discards everything written so far, in the buffer and on disk,
// and rewinds to the start of the file so the next Write starts a fresh
// candidate.
func (s *LayeredFileSink) Truncate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.w.Reset(s.f)
	if err := s.f.Truncate(0); err != nil {
		return err
	}
	_, err := s.f.Seek(0, 0)
	return err
}

// Close flushes and closes the underlying file.
func (s *LayeredFileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.w.Flush()
	return s.f.Close()
}
