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

// Package textstate implements the incremental text+profile search state:
// DiffString (spec.md C2), State (C3) and Context (C4).
package textstate

import "fmt"

// EditLogFlattenThreshold is the edit-log length at which Apply is invoked
// automatically to bound memory and materialization cost.
const EditLogFlattenThreshold = 150

// Edit is a single (position, delete_count, insertion_bytes) operation
// applied left-to-right against the string produced by all prior edits.
type Edit struct {
	Pos         int
	DeleteCount int
	Insert      []byte
}

// DiffString is a byte string represented as a shared immutable source plus
// an ordered edit log, with an eagerly maintained content hash.
type DiffString struct {
	source []byte
	edits  []Edit
	hash   Digest
}

// NewDiffString builds a DiffString whose logical value is a copy of src.
func NewDiffString(src []byte) *DiffString {
	d := &DiffString{source: append([]byte(nil), src...)}
	d.hash = hash128(d.source)
	return d
}

// Reset re-establishes source as the new backing string and clears the edit
// log.
func (d *DiffString) Reset(src []byte) {
	d.source = append([]byte(nil), src...)
	d.edits = nil
	d.hash = hash128(d.source)
}

func applyEdit(cur []byte, e Edit) []byte {
	if e.Pos < 0 || e.DeleteCount < 0 || e.Pos+e.DeleteCount > len(cur) {
		panic(fmt.Sprintf("textstate: edit %+v out of range for len=%d", e, len(cur)))
	}
	out := make([]byte, 0, len(cur)-e.DeleteCount+len(e.Insert))
	out = append(out, cur[:e.Pos]...)
	out = append(out, e.Insert...)
	out = append(out, cur[e.Pos+e.DeleteCount:]...)
	return out
}

// String materializes the current logical value by replaying the edit log
// over source.
func (d *DiffString) String() []byte {
	cur := append([]byte(nil), d.source...)
	for _, e := range d.edits {
		cur = applyEdit(cur, e)
	}
	return cur
}

// Edit appends e to the log. This is the expensive path: it materializes
// the new text and rehashes from scratch.
func (d *DiffString) Edit(e Edit) {
	d.edits = append(d.edits, e)
	d.hash = hash128(d.String())
	d.maybeApply()
}

// EditFast appends e to the log and rehashes from an already-materialized
// text the caller built while constructing the edit, avoiding a redundant
// replay of the log. text must equal what String() would return after the
// append.
func (d *DiffString) EditFast(e Edit, text []byte) {
	d.edits = append(d.edits, e)
	d.hash = hash128(text)
	d.maybeApply()
}

func (d *DiffString) maybeApply() {
	if len(d.edits) > EditLogFlattenThreshold {
		d.Apply()
	}
}

// Apply materializes the logical value, makes it the new source, and clears
// the edit log. The logical value, and therefore the hash, is unchanged.
func (d *DiffString) Apply() {
	d.source = d.String()
	d.edits = nil
}

// HashValue returns the eagerly maintained content digest.
func (d *DiffString) HashValue() Digest { return d.hash }

// Equal reports bytewise equality of the two materialized forms.
func (d *DiffString) Equal(other *DiffString) bool {
	if d == other {
		return true
	}
	if d.hash != other.hash {
		return false
	}
	a, b := d.String(), other.String()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent DiffString with the same logical value. The
// source backing array is shared (copy-on-write is unnecessary since source
// is never mutated in place), but the edit log is copied so the two
// DiffStrings can diverge.
func (d *DiffString) Clone() *DiffString {
	return &DiffString{
		source: d.source,
		edits:  append([]Edit(nil), d.edits...),
		hash:   d.hash,
	}
}

// Len returns the byte length of the materialized value.
func (d *DiffString) Len() int {
	n := len(d.source)
	for _, e := range d.edits {
		n += len(e.Insert) - e.DeleteCount
	}
	return n
}
