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

package textstate

import (
	"encoding/binary"
	"hash/fnv"
)

// Digest is a 128-bit content hash, playing the role spec.md assigns to an
// "MD5-equivalent digest" over the materialized form of a DiffString.
type Digest [16]byte

// hash128 mixes b through two independent FNV-1a 64-bit rounds to fill both
// halves of a 128-bit digest. Adapted from the two-round FNV-1a mixing
// scheme the teacher pack used for envelope audit hashes (plugin/tfd's
// Hash128), generalized here from fixed uint64 fields to arbitrary byte
// slices.
func hash128(b []byte) Digest {
	h1 := fnv.New64a()
	_, _ = h1.Write(b)
	s1 := h1.Sum64()

	h2 := fnv.New64a()
	_, _ = h2.Write(b)
	var salt [8]byte
	binary.LittleEndian.PutUint64(salt[:], s1^uint64(len(b))^0x9e3779b97f4a7c15)
	_, _ = h2.Write(salt[:])
	s2 := h2.Sum64()

	var out Digest
	binary.LittleEndian.PutUint64(out[0:8], s1)
	binary.LittleEndian.PutUint64(out[8:16], s2)
	return out
}
