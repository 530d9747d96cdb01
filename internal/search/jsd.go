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

package search

import (
	"math"

	"github.com/ealvarez/obfuscate/pkg/ngram"
)

// dekkerDouble is Dekker's (1971) compensated double-double accumulator,
// ported from original_source/obfuscation/util/dekker.hpp.
type dekkerDouble struct {
	hi, lo float64
}

func (d dekkerDouble) add(rhs dekkerDouble) dekkerDouble {
	r := d.hi + rhs.hi
	var s float64
	if math.Abs(d.hi) > math.Abs(rhs.hi) {
		s = d.hi - r + rhs.hi + rhs.lo + d.lo
	} else {
		s = rhs.hi - r + d.hi + d.lo + rhs.lo
	}
	z := r + s
	zz := r - z + s
	return dekkerDouble{hi: z, lo: zz}
}

func (d dekkerDouble) value() float64 { return d.hi }

// logAdd computes log(exp(s1)+exp(s2)) without leaving log space, matching
// original_source/obfuscation/ComputeCostH.cpp's local logAdd helper.
func logAdd(s1, s2 float64) float64 {
	return s1 + math.Log(1.0+math.Exp(s2-s1))
}

type kv struct {
	key   ngram.Key
	count int64
}

func sortedPairs(p *ngram.Profile) []kv {
	var out []kv
	p.Iterate(func(k ngram.Key, count int64) bool {
		out = append(out, kv{key: k, count: count})
		return true
	})
	return out
}

// CalculateJSD computes the Jensen-Shannon divergence between source and
// target, each interpreted as a discrete distribution normalized by its own
// N(). Ported from ComputeCostH::calculateJsd: a simultaneous ordered walk
// of both profiles' sorted keys, accumulated in log space with Dekker
// compensated summation.
func CalculateJSD(source, target *ngram.Profile) float64 {
	pList := sortedPairs(target)
	qList := sortedPairs(source)

	pNorm := float64(target.N())
	qNorm := float64(source.N())
	logHalf := math.Log(0.5)

	var jsdP, jsdQ dekkerDouble
	i, j := 0, 0
	for i < len(pList) || j < len(qList) {
		p, q := 1.0, 1.0

		var pDeref, qDeref *kv
		if i < len(pList) {
			pDeref = &pList[i]
		}
		if j < len(qList) {
			qDeref = &qList[j]
		}

		switch {
		case pDeref != nil && (qDeref == nil || pDeref.key < qDeref.key):
			p = logCount(pDeref.count, pNorm)
			i++
		case qDeref != nil && (pDeref == nil || qDeref.key < pDeref.key):
			q = logCount(qDeref.count, qNorm)
			j++
		default:
			p = logCount(pDeref.count, pNorm)
			q = logCount(qDeref.count, qNorm)
			i++
			j++
		}

		var m float64
		if p <= 0.0 && q <= 0.0 {
			m = logHalf + logAdd(p, q)
		} else {
			m = logHalf + math.Min(p, q)
		}

		if p <= 0.0 {
			jsdP = jsdP.add(dekkerDouble{hi: math.Exp(p) * math.Log2(math.Exp(p-m))})
		}
		if q <= 0.0 {
			jsdQ = jsdQ.add(dekkerDouble{hi: math.Exp(q) * math.Log2(math.Exp(q-m))})
		}
	}

	return 0.5 * (jsdP.value() + jsdQ.value())
}

// logCount returns log(count/norm), or the sentinel 1.0 used throughout this
// package to mean "this distribution assigns zero mass here".
func logCount(count int64, norm float64) float64 {
	if count == 0 {
		return 1.0
	}
	return math.Log(float64(count)) - math.Log(norm)
}

// JSDistance converts a Jensen-Shannon divergence to the corresponding
// metric distance sqrt(2*jsd).
func JSDistance(jsd float64) float64 {
	if jsd < 0 {
		jsd = 0
	}
	return math.Sqrt(2.0 * jsd)
}
