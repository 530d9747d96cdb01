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

	"github.com/ealvarez/obfuscate/internal/textstate"
)

// Warner is the minimal logging surface CostH needs to report numerical
// anomalies. *zap.SugaredLogger satisfies it without this package importing
// zap directly.
type Warner interface {
	Warnf(format string, args ...interface{})
}

// CostH computes the heuristic h(node) from spec.md section 4.8: the JSD
// between the node's source profile and the context's target profile,
// shaped into a "remaining distance times cost-per-progress-so-far"
// estimate. It caches the raw JSD on the node's state metadata (GoalCheck
// depends on this) and records the context's original JSD/JS-distance on
// the first call. warn may be nil.
func CostH(node *Node, ctx *textstate.Context, warn Warner) float64 {
	jsd := CalculateJSD(node.State.Profile, ctx.Target)
	if jsd > 1.0 {
		if warn != nil {
			warn.Warnf("jsd exceeded 1.0 (%.6f), clamping", jsd)
		}
		jsd = 1.0
	}
	node.State.Meta.SetJSD(jsd)

	origJsd := math.Max(0, jsd-1e-10)
	origJSDist := JSDistance(origJsd)
	ctx.Meta.RecordOriginal(origJsd, origJSDist)
	actualOrigJsd, actualOrigJSDist, ok := ctx.Meta.Original()
	if !ok {
		actualOrigJsd, actualOrigJSDist = origJsd, origJSDist
	}
	_ = actualOrigJsd

	jsDist := JSDistance(jsd)
	goal := ctx.Meta.GoalJSDist

	p := float64(node.G) / math.Max(1e-6, jsDist-actualOrigJSDist)
	r := math.Max(0, goal-jsDist)
	h := r * p

	node.H = float32(h)
	return h
}
