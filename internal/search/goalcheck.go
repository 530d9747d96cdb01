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

import "github.com/ealvarez/obfuscate/internal/textstate"

// GoalCheck reports whether node satisfies the search goal: it is not the
// root, and its JS-distance to the target (cached by a prior CostH call) is
// at least the context's goal distance.
func GoalCheck(node *Node, ctx *textstate.Context) bool {
	jsd, ok := node.State.Meta.CachedJSD()
	if !ok {
		return false
	}
	if node.Depth() == 0 {
		return false
	}
	return JSDistance(jsd) >= ctx.Meta.GoalJSDist
}
