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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/ealvarez/obfuscate/internal/search"
)

func TestObserve_UpdatesGaugesFromStatus(t *testing.T) {
	SetOperatorNames([]string{"ngram-removal"})
	status := search.NewStatus(1)
	status.SizeOfOpen.Store(7)
	status.SizeOfClosed.Store(3)
	status.BranchingFactorMax.Store(5)
	status.OperatorStats[0].Applications.Store(2)

	Observe(status)

	require.Equal(t, float64(7), testutil.ToFloat64(openSize))
	require.Equal(t, float64(3), testutil.ToFloat64(closedSize))
	require.Equal(t, float64(5), testutil.ToFloat64(branchingFactorMax))
}

func TestObserve_AccumulatesCounterDeltasAcrossCalls(t *testing.T) {
	status := search.NewStatus(1)
	status.NumGoalChecks.Store(10)
	Observe(status)
	before := testutil.ToFloat64(goalChecksTotal)

	status.NumGoalChecks.Store(15)
	Observe(status)
	after := testutil.ToFloat64(goalChecksTotal)

	require.Equal(t, float64(5), after-before)
}
