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

// Package metrics exposes a running search's progress as Prometheus
// counters and gauges, scraped from internal/api's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ealvarez/obfuscate/internal/search"
)

var (
	goalChecksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "obfuscate_goal_checks_total",
		Help: "Total number of nodes popped off OPEN and goal-checked across all runs.",
	})
	duplicatedStatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "obfuscate_duplicated_states_total",
		Help: "Total number of successor states discarded as duplicates of an already-explored state.",
	})
	reopenedStatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "obfuscate_reopened_states_total",
		Help: "Total number of CLOSED states reopened after a cheaper path was found.",
	})
	openSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "obfuscate_open_size",
		Help: "Current number of nodes in OPEN for the most recently observed run.",
	})
	closedSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "obfuscate_closed_size",
		Help: "Current number of nodes in CLOSED for the most recently observed run.",
	})
	branchingFactorMax = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "obfuscate_branching_factor_max",
		Help: "Largest number of successors generated from a single node expansion so far.",
	})
	runtimeMillis = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "obfuscate_runtime_millis",
		Help: "Elapsed wall-clock milliseconds for the most recently observed run.",
	})
	operatorApplications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "obfuscate_operator_applications_total",
		Help: "Total times each operator index has been applied.",
	}, []string{"operator"})
)

func init() {
	prometheus.MustRegister(
		goalChecksTotal,
		duplicatedStatesTotal,
		reopenedStatesTotal,
		openSize,
		closedSize,
		branchingFactorMax,
		runtimeMillis,
		operatorApplications,
	)
}

// operatorNames labels operatorApplications; the caller supplies the names
// once at startup since Status only knows operator indices.
var operatorNames []string

// SetOperatorNames records the operator lineup's names, in index order, so
// Observe can label per-operator counters meaningfully.
func SetOperatorNames(names []string) {
	operatorNames = append([]string(nil), names...)
}

// prevApplications tracks the last-observed cumulative count per operator so
// Observe can report deltas as Add() calls, since OperatorStats counters are
// cumulative for the run's lifetime while Prometheus counters must only move
// forward by the increment actually observed.
var prevApplications []int64

// Observe folds status's current counters into the package's Prometheus
// metrics. Call this from the engine's status callback.
func Observe(status *search.Status) {
	goalChecksTotal.Add(float64(delta(&lastGoalChecks, status.NumGoalChecks.Load())))
	duplicatedStatesTotal.Add(float64(delta(&lastDuplicated, status.NumDuplicatedStates.Load())))
	reopenedStatesTotal.Add(float64(delta(&lastReopened, status.NumReopenedStates.Load())))

	openSize.Set(float64(status.SizeOfOpen.Load()))
	closedSize.Set(float64(status.SizeOfClosed.Load()))
	branchingFactorMax.Set(float64(status.BranchingFactorMax.Load()))
	runtimeMillis.Set(float64(status.RuntimeMillis.Load()))

	if len(prevApplications) != len(status.OperatorStats) {
		prevApplications = make([]int64, len(status.OperatorStats))
	}
	for i, stats := range status.OperatorStats {
		cur := stats.Applications.Load()
		label := operatorLabel(i)
		operatorApplications.WithLabelValues(label).Add(float64(delta(&prevApplications[i], cur)))
	}
}

func operatorLabel(i int) string {
	if i < len(operatorNames) {
		return operatorNames[i]
	}
	return "unknown"
}

var (
	lastGoalChecks int64
	lastDuplicated int64
	lastReopened   int64
)

func delta(prev *int64, cur int64) int64 {
	d := cur - *prev
	*prev = cur
	if d < 0 {
		return 0
	}
	return d
}
