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

// Package api serves a running search's status for out-of-process polling:
// a JSON snapshot at /status and a Prometheus scrape target at /metrics.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ealvarez/obfuscate/internal/search"
)

// Server exposes a single in-flight search's Status over HTTP.
type Server struct {
	status *search.Status
	logger *zap.SugaredLogger
}

// NewServer builds a Server reporting on status.
func NewServer(status *search.Status, logger *zap.SugaredLogger) *Server {
	return &Server{status: status, logger: logger}
}

// RegisterRoutes wires the server's handlers onto mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/status", s.handleStatus)
	mux.Handle("/metrics", promhttp.Handler())
}

type statusResponse struct {
	Finished          bool  `json:"finished"`
	HasGoalState      bool  `json:"has_goal_state"`
	AbortedByCaller   bool  `json:"aborted_by_caller"`
	AbortedByMemguard bool  `json:"aborted_by_memguard"`
	RuntimeMillis     int64 `json:"runtime_millis"`
	SizeOfOpen        int64 `json:"size_of_open"`
	SizeOfClosed      int64 `json:"size_of_closed"`
	NumGoalChecks     int64 `json:"num_goal_checks"`
	NumDuplicated     int64 `json:"num_duplicated_states"`
	NumReopened       int64 `json:"num_reopened_states"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Finished:          s.status.Finished.Load(),
		HasGoalState:      s.status.HasGoalState.Load(),
		AbortedByCaller:   s.status.AbortedByCaller.Load(),
		AbortedByMemguard: s.status.AbortedByMemguard.Load(),
		RuntimeMillis:     s.status.RuntimeMillis.Load(),
		SizeOfOpen:        s.status.SizeOfOpen.Load(),
		SizeOfClosed:      s.status.SizeOfClosed.Load(),
		NumGoalChecks:     s.status.NumGoalChecks.Load(),
		NumDuplicated:     s.status.NumDuplicatedStates.Load(),
		NumReopened:       s.status.NumReopenedStates.Load(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil && s.logger != nil {
		s.logger.Warnw("failed to encode status response", "error", err)
	}
}

// ListenAndServe starts the HTTP server on addr, blocking until it exits.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if s.logger != nil {
		s.logger.Infow("status server listening", "addr", addr)
	}
	return httpServer.ListenAndServe()
}
