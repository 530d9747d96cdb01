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

// Package eventstream publishes Status snapshots to an external message bus
// so a caller polling out-of-process (spec.md's "asynchronous status
// reporting") can watch a run without holding a reference to the in-process
// Status. No message broker client library is pinned; deployers wire in
// their own Producer implementation the way the teacher's demo wires in a
// logging stand-in.
package eventstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Producer is a minimal abstraction over a message-bus client. Implementations
// should enable idempotent production (a status snapshot published twice for
// the same RunID/Sequence is harmless) since retries are expected on
// transient publish failures.
type Producer interface {
	Produce(ctx context.Context, topic string, key []byte, value []byte, headers map[string]string) error
}

// LoggingProducer is a dependency-free stand-in that logs what would have
// been published. Useful for local runs without a broker.
type LoggingProducer struct {
	Log func(line string)
}

func (p LoggingProducer) Produce(ctx context.Context, topic string, key []byte, value []byte, headers map[string]string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if p.Log != nil {
		p.Log(fmt.Sprintf("[eventstream] topic=%s key=%s value=%s", topic, string(key), truncate(string(value), 256)))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// StatusMessage is the wire payload published for one status tick.
type StatusMessage struct {
	RunID         string  `json:"run_id"`
	Sequence      int64   `json:"sequence"`
	SizeOfOpen    int64   `json:"size_of_open"`
	SizeOfClosed  int64   `json:"size_of_closed"`
	NumGoalChecks int64   `json:"num_goal_checks"`
	CurrentJSDist float64 `json:"current_js_dist"`
	GoalJSDist    float64 `json:"goal_js_dist"`
	HasGoalState  bool    `json:"has_goal_state"`
	Finished      bool    `json:"finished"`
	TsUnixMs      int64   `json:"ts_unix_ms"`
}

// Publisher publishes StatusMessages to a configured topic.
type Publisher struct {
	producer       Producer
	topic          string
	defaultTimeout time.Duration
}

// NewPublisher builds a Publisher over producer, publishing to topic.
func NewPublisher(producer Producer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic, defaultTimeout: 5 * time.Second}
}

// Publish sends msg, using its RunID as the message key so a downstream
// consumer preserves per-run ordering.
func (p *Publisher) Publish(ctx context.Context, msg StatusMessage) error {
	if msg.RunID == "" {
		return errors.New("eventstream: StatusMessage.RunID must be set")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok && p.defaultTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.defaultTimeout)
		defer cancel()
	}

	msg.TsUnixMs = time.Now().UnixMilli()
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("eventstream: marshal status: %w", err)
	}

	headers := map[string]string{"content-type": "application/json"}
	if err := p.producer.Produce(ctx, p.topic, []byte(msg.RunID), b, headers); err != nil {
		return fmt.Errorf("eventstream: publish run=%s seq=%d: %w", msg.RunID, msg.Sequence, err)
	}
	return nil
}
