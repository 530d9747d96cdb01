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

package eventstream

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	topic   string
	key     []byte
	value   []byte
	headers map[string]string
}

func (f *fakeProducer) Produce(ctx context.Context, topic string, key, value []byte, headers map[string]string) error {
	f.topic, f.key, f.value, f.headers = topic, key, value, headers
	return nil
}

func TestPublisher_PublishSerializesAndKeysByRunID(t *testing.T) {
	fp := &fakeProducer{}
	p := NewPublisher(fp, "obfuscate-status")

	err := p.Publish(context.Background(), StatusMessage{RunID: "run-1", Sequence: 3, SizeOfOpen: 42})
	require.NoError(t, err)

	require.Equal(t, "obfuscate-status", fp.topic)
	require.Equal(t, "run-1", string(fp.key))
	require.Equal(t, "application/json", fp.headers["content-type"])

	var got StatusMessage
	require.NoError(t, json.Unmarshal(fp.value, &got))
	require.Equal(t, int64(3), got.Sequence)
	require.Equal(t, int64(42), got.SizeOfOpen)
	require.NotZero(t, got.TsUnixMs)
}

func TestPublisher_PublishRejectsMissingRunID(t *testing.T) {
	p := NewPublisher(&fakeProducer{}, "topic")
	err := p.Publish(context.Background(), StatusMessage{})
	require.ErrorContains(t, err, "RunID must be set")
}
