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

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeEvaler stands in for a Redis client, applying just enough of the two
// scripts' semantics to exercise SharedCache's Go-side logic.
type fakeEvaler struct {
	store map[string]string
}

func newFakeEvaler() *fakeEvaler { return &fakeEvaler{store: map[string]string{}} }

func (f *fakeEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error) {
	key := keys[0]
	if len(args) == 2 {
		f.store[key] = args[0].(string)
		return "OK", nil
	}
	v, ok := f.store[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func TestSharedCache_SetThenGet(t *testing.T) {
	c := New(newFakeEvaler(), time.Minute)
	require.NoError(t, c.Set(context.Background(), "k1", []byte("v1")))

	v, ok, err := c.Get(context.Background(), "k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v1", string(v))
}

func TestSharedCache_GetMissReturnsFalse(t *testing.T) {
	c := New(newFakeEvaler(), time.Minute)
	_, ok, err := c.Get(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, ok)
}
