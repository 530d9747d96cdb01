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

package sinks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLayeredFileSink_FlushWritesToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	sink, err := NewLayeredFileSink(path)
	require.NoError(t, err)

	_, err = sink.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, sink.Flush())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(contents))
	require.NoError(t, sink.Close())
}

func TestLayeredFileSink_TruncateDiscardsPreviousContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	sink, err := NewLayeredFileSink(path)
	require.NoError(t, err)

	_, err = sink.Write([]byte("first candidate"))
	require.NoError(t, err)
	require.NoError(t, sink.Flush())

	require.NoError(t, sink.Truncate())
	_, err = sink.Write([]byte("better"))
	require.NoError(t, err)
	require.NoError(t, sink.Flush())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "better", string(contents))
	require.NoError(t, sink.Close())
}
