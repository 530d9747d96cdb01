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

package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dict.tsv")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ParsesTabSeparatedEntries(t *testing.T) {
	path := writeTSV(t, "big\tlarge\thuge\tgiant", "small\ttiny")
	d, err := Load(path)
	require.NoError(t, err)

	alts, ok := d.Lookup("big")
	require.True(t, ok)
	require.Equal(t, []string{"large", "huge", "giant"}, alts)

	alts, ok = d.Lookup("small")
	require.True(t, ok)
	require.Equal(t, []string{"tiny"}, alts)
}

func TestLoad_LowercasesHeadwordForLookup(t *testing.T) {
	path := writeTSV(t, "Big\tlarge")
	d, err := Load(path)
	require.NoError(t, err)

	_, ok := d.Lookup("big")
	require.True(t, ok)
	_, ok = d.Lookup("BIG")
	require.True(t, ok)
}

func TestLoad_SkipsBlankAndMalformedLines(t *testing.T) {
	path := writeTSV(t, "", "onlyheadword", "big\tlarge")
	d, err := Load(path)
	require.NoError(t, err)

	_, ok := d.Lookup("onlyheadword")
	require.False(t, ok)
	_, ok = d.Lookup("big")
	require.True(t, ok)
}

func TestLoad_CachesSameInstanceByPath(t *testing.T) {
	path := writeTSV(t, "big\tlarge")
	first, err := Load(path)
	require.NoError(t, err)
	second, err := Load(path)
	require.NoError(t, err)

	require.Same(t, first, second)
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.tsv"))
	require.Error(t, err)
}

func TestLookup_UnknownWordReturnsFalse(t *testing.T) {
	path := writeTSV(t, "big\tlarge")
	d, err := Load(path)
	require.NoError(t, err)

	_, ok := d.Lookup("nonexistent")
	require.False(t, ok)
}
