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

package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText_StripsBOM(t *testing.T) {
	withBOM := "\xEF\xBB\xBFhello"
	require.Equal(t, "hello", Text(withBOM))
}

func TestText_CanonicalizesQuotes(t *testing.T) {
	require.Equal(t, "'hello'", Text("“hello”"))
	require.Equal(t, "'hello'", Text("``hello''"))
}

func TestText_CanonicalizesDashes(t *testing.T) {
	require.Equal(t, "a--b", Text("a—b"))
	require.Equal(t, "a--b", Text("a---b"))
}

func TestText_CanonicalizesEllipsis(t *testing.T) {
	require.Equal(t, "wait...", Text("wait…"))
	require.Equal(t, "wait...", Text("wait...."))
}

func TestText_NormalizesLineEndings(t *testing.T) {
	require.Equal(t, "a\nb", Text("a\r\nb"))
}

func TestStripPOS_RemovesWordTags(t *testing.T) {
	require.Equal(t, "the dog runs", StripPOS("the/DT dog/NN runs/VBZ"))
}

func TestStripPOS_LeavesPlainTextUntouched(t *testing.T) {
	require.Equal(t, "no tags here", StripPOS("no tags here"))
}
