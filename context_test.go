// Copyright 2024 The Cockroach Authors
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

package swiss

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultContextHashStable(t *testing.T) {
	ctx := DefaultContext[int]()
	require.Equal(t, ctx.Hash(42), ctx.Hash(42))
	require.True(t, ctx.Equal(42, 42))
	require.False(t, ctx.Equal(42, 43))
}

func TestBytesContextEqual(t *testing.T) {
	ctx := BytesContext()
	require.True(t, ctx.Equal([]byte("abc"), []byte("abc")))
	require.False(t, ctx.Equal([]byte("abc"), []byte("abcd")))
	require.False(t, ctx.Equal([]byte("abc"), []byte("abd")))
	require.Equal(t, ctx.Hash([]byte("abc")), ctx.Hash([]byte("abc")))
}

func TestStringContextEqual(t *testing.T) {
	ctx := StringContext()
	require.True(t, ctx.Equal("abc", "abc"))
	require.False(t, ctx.Equal("abc", "xyz"))
	require.Equal(t, ctx.Hash("abc"), ctx.Hash("abc"))
}

func TestMapContextIgnoresValue(t *testing.T) {
	ctx := newMapContext[string, int](StringContext())
	a := Slot[string, int]{K: "k", V: 1}
	b := Slot[string, int]{K: "k", V: 2}
	require.True(t, ctx.Equal(a, b))
	require.Equal(t, ctx.Hash(a), ctx.Hash(b))
}

func TestDefaultGrowFromEmpty(t *testing.T) {
	ctx := DefaultContext[int]()
	require.Equal(t, capacityToBuckets(1), ctx.Grow(0, 0))
}

func TestDefaultGrowDoublesNonEmpty(t *testing.T) {
	ctx := DefaultContext[int]()
	require.Equal(t, uintptr(256), ctx.Grow(100, 128))
}

func TestDefaultShrinkTargetsCapacityToBuckets(t *testing.T) {
	ctx := DefaultContext[int]()
	require.Equal(t, capacityToBuckets(10), ctx.Shrink(10, 2048))
}

func TestDefaultShrinkNeverGrows(t *testing.T) {
	ctx := DefaultContext[int]()
	require.Equal(t, uintptr(64), ctx.Shrink(60, 64))
}

func TestMapContextDelegatesGrowShrink(t *testing.T) {
	ctx := newMapContext[string, int](StringContext())
	require.Equal(t, StringContext().Grow(0, 0), ctx.Grow(0, 0))
	require.Equal(t, StringContext().Shrink(5, 64), ctx.Shrink(5, 64))
}
