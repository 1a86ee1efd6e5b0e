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

func TestDefaultAllocatorShapes(t *testing.T) {
	a := defaultAllocator[int]{}
	entries, ctrl, err := a.Alloc(16)
	require.NoError(t, err)
	require.Len(t, entries, 16)
	require.Len(t, ctrl, 16+groupSize)
	a.Free(entries, ctrl) // no-op, must not panic
}
