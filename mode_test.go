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

func TestOperationModeSupported(t *testing.T) {
	require.True(t, ModeScalar.supported())
	require.False(t, Mode16.supported())
	require.False(t, Mode32.supported())
	require.False(t, Mode64.supported())
}

func TestOperationModeRejectedAtConstruction(t *testing.T) {
	_, err := NewTable[int](widerModeContext{})
	require.Error(t, err)
}

type widerModeContext struct{}

func (widerModeContext) Hash(int) uint64     { return 0 }
func (widerModeContext) Equal(a, b int) bool { return a == b }
func (widerModeContext) Mode() OperationMode { return Mode16 }

func (widerModeContext) Grow(count int, capacity uintptr) uintptr {
	return defaultGrowBuckets(count, capacity)
}

func (widerModeContext) Shrink(count int, capacity uintptr) uintptr {
	return defaultShrinkBuckets(count, capacity)
}
