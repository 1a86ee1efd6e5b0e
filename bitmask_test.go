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

func TestBitmaskNext(t *testing.T) {
	b := Bitmask(0)
	b |= 0x80 << (2 * 8)
	b |= 0x80 << (5 * 8)
	b |= 0x80 << (7 * 8)

	var lanes []uintptr
	for b.IsValid() {
		var lane uintptr
		lane, b = b.Next()
		lanes = append(lanes, lane)
	}
	require.Equal(t, []uintptr{2, 5, 7}, lanes)
}

func TestBitmaskEmpty(t *testing.T) {
	var b Bitmask
	require.False(t, b.IsValid())
}

func TestBitmaskRemove(t *testing.T) {
	var b Bitmask
	b |= 0x80 << (3 * 8)
	b |= 0x80 << (4 * 8)

	b = b.Remove(3)
	lane, rest := b.Next()
	require.Equal(t, uintptr(4), lane)
	require.False(t, rest.IsValid())
}

func TestBitmaskLeadingZeros(t *testing.T) {
	var b Bitmask
	b |= 0x80 << (6 * 8)
	require.Equal(t, uintptr(1), b.LeadingZeros())
}
