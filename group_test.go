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

//go:build !goexperiment.simd || !amd64

package swiss

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func groupFromBytes(bs [groupSize]ControlByte) Group {
	var buf [groupSize]ControlByte
	copy(buf[:], bs[:])
	return loadGroup(&buf[0])
}

func TestGroupMatchEmpty(t *testing.T) {
	g := groupFromBytes([groupSize]ControlByte{
		ctrlEmpty, 0x01, ctrlDeleted, ctrlEmpty, 0x7f, 0x00, ctrlEmpty, ctrlDeleted,
	})
	m := g.MatchEmpty()
	var lanes []uintptr
	for m.IsValid() {
		var lane uintptr
		lane, m = m.Next()
		lanes = append(lanes, lane)
	}
	require.Equal(t, []uintptr{0, 3, 6}, lanes)
}

func TestGroupMatchEmptyOrDeleted(t *testing.T) {
	g := groupFromBytes([groupSize]ControlByte{
		ctrlEmpty, 0x01, ctrlDeleted, 0x02, 0x7f, ctrlDeleted, ctrlEmpty, 0x00,
	})
	m := g.MatchEmptyOrDeleted()
	var lanes []uintptr
	for m.IsValid() {
		var lane uintptr
		lane, m = m.Next()
		lanes = append(lanes, lane)
	}
	require.Equal(t, []uintptr{0, 2, 5, 6}, lanes)
}

func TestGroupMatchTag(t *testing.T) {
	g := groupFromBytes([groupSize]ControlByte{
		0x10, 0x22, 0x10, ctrlEmpty, 0x10, ctrlDeleted, 0x7f, 0x10,
	})
	m := g.Match(0x10)
	var lanes []uintptr
	for m.IsValid() {
		var lane uintptr
		lane, m = m.Next()
		lanes = append(lanes, lane)
	}
	require.Equal(t, []uintptr{0, 2, 4, 7}, lanes)
}

func TestGroupRehashPrepare(t *testing.T) {
	g := groupFromBytes([groupSize]ControlByte{
		0x10, ctrlEmpty, ctrlDeleted, 0x22, 0x7f, ctrlEmpty, 0x01, ctrlDeleted,
	})
	out := g.RehashPrepare()

	word := uint64(out)
	for i := 0; i < groupSize; i++ {
		b := ControlByte(byte(word >> (i * 8)))
		switch i {
		case 0, 3, 4, 6: // were Full
			require.True(t, b.IsDeleted(), "lane %d", i)
		default: // were Empty or Deleted
			require.True(t, b.IsEmpty(), "lane %d", i)
		}
	}
}
