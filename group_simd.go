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

//go:build goexperiment.simd && amd64

package swiss

import (
	"simd/archsimd"
	"unsafe"
)

// groupSize stays 8 here: GOEXPERIMENT=simd changes how a group is matched,
// never how many control bytes make up one. archsimd.Uint8x16 has sixteen
// lanes but only the low groupSize are loaded and compared; the rest are
// masked off by LoadUint8x16SlicePart the same way philpearl/swisssymbols'
// groupcontrol_simd.go loads a partial vector.
const groupSize = 8

// Group is a view over groupSize consecutive control bytes, backed by a
// 16-lane hardware vector register with the upper 8 lanes unused.
type Group struct {
	v archsimd.Uint8x16
}

func loadGroup(ptr *ControlByte) Group {
	s := unsafe.Slice((*byte)(unsafe.Pointer(ptr)), groupSize)
	return Group{v: archsimd.LoadUint8x16SlicePart(s)}
}

func storeGroup(ptr *ControlByte, g Group) {
	var buf [16]byte
	g.v.StoreSlice(buf[:])
	copy(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), groupSize), buf[:groupSize])
}

// toBitmask converts a 16-lane equality mask into the same per-lane,
// high-bit-per-byte shape the scalar implementation produces, restricted to
// the low groupSize lanes.
func toBitmask(bits uint32) Bitmask {
	var m uint64
	for lane := 0; lane < groupSize; lane++ {
		if bits&(1<<lane) != 0 {
			m |= uint64(0x80) << (lane * 8)
		}
	}
	return Bitmask(m)
}

// Match returns a Bitmask with a lane set for every control byte equal to
// tag. Unlike the SWAR fallback this is an exact compare with no false
// positives, since the hardware vector unit tests all 8 bytes independently.
func (g Group) Match(tag uint8) Bitmask {
	target := archsimd.BroadcastUint8x16(tag)
	return toBitmask(g.v.Equal(target).ToBits())
}

// MatchEmpty returns a Bitmask with a lane set for every Empty (0xff)
// control byte.
func (g Group) MatchEmpty() Bitmask {
	target := archsimd.BroadcastUint8x16(uint8(ctrlEmpty))
	return toBitmask(g.v.Equal(target).ToBits())
}

// MatchEmptyOrDeleted returns a Bitmask with a lane set for every control
// byte that is not Full, computed via the scalar SWAR trick on the loaded
// lanes: the vector ISA this build targets has no single "test high bit"
// instruction cheaper than the 64-bit arithmetic version, so it is reused
// here rather than reinvented.
func (g Group) MatchEmptyOrDeleted() Bitmask {
	var buf [16]byte
	g.v.StoreSlice(buf[:])
	var w uint64
	for i := 0; i < groupSize; i++ {
		w |= uint64(buf[i]) << (i * 8)
	}
	return Bitmask(w & bitsetMSB)
}

// RehashPrepare returns the control bytes this group should hold after the
// in-place-rehash "drop tombstones" pass. Computed with the same SWAR spread
// as the scalar build: it operates on bytes already in a general-purpose
// register after MatchEmptyOrDeleted-style extraction, where a vector
// shuffle would buy nothing.
func (g Group) RehashPrepare() Group {
	var buf [16]byte
	g.v.StoreSlice(buf[:])
	var w uint64
	for i := 0; i < groupSize; i++ {
		w |= uint64(buf[i]) << (i * 8)
	}
	notFull := w & bitsetMSB
	spread := notFull>>1 | notFull>>2 | notFull>>3 | notFull>>4 | notFull>>5 | notFull>>6 | notFull>>7
	out := bitsetMSB | spread
	for i := 0; i < groupSize; i++ {
		buf[i] = byte(out >> (i * 8))
	}
	return Group{v: archsimd.LoadUint8x16SlicePart(buf[:groupSize])}
}
