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

import "unsafe"

// groupSize is the number of control bytes examined by one Group operation.
// This is the portable, SIMD-Unsupported fallback: groupSize control bytes
// packed into a single uint64 and compared with SWAR (SIMD-within-a-register)
// bit tricks, the same shape cockroachdb/swiss and homier/stablemap both
// build their matching on, adapted to this package's ControlByte encoding
// (Empty=0xff, Deleted=0x80 rather than their Empty=0x80, Deleted=0xfe).
const groupSize = 8

// Group is a view over groupSize consecutive control bytes, loaded as a
// single uint64 so that every lane can be compared at once. A Group does not
// own its bytes; it is constructed fresh from the ctrl array for each probe
// step.
type Group uint64

// loadGroup reads the groupSize control bytes starting at ptr.
func loadGroup(ptr *ControlByte) Group {
	return Group(*(*uint64)(unsafe.Pointer(ptr)))
}

// Match returns a Bitmask with a lane set for every control byte equal to
// tag. tag must be a 7-bit value (the low 7 bits of a hash). Matches are not
// guaranteed to be true positives — see the comment below — callers must
// still compare keys.
//
// As in cockroachdb/swiss's matchH2, this produces rare false positives: a
// lane holding tag^1 directly above a lane that truly matches is also
// reported, because the borrow out of the matching (zero) byte turns the
// neighbor's 0x01 into 0xff in the generic "subtract one, clear
// already-set bits" zero-byte test. False positives only occur on
// Full bytes and are filtered out by the subsequent key comparison, so they
// cost an extra comparison, never correctness.
func (g Group) Match(tag uint8) Bitmask {
	x := uint64(g) ^ (bitsetLSB * uint64(tag))
	return Bitmask(((x - bitsetLSB) &^ x) & bitsetMSB)
}

// MatchEmpty returns a Bitmask with a lane set for every Empty control byte
// (0xff under this package's encoding).
func (g Group) MatchEmpty() Bitmask {
	w := ^uint64(g)
	return Bitmask(((w - bitsetLSB) &^ w) & bitsetMSB)
}

// MatchEmptyOrDeleted returns a Bitmask with a lane set for every control
// byte that is not Full. Both Empty (0xff) and Deleted (0x80) have their
// high bit set; Full bytes (0ttt_tttt) never do.
func (g Group) MatchEmptyOrDeleted() Bitmask {
	return Bitmask(uint64(g) & bitsetMSB)
}

// RehashPrepare returns the control bytes this group should hold after the
// in-place-rehash "drop tombstones" pass: every Full byte becomes Deleted
// (a marker that something used to live there), and every Empty or Deleted
// byte becomes Empty (tombstones are dropped).
func (g Group) RehashPrepare() Group {
	notFull := uint64(g) & bitsetMSB
	spread := notFull>>1 | notFull>>2 | notFull>>3 | notFull>>4 | notFull>>5 | notFull>>6 | notFull>>7
	return Group(bitsetMSB | spread)
}

// storeGroup writes g's groupSize bytes starting at ptr.
func storeGroup(ptr *ControlByte, g Group) {
	*(*uint64)(unsafe.Pointer(ptr)) = uint64(g)
}
