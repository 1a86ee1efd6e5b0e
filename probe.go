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

// Probe generates the slot offsets a lookup or insert visits for a given
// key, in the triangular ("quadratic-at-the-group-level") sequence used by
// Abseil-derived swiss tables. Each step lands on a group of groupSize
// slots; because every increment applied to offset is a multiple of
// groupSize, offset is always congruent to the starting hash modulo
// groupSize, but is not itself forced to be a multiple of groupSize — so a
// group load at offset can legitimately run past the end of a capacity-sized
// ctrl array. That's exactly what the mirrored groupSize bytes appended past
// capacity in Table.ctrl are for. For a capacity that is always a power of
// two multiple of groupSize, this sequence is a permutation of every
// residue-consistent group: it visits each one exactly once before
// repeating, so a table that is not completely Full is always found to have
// room.
type Probe struct {
	mask   uintptr // capacity - 1
	offset uintptr // current slot offset, the start of the group to examine
	index  uintptr // triangular-number step counter
}

// MakeProbe starts a probe sequence for hash h1 (the bucket-selecting part
// of a key's hash) over a table with the given slot capacity, which must be
// a power of two multiple of groupSize.
func MakeProbe(h1 uintptr, capacity uintptr) Probe {
	mask := capacity - 1
	return Probe{
		mask:   mask,
		offset: h1 & mask,
	}
}

// Offset returns the current group's starting slot index.
func (p *Probe) Offset() uintptr {
	return p.offset
}

// OffsetAt returns the slot index i positions into the current group (i
// must be < groupSize), matching the group's starting offset modulo the
// ctrl array's true length before the mirror.
func (p *Probe) OffsetAt(i uintptr) uintptr {
	return (p.offset + i) & p.mask
}

// Next advances the sequence to the next group.
func (p *Probe) Next() {
	p.index += groupSize
	p.offset = (p.offset + p.index) & p.mask
}
