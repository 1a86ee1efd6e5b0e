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

import "fmt"

// OperationMode names a SIMD width a Context can ask for: the number of
// control bytes compared in parallel by one Group operation. Selecting a
// mode is a compile-time/toolchain concern in the languages this design was
// ported from (templates, cfg flags); in Go it is a value a Context reports,
// checked once when a Table is constructed.
//
// ModeScalar is the only mode with a backing Group implementation in every
// build of this package: it is the "SIMD is Unsupported" fallback required
// to satisfy the same functional contract as any wider mode. On a toolchain
// built with GOEXPERIMENT=simd on amd64, group.go's matching routines are
// replaced (see group_simd.go) by real 8-lane hardware vector compares over
// the same ModeScalar-width group — the lane count does not change, only how
// the comparison is executed.
//
// Mode16, Mode32, and Mode64 are reported for API completeness (a Context
// can describe the hardware it was tuned for) but are not backed by a wider
// Group in this package: nothing in the corpus this implementation is
// grounded on demonstrates a correct, portable way to widen a single Group
// beyond one hardware vector register's worth of lanes, and inventing one
// without a way to exercise it would be guessing, not porting. NewTable
// rejects them at construction time; see Context.Mode.
type OperationMode struct {
	// VectorWidth is the number of control bytes/lanes compared per Group
	// operation.
	VectorWidth uint8
	// MaskType is the bit width of the unsigned integer wide enough to hold
	// one bit per lane (informational; Bitmask itself is always a uint64).
	MaskType uint8
}

var (
	// ModeScalar is the portable, always-available fallback: groupSize
	// lanes compared with 64-bit SWAR arithmetic.
	ModeScalar = OperationMode{VectorWidth: groupSize, MaskType: 8}

	// Mode16, Mode32, and Mode64 describe wider SIMD registers. See the
	// OperationMode doc comment: none of them is backed by a Group
	// implementation in this package.
	Mode16 = OperationMode{VectorWidth: 16, MaskType: 16}
	Mode32 = OperationMode{VectorWidth: 32, MaskType: 32}
	Mode64 = OperationMode{VectorWidth: 64, MaskType: 64}
)

// supported reports whether m can back a real Table. Only ModeScalar can
// today.
func (m OperationMode) supported() bool {
	return m.VectorWidth == groupSize
}

func (m OperationMode) String() string {
	return fmt.Sprintf("OperationMode(width=%d)", m.VectorWidth)
}
