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

import "errors"

// ErrAllocation is returned (wrapped) by Table operations when an Allocator
// fails to provide backing storage for a resize. Apart from NewTable's
// construction-time error for an OperationMode without a Group
// implementation, it is the one error value this package's API surface
// returns; corrupt invariants are a programmer error and panic instead, per
// cockroachdb/swiss's own checkInvariants convention.
var ErrAllocation = errors.New("swiss: allocation failed")

// Allocator supplies backing storage for a Table's entries and control
// bytes. It generalizes cockroachdb/swiss's Allocator[K,V] (which separately
// allocates and frees slots and controls) into a single fallible call that
// can report ErrAllocation instead of only ever succeeding, since a library
// meant to be embedded in arbitrary programs cannot assume its caller always
// has memory to spare.
type Allocator[T any] interface {
	// Alloc returns a fresh entries slice of length n and a controls slice
	// of length n+groupSize (the mirror region included), or an error.
	Alloc(n int) (entries []T, ctrl []ControlByte, err error)

	// Free releases storage previously returned by Alloc. The default
	// allocator's Free is a no-op, left to the garbage collector, matching
	// cockroachdb/swiss's defaultAllocator.
	Free(entries []T, ctrl []ControlByte)
}

// defaultAllocator is the Allocator used when no WithAllocator option is
// given: ordinary Go slice allocation, never fails except via panic from the
// runtime itself (out of memory), which this package does not attempt to
// intercept.
type defaultAllocator[T any] struct{}

func (defaultAllocator[T]) Alloc(n int) ([]T, []ControlByte, error) {
	entries := make([]T, n)
	ctrl := make([]ControlByte, n+groupSize)
	return entries, ctrl, nil
}

func (defaultAllocator[T]) Free([]T, []ControlByte) {}
