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
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// Context supplies a Table with everything it needs to place, find, and
// resize entries of type T: a hash function, an equality test, the
// operation mode to run under, and the growth/shrink policy a resize should
// follow. Table itself never compares entries any other way, and picks a
// bucket count on its own only when pre-sizing for WithCapacity.
//
// For Map[K,V], T is Slot[K,V] and a Context built from mapContext only ever
// touches the K field of a slot — never V — matching the swiss table
// invariant that a probe is purely a function of the key.
type Context[T any] interface {
	Hash(t T) uint64
	Equal(a, b T) bool
	Mode() OperationMode

	// Grow returns the bucket count a Table with count live entries and the
	// given current bucket count (0 if not yet allocated) should resize to
	// when its growth budget is exhausted.
	Grow(count int, capacity uintptr) uintptr

	// Shrink returns the bucket count a Table with count live entries and
	// the given current bucket count should resize to in order to fit
	// snugly. Returning capacity unchanged means no shrink is warranted.
	Shrink(count int, capacity uintptr) uintptr
}

// h1 returns the bucket-selecting portion of a hash.
func h1(hash uint64) uintptr {
	return uintptr(hash >> 7)
}

// h2 returns the 7-bit control-byte tag portion of a hash.
func h2(hash uint64) uint8 {
	return uint8(hash) & 0x7f
}

// comparableContext is the default Context for any comparable type,
// grounded on homier/stablemap's MakeDefaultHashFunc: hash/maphash.Comparable
// seeded once per Context, which is the idiomatic modern replacement for
// hand-rolled FNV/murmur hashing of arbitrary comparable keys.
type comparableContext[T comparable] struct {
	seed maphash.Seed
}

// DefaultContext returns a Context for any comparable type T, using
// hash/maphash.Comparable under a per-Context random seed.
func DefaultContext[T comparable]() Context[T] {
	return comparableContext[T]{seed: maphash.MakeSeed()}
}

func (c comparableContext[T]) Hash(t T) uint64 {
	return maphash.Comparable(c.seed, t)
}

func (c comparableContext[T]) Equal(a, b T) bool {
	return a == b
}

func (c comparableContext[T]) Mode() OperationMode {
	return ModeScalar
}

func (c comparableContext[T]) Grow(count int, capacity uintptr) uintptr {
	return defaultGrowBuckets(count, capacity)
}

func (c comparableContext[T]) Shrink(count int, capacity uintptr) uintptr {
	return defaultShrinkBuckets(count, capacity)
}

// bytesContext hashes []byte keys with xxhash, which is substantially faster
// than maphash.Comparable for variable-length byte slices (maphash.Comparable
// cannot even be instantiated over a slice type, since slices aren't
// comparable) and is the byte-oriented hasher the rest of the retrieved
// corpus reaches for (matrixorigin/matrixone depends on the same module).
type bytesContext struct{}

// BytesContext returns a Context for []byte keys backed by xxhash.
func BytesContext() Context[[]byte] {
	return bytesContext{}
}

func (bytesContext) Hash(b []byte) uint64 {
	return xxhash.Sum64(b)
}

func (bytesContext) Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (bytesContext) Mode() OperationMode {
	return ModeScalar
}

func (bytesContext) Grow(count int, capacity uintptr) uintptr {
	return defaultGrowBuckets(count, capacity)
}

func (bytesContext) Shrink(count int, capacity uintptr) uintptr {
	return defaultShrinkBuckets(count, capacity)
}

// stringContext hashes string keys with xxhash.
type stringContext struct{}

// StringContext returns a Context for string keys backed by xxhash.
func StringContext() Context[string] {
	return stringContext{}
}

func (stringContext) Hash(s string) uint64 {
	return xxhash.Sum64String(s)
}

func (stringContext) Equal(a, b string) bool {
	return a == b
}

func (stringContext) Mode() OperationMode {
	return ModeScalar
}

func (stringContext) Grow(count int, capacity uintptr) uintptr {
	return defaultGrowBuckets(count, capacity)
}

func (stringContext) Shrink(count int, capacity uintptr) uintptr {
	return defaultShrinkBuckets(count, capacity)
}

// mapContext lifts a Context[K] into a Context[Slot[K,V]] that only ever
// reads the K field of a slot, never V: hashing or comparing a map entry is
// purely a function of its key.
type mapContext[K comparable, V any] struct {
	keys Context[K]
}

func newMapContext[K comparable, V any](keys Context[K]) Context[Slot[K, V]] {
	return mapContext[K, V]{keys: keys}
}

func (c mapContext[K, V]) Hash(s Slot[K, V]) uint64 {
	return c.keys.Hash(s.K)
}

func (c mapContext[K, V]) Equal(a, b Slot[K, V]) bool {
	return c.keys.Equal(a.K, b.K)
}

func (c mapContext[K, V]) Mode() OperationMode {
	return c.keys.Mode()
}

// Grow and Shrink delegate to the key Context: growth/shrink policy is
// orthogonal to the key type, but each Context implementation owns its own
// so that a caller who supplies a custom Context[K] can also override how
// its Map resizes, without a separate option.
func (c mapContext[K, V]) Grow(count int, capacity uintptr) uintptr {
	return c.keys.Grow(count, capacity)
}

func (c mapContext[K, V]) Shrink(count int, capacity uintptr) uintptr {
	return c.keys.Shrink(count, capacity)
}

// defaultGrowBuckets is the default Context.Grow: grow lazily from zero
// straight to a bucket count sized for the entry about to be inserted, or
// double otherwise, matching cockroachdb/swiss's resize-on-exhaustion
// policy.
func defaultGrowBuckets(count int, capacity uintptr) uintptr {
	if capacity == 0 {
		return capacityToBuckets(uintptr(count) + 1)
	}
	return capacity * 2
}

// defaultShrinkBuckets is the default Context.Shrink: shrink to the
// smallest bucket count that still fits count entries at the standard load
// factor, never above capacity.
func defaultShrinkBuckets(count int, capacity uintptr) uintptr {
	target := capacityToBuckets(uintptr(count))
	if target >= capacity {
		return capacity
	}
	return target
}

// shouldAutoShrink reports whether a table with the given used and bucket
// counts is sparse enough that shrinking is worth the rehash. Matches the
// "less than a quarter full past a minimum size" heuristic homier/stablemap
// exposes via its Stats type for callers to act on; used by
// Set.RemoveAndShrink and Map.RemoveAndShrink to decide whether to call
// Trim at all, which is a separate decision from Context.Shrink's target
// size once a shrink has been decided on.
func shouldAutoShrink(used, buckets int) bool {
	return buckets > 16*groupSize && used*4 < buckets
}
