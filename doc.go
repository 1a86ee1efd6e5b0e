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

// Package swiss is a Go implementation of Swiss Tables as described in
// https://abseil.io/about/design/swisstables. See also:
// https://faultlore.com/blah/hashbrown-tldr/.
//
// # Swiss Tables
//
// Swiss tables are open-addressed hash containers that keep one metadata
// byte per slot in a separate "control" array so that probing can examine
// several candidate slots at once instead of chasing a pointer chain. A
// group of control bytes (groupSize of them) is checked together: on
// hardware and toolchains that support it this is a single SIMD compare; the
// portable fallback used everywhere else does the same comparison with
// 64-bit SWAR (SIMD-within-a-register) bit tricks operating on all
// groupSize bytes of a uint64 at once. Seven bits of a key's hash are stored
// in the control byte (h2) as a cheap pre-filter; the high bit distinguishes
// a live slot from Empty or Deleted.
//
// A Table's control array is sized buckets+groupSize: the first groupSize
// bytes are mirrored onto the tail so that a group load starting anywhere
// in [0, buckets) is always in bounds and always correct, without a
// wraparound branch. Probing is a triangular (quadratic-at-the-group-level)
// sequence of offsets that all share the starting offset's residue modulo
// groupSize (they are not rounded to group boundaries), guaranteed to visit
// every such group exactly once for a power-of-two bucket count.
//
// Deletion ordinarily leaves a Deleted tombstone so that probes for other
// keys that hashed into the same neighborhood keep working. When a deletion
// can prove the slot was never part of a fully-occupied group — by checking
// that a neighboring group on either side already has an Empty slot — it
// marks the slot Empty outright and gives the growth budget back.
//
// # Layout
//
// Set[T] and Map[K,V] both sit on top of a single generic Table[T] engine
// (table.go). Table owns an entries array and a control array, both returned
// by one Allocator.Alloc call; the default allocator backs them with two
// separate Go slices, not one shared block of memory. Set's T is the stored
// value itself, Map's T is a Slot[K,V]
// pair with hashing and equality delegated to the key alone. This mirrors
// how cockroachdb/swiss's bucket[K,V] is the single engine underneath its
// Map, generalized one level further so the same machinery backs a value-only
// set.
//
// # Concurrency
//
// Like Go's builtin map, a Table is not safe for concurrent use without
// external synchronization — there is no internal locking of any kind.
package swiss
