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
	"fmt"
	"math/bits"
	"strings"
)

// debug, when true, makes Table.Put and Table.FindOrInsertPtr print the
// table's DebugString to stdout after every insert. It exists
// for development only and is always false in committed code, matching
// cockroachdb/swiss's own debug const.
const debug = false

// invariants, when true, makes Put, FindOrInsertPtr and Remove call
// Table.checkInvariants, which walks the table and panics on the first
// violation found. It is
// left false in normal builds for speed and flipped to true only by this
// package's own tests, matching cockroachdb/swiss's use of an internal
// invariants flag exercised solely from _test.go files.
var invariants = false

// Table is the single generic swiss-table engine that backs both Set[T]
// (where T is the stored value) and Map[K,V] (where T is Slot[K,V] and
// Context only ever inspects the K field). It owns one entries array and
// one control array; see doc.go for the layout and mirror invariant.
type Table[T any] struct {
	ctx       Context[T]
	allocator Allocator[T]

	entries []T
	ctrl    []ControlByte

	capacity   uintptr // 0, or a power of two multiple of groupSize
	used       int
	growthLeft int
}

// NewTable constructs an empty Table using ctx for hashing and equality. By
// default it allocates lazily, on the first Put, exactly like Go's builtin
// map literal and cockroachdb/swiss's zero-value Map.
func NewTable[T any](ctx Context[T], opts ...Option[T]) (*Table[T], error) {
	if !ctx.Mode().supported() {
		return nil, fmt.Errorf("swiss: %v is not backed by a Group implementation in this build", ctx.Mode())
	}
	var cfg config[T]
	for _, o := range opts {
		o.apply(&cfg)
	}
	t := &Table[T]{ctx: ctx, allocator: cfg.allocator}
	if t.allocator == nil {
		t.allocator = defaultAllocator[T]{}
	}
	if cfg.capacity > 0 {
		if err := t.resize(capacityToBuckets(uintptr(cfg.capacity))); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Len returns the number of entries currently stored.
func (t *Table[T]) Len() int {
	return t.used
}

// Cap returns the number of slots currently allocated.
func (t *Table[T]) Cap() uintptr {
	return t.capacity
}

// Get looks up key (a T whose fields outside what Context examines may be
// zero) and returns the stored entry.
func (t *Table[T]) Get(key T) (T, bool) {
	if t.capacity == 0 {
		var zero T
		return zero, false
	}
	hash := t.ctx.Hash(key)
	idx, ok := t.findHash(hash, key)
	if !ok {
		var zero T
		return zero, false
	}
	return t.entries[idx], true
}

// Contains reports whether key is present.
func (t *Table[T]) Contains(key T) bool {
	_, ok := t.Get(key)
	return ok
}

// IndexOf looks up key and returns its slot index, valid until the next
// mutation triggers a resize or rehash.
func (t *Table[T]) IndexOf(key T) (int, bool) {
	if t.capacity == 0 {
		return 0, false
	}
	hash := t.ctx.Hash(key)
	idx, ok := t.findHash(hash, key)
	if !ok {
		return 0, false
	}
	return int(idx), true
}

// GetPtr looks up key and returns a pointer directly into the backing
// entries array, valid until the next mutation (Put/Remove/Trim/Clear) of
// this Table triggers a resize or rehash.
func (t *Table[T]) GetPtr(key T) (*T, bool) {
	if t.capacity == 0 {
		return nil, false
	}
	hash := t.ctx.Hash(key)
	idx, ok := t.findHash(hash, key)
	if !ok {
		return nil, false
	}
	return &t.entries[idx], true
}

// findHash walks the probe sequence for an already-computed hash, returning
// the slot index of a matching entry.
func (t *Table[T]) findHash(hash uint64, key T) (uintptr, bool) {
	tag := h2(hash)
	seq := MakeProbe(h1(hash), t.capacity)
	for {
		g := loadGroup(&t.ctrl[seq.Offset()])
		m := g.Match(tag)
		for m.IsValid() {
			var lane uintptr
			lane, m = m.Next()
			idx := seq.OffsetAt(lane)
			if t.ctx.Equal(t.entries[idx], key) {
				return idx, true
			}
		}
		if g.MatchEmpty().IsValid() {
			return 0, false
		}
		seq.Next()
	}
}

// Put inserts entry, or replaces the existing entry with the same key. It
// returns the previous entry and true if one was replaced.
func (t *Table[T]) Put(entry T) (T, bool, error) {
	var zero T
	hash := t.ctx.Hash(entry)
	if t.capacity > 0 {
		if idx, ok := t.findHash(hash, entry); ok {
			old := t.entries[idx]
			t.entries[idx] = entry
			return old, true, nil
		}
	}
	if t.growthLeft == 0 {
		if err := t.rehash(); err != nil {
			return zero, false, err
		}
	}
	_, wasEmpty := t.uncheckedPut(hash, entry)
	t.used++
	if wasEmpty {
		t.growthLeft--
	}
	if debug {
		fmt.Println(t.DebugString())
	}
	if invariants {
		t.checkInvariants()
	}
	return zero, false, nil
}

// FindOrInsertPtr returns a pointer to the stored entry matching entry's
// key, inserting entry itself (triggering a resize/rehash first if
// growthLeft is exhausted) when no such entry exists yet. The returned
// pointer is always computed after any resize/rehash this call performs,
// so it always points into the Table's current backing array, valid until
// the next mutation.
func (t *Table[T]) FindOrInsertPtr(entry T) (*T, error) {
	hash := t.ctx.Hash(entry)
	if t.capacity > 0 {
		if idx, ok := t.findHash(hash, entry); ok {
			return &t.entries[idx], nil
		}
	}
	if t.growthLeft == 0 {
		if err := t.rehash(); err != nil {
			return nil, err
		}
	}
	idx, wasEmpty := t.uncheckedPut(hash, entry)
	t.used++
	if wasEmpty {
		t.growthLeft--
	}
	if debug {
		fmt.Println(t.DebugString())
	}
	if invariants {
		t.checkInvariants()
	}
	return &t.entries[idx], nil
}

// uncheckedPut writes entry into the first empty-or-deleted slot along
// hash's probe sequence, returning that slot's index and whether the slot
// was Empty (as opposed to a reused Deleted tombstone) before the write.
// Callers must already know the key is absent and that growthLeft permits
// consuming an Empty slot.
func (t *Table[T]) uncheckedPut(hash uint64, entry T) (idx uintptr, wasEmpty bool) {
	tag := h2(hash)
	seq := MakeProbe(h1(hash), t.capacity)
	for {
		g := loadGroup(&t.ctrl[seq.Offset()])
		m := g.MatchEmptyOrDeleted()
		if m.IsValid() {
			lane, _ := m.Next()
			idx := seq.OffsetAt(lane)
			wasEmpty := t.ctrl[idx].IsEmpty()
			t.setCtrl(idx, ControlByte(tag))
			t.entries[idx] = entry
			return idx, wasEmpty
		}
		seq.Next()
	}
}

// Remove deletes key if present, returning the removed entry.
func (t *Table[T]) Remove(key T) (T, bool) {
	var zero T
	if t.capacity == 0 {
		return zero, false
	}
	hash := t.ctx.Hash(key)
	idx, ok := t.findHash(hash, key)
	if !ok {
		return zero, false
	}
	old := t.entries[idx]
	if t.wasNeverFull(idx) {
		t.setCtrl(idx, ctrlEmpty)
		t.growthLeft++
	} else {
		t.setCtrl(idx, ctrlDeleted)
	}
	t.entries[idx] = zero
	t.used--
	if invariants {
		t.checkInvariants()
	}
	return old, true
}

// wasNeverFull reports whether slot i can be proven to have never been part
// of a fully-occupied probe chain, by checking that both the group ending
// just before i and the group starting at i already contain an Empty slot
// within groupSize of each other. When true, a deletion can mark the slot
// Empty outright (returning budget to growthLeft) instead of leaving a
// Deleted tombstone, without breaking any other key's probe sequence.
func (t *Table[T]) wasNeverFull(i uintptr) bool {
	mask := t.capacity - 1
	before := (i - groupSize) & mask
	emptyAfter := loadGroup(&t.ctrl[i]).MatchEmpty()
	emptyBefore := loadGroup(&t.ctrl[before]).MatchEmpty()
	return emptyBefore.IsValid() && emptyAfter.IsValid() &&
		emptyAfter.TrailingZeros()+emptyBefore.LeadingZeros() < groupSize
}

// setCtrl writes ctrl byte c at slot i, keeping the mirrored copy of the
// first groupSize bytes (appended past capacity) in sync.
func (t *Table[T]) setCtrl(i uintptr, c ControlByte) {
	t.ctrl[i] = c
	if i < groupSize {
		t.ctrl[t.capacity+i] = c
	}
}

// rehash is called when growthLeft has been exhausted and a new entry needs
// a slot. If fewer than half the slots hold live entries, the rest must be
// tombstones accumulated from deletions, so it's cheaper to drop them in
// place than to grow; otherwise the table genuinely needs more room, sized
// by the Context's pluggable Grow policy.
func (t *Table[T]) rehash() error {
	if t.capacity == 0 {
		return t.resize(t.ctx.Grow(t.used, t.capacity))
	}
	if uintptr(t.used) < t.capacity/2 {
		t.rehashInPlace()
		return nil
	}
	return t.resize(t.ctx.Grow(t.used, t.capacity))
}

// rehashInPlace drops every tombstone without changing capacity: it first
// reclassifies every control byte (Full becomes Deleted, everything else
// becomes Empty), then walks the array relocating each formerly-Full entry
// to where it belongs under the current probe sequence.
func (t *Table[T]) rehashInPlace() {
	for i := uintptr(0); i < t.capacity; i += groupSize {
		g := loadGroup(&t.ctrl[i]).RehashPrepare()
		storeGroup(&t.ctrl[i], g)
	}
	copy(t.ctrl[t.capacity:], t.ctrl[:groupSize])

	for i := uintptr(0); i < t.capacity; i++ {
		if !t.ctrl[i].IsDeleted() {
			continue
		}
	again:
		hash := t.ctx.Hash(t.entries[i])
		target := t.findInsertTarget(hash)
		if target == i {
			t.setCtrl(i, ControlByte(h2(hash)))
			continue
		}
		if t.ctrl[target].IsEmpty() {
			t.setCtrl(target, ControlByte(h2(hash)))
			t.entries[target] = t.entries[i]
			t.setCtrl(i, ctrlEmpty)
			var zero T
			t.entries[i] = zero
			continue
		}
		// target is Deleted: swap and keep relocating whatever we displaced.
		t.setCtrl(target, ControlByte(h2(hash)))
		t.entries[target], t.entries[i] = t.entries[i], t.entries[target]
		goto again
	}
	t.growthLeft = bucketsToCapacity(t.capacity) - t.used
}

// findInsertTarget returns the first empty-or-deleted slot along hash's
// probe sequence, without touching any state.
func (t *Table[T]) findInsertTarget(hash uint64) uintptr {
	seq := MakeProbe(h1(hash), t.capacity)
	for {
		g := loadGroup(&t.ctrl[seq.Offset()])
		m := g.MatchEmptyOrDeleted()
		if m.IsValid() {
			lane, _ := m.Next()
			return seq.OffsetAt(lane)
		}
		seq.Next()
	}
}

// resize reallocates the table at newCapacity and reinserts every live
// entry. newCapacity must be a power of two multiple of groupSize.
func (t *Table[T]) resize(newCapacity uintptr) error {
	oldEntries, oldCtrl, oldCapacity := t.entries, t.ctrl, t.capacity

	entries, ctrl, err := t.allocator.Alloc(int(newCapacity))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAllocation, err)
	}
	for i := range ctrl {
		ctrl[i] = ctrlEmpty
	}

	t.entries, t.ctrl, t.capacity = entries, ctrl, newCapacity
	t.used = 0
	t.growthLeft = bucketsToCapacity(newCapacity)

	for i := uintptr(0); i < oldCapacity; i++ {
		if oldCtrl[i].IsFull() {
			hash := t.ctx.Hash(oldEntries[i])
			_, wasEmpty := t.uncheckedPut(hash, oldEntries[i])
			t.used++
			if wasEmpty {
				t.growthLeft--
			}
		}
	}
	if oldCapacity > 0 {
		t.allocator.Free(oldEntries, oldCtrl)
	}
	return nil
}

// Trim shrinks the table to the bucket count the Context's Shrink policy
// reports for its current contents, reclaiming tombstone space left by
// deletions. It is a no-op if Shrink reports the current capacity
// unchanged.
func (t *Table[T]) Trim() error {
	target := t.ctx.Shrink(t.used, t.capacity)
	if target >= t.capacity {
		return nil
	}
	return t.resize(target)
}

// Clear removes every entry but keeps the current allocation.
func (t *Table[T]) Clear() {
	for i := range t.ctrl {
		t.ctrl[i] = ctrlEmpty
	}
	var zero T
	for i := range t.entries {
		t.entries[i] = zero
	}
	t.used = 0
	if t.capacity > 0 {
		t.growthLeft = bucketsToCapacity(t.capacity)
	}
}

// All calls yield once for every stored entry, in an unspecified order,
// over a snapshot of the live slots taken before iteration begins. yield
// returning false stops iteration early. Mutating the table from within
// yield is not supported.
func (t *Table[T]) All(yield func(T) bool) {
	entries, ctrl, capacity := t.entries, t.ctrl, t.capacity
	for i := uintptr(0); i < capacity; i++ {
		if ctrl[i].IsFull() {
			if !yield(entries[i]) {
				return
			}
		}
	}
}

// Stats reports point-in-time occupancy figures, grounded on the same
// shape homier/stablemap exposes for callers deciding whether to Trim.
type Stats struct {
	Len        int
	Capacity   uintptr
	Tombstones int
}

func (t *Table[T]) computeStats() Stats {
	var tombstones int
	for i := uintptr(0); i < t.capacity; i++ {
		if t.ctrl[i].IsDeleted() {
			tombstones++
		}
	}
	return Stats{Len: t.used, Capacity: t.capacity, Tombstones: tombstones}
}

// DebugString renders every control byte and, for Full slots, the entry
// stored there. It is meant for interactive debugging, not logs.
func (t *Table[T]) DebugString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "capacity=%d used=%d growthLeft=%d\n", t.capacity, t.used, t.growthLeft)
	for i := uintptr(0); i < t.capacity; i++ {
		c := t.ctrl[i]
		if c.IsFull() {
			fmt.Fprintf(&b, "  [%d] full tag=%#x entry=%v\n", i, c.Tag(), t.entries[i])
		} else {
			fmt.Fprintf(&b, "  [%d] %s\n", i, c)
		}
	}
	return b.String()
}

// checkInvariants walks the whole table verifying the mirror invariant, that
// every Full slot is reachable from its own probe sequence, and that used
// matches the number of Full control bytes. It panics on the first
// violation; only this package's tests ever set invariants to true.
func (t *Table[T]) checkInvariants() {
	if t.capacity == 0 {
		if t.used != 0 {
			panic("swiss: used > 0 with no capacity")
		}
		return
	}
	for i := uintptr(0); i < groupSize; i++ {
		if t.ctrl[i] != t.ctrl[t.capacity+i] {
			panic("swiss: ctrl mirror out of sync")
		}
	}
	var counted int
	for i := uintptr(0); i < t.capacity; i++ {
		if !t.ctrl[i].IsFull() {
			continue
		}
		counted++
		hash := t.ctx.Hash(t.entries[i])
		idx, ok := t.findHash(hash, t.entries[i])
		if !ok || idx != i {
			panic("swiss: entry not reachable from its own probe sequence")
		}
	}
	if counted != t.used {
		panic("swiss: used does not match counted Full slots")
	}
}

// roundUpPow2 rounds n up to the smallest power of two that is at least n,
// with a floor of 1.
func roundUpPow2(n uintptr) uintptr {
	if n <= 1 {
		return 1
	}
	return uintptr(1) << bits.Len(uint(n-1))
}

// capacityToBuckets returns the smallest bucket count (a power of two
// multiple of groupSize) whose usable capacity - see bucketsToCapacity - is
// at least capacity, inflating by the standard 7/8 maximum load factor:
// ceil_pow2(capacity*8/7). This is the function WithCapacity and Trim must
// use to size storage for a target number of live entries; rounding
// capacity itself up to a power of two (its bucket count, not its usable
// capacity) undersizes the table, since a table is only allowed to be 7/8
// full.
func capacityToBuckets(capacity uintptr) uintptr {
	needed := (capacity*8 + 6) / 7 // ceiling division
	buckets := roundUpPow2(needed)
	if buckets < groupSize {
		buckets = groupSize
	}
	return buckets
}

// bucketsToCapacity returns the number of live entries a table with the
// given bucket count can hold before it must grow, using the standard 7/8
// maximum load factor. It is also what growthLeft is seeded to right after
// a resize, since growthLeft tracks exactly this budget of still-unused
// Empty slots.
func bucketsToCapacity(buckets uintptr) int {
	return int(buckets - buckets/8)
}
