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

// Slot is the entry type a Map[K,V] stores in its underlying Table. A
// mapContext built over a Slot only ever reads K: hashing or comparing two
// map entries is purely a function of their keys, never their values.
type Slot[K comparable, V any] struct {
	K K
	V V
}

// Map is a swiss-table hash map: Table[Slot[K,V]] with the key-only hashing
// and equality wired up automatically, the same layering homier/stablemap
// uses for its own StableMap-over-table[K,V].
type Map[K comparable, V any] struct {
	table *Table[Slot[K, V]]
}

// NewMap constructs an empty Map using keys for key hashing and equality.
func NewMap[K comparable, V any](keys Context[K], opts ...Option[Slot[K, V]]) (*Map[K, V], error) {
	t, err := NewTable(newMapContext[K, V](keys), opts...)
	if err != nil {
		return nil, err
	}
	return &Map[K, V]{table: t}, nil
}

// NewComparableMap constructs a Map over a comparable K using the default
// hash/maphash.Comparable-backed Context.
func NewComparableMap[K comparable, V any](opts ...Option[Slot[K, V]]) (*Map[K, V], error) {
	return NewMap[K, V](DefaultContext[K](), opts...)
}

// Len returns the number of entries stored.
func (m *Map[K, V]) Len() int {
	return m.table.Len()
}

// Put inserts or replaces the value for key, returning the previous value
// and whether one existed.
func (m *Map[K, V]) Put(key K, value V) (V, bool, error) {
	old, replaced, err := m.table.Put(Slot[K, V]{K: key, V: value})
	return old.V, replaced, err
}

// Get returns the value stored for key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	s, ok := m.table.Get(Slot[K, V]{K: key})
	return s.V, ok
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	return m.table.Contains(Slot[K, V]{K: key})
}

// GetMut returns a pointer to the stored value for key, letting the caller
// mutate it in place without a separate Put. The pointer is valid until the
// map's next mutating call.
func (m *Map[K, V]) GetMut(key K) (*V, bool) {
	s, ok := m.table.GetPtr(Slot[K, V]{K: key})
	if !ok {
		return nil, false
	}
	return &s.V, true
}

// FindOrInsert returns a pointer to the value stored for key, inserting key
// with its zero value first if it was absent. The pointer is computed
// strictly after any resize/rehash the insertion triggers, so it always
// points into the map's current backing array; it is valid until the next
// mutating call.
func (m *Map[K, V]) FindOrInsert(key K) (*V, error) {
	s, err := m.table.FindOrInsertPtr(Slot[K, V]{K: key})
	if err != nil {
		return nil, err
	}
	return &s.V, nil
}

// Remove deletes key, returning its value and whether it was present.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	s, ok := m.table.Remove(Slot[K, V]{K: key})
	return s.V, ok
}

// RemoveAndShrink deletes key and, if the map has become sparse, shrinks its
// backing storage.
func (m *Map[K, V]) RemoveAndShrink(key K) (V, bool, error) {
	s, ok := m.table.Remove(Slot[K, V]{K: key})
	if !ok {
		return s.V, false, nil
	}
	if shouldAutoShrink(m.table.Len(), int(m.table.Cap())) {
		return s.V, true, m.table.Trim()
	}
	return s.V, true, nil
}

// Trim shrinks the map's backing storage to fit its current contents.
func (m *Map[K, V]) Trim() error {
	return m.table.Trim()
}

// Clear removes every entry but keeps the current allocation.
func (m *Map[K, V]) Clear() {
	m.table.Clear()
}

// All calls yield once for every key/value pair, in an unspecified order.
// yield returning false stops iteration early.
func (m *Map[K, V]) All(yield func(K, V) bool) {
	m.table.All(func(s Slot[K, V]) bool {
		return yield(s.K, s.V)
	})
}

// Stats reports point-in-time occupancy figures.
func (m *Map[K, V]) Stats() Stats {
	return m.table.computeStats()
}

// DebugString renders the map's internal control and entry arrays.
func (m *Map[K, V]) DebugString() string {
	return m.table.DebugString()
}
