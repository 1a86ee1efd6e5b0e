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

// Set is a swiss-table hash set: it stores values of type T directly, with
// no associated payload. It sits on top of Table[T] the same way
// homier/stablemap's StableMap sits on top of its internal table type.
type Set[T any] struct {
	table *Table[T]
}

// NewSet constructs an empty Set using ctx for hashing and equality.
func NewSet[T any](ctx Context[T], opts ...Option[T]) (*Set[T], error) {
	t, err := NewTable(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Set[T]{table: t}, nil
}

// NewComparableSet constructs a Set over a comparable T using the default
// hash/maphash.Comparable-backed Context.
func NewComparableSet[T comparable](opts ...Option[T]) (*Set[T], error) {
	return NewSet(DefaultContext[T](), opts...)
}

// Len returns the number of values stored.
func (s *Set[T]) Len() int {
	return s.table.Len()
}

// Add inserts v, reporting whether it was newly added (false if it was
// already present).
func (s *Set[T]) Add(v T) (added bool, err error) {
	_, replaced, err := s.table.Put(v)
	if err != nil {
		return false, err
	}
	return !replaced, nil
}

// Contains reports whether v is present.
func (s *Set[T]) Contains(v T) bool {
	return s.table.Contains(v)
}

// IndexOf returns v's slot index, valid until the set's next mutation.
func (s *Set[T]) IndexOf(v T) (int, bool) {
	return s.table.IndexOf(v)
}

// Remove deletes v, reporting whether it was present.
func (s *Set[T]) Remove(v T) bool {
	_, ok := s.table.Remove(v)
	return ok
}

// RemoveAndShrink deletes v and, if the set has become sparse, shrinks its
// backing storage.
func (s *Set[T]) RemoveAndShrink(v T) (bool, error) {
	_, ok := s.table.Remove(v)
	if !ok {
		return false, nil
	}
	if shouldAutoShrink(s.table.Len(), int(s.table.Cap())) {
		return true, s.table.Trim()
	}
	return true, nil
}

// Trim shrinks the set's backing storage to fit its current contents.
func (s *Set[T]) Trim() error {
	return s.table.Trim()
}

// Clear removes every value but keeps the current allocation.
func (s *Set[T]) Clear() {
	s.table.Clear()
}

// All calls yield once for every value, in an unspecified order. yield
// returning false stops iteration early.
func (s *Set[T]) All(yield func(T) bool) {
	s.table.All(yield)
}

// Stats reports point-in-time occupancy figures.
func (s *Set[T]) Stats() Stats {
	return s.table.computeStats()
}

// DebugString renders the set's internal control and entry arrays.
func (s *Set[T]) DebugString() string {
	return s.table.DebugString()
}
