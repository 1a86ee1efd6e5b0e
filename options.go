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

// config collects the settings Option values apply to a Table under
// construction.
type config[T any] struct {
	allocator Allocator[T]
	capacity  int
}

// Option configures a Table at construction time, following the same
// functional-options shape cockroachdb/swiss and homier/stablemap both use.
type Option[T any] interface {
	apply(*config[T])
}

type optionFunc[T any] func(*config[T])

func (f optionFunc[T]) apply(c *config[T]) { f(c) }

// WithAllocator overrides the default Go-slice Allocator.
func WithAllocator[T any](a Allocator[T]) Option[T] {
	return optionFunc[T](func(c *config[T]) {
		c.allocator = a
	})
}

// WithCapacity pre-sizes the table to hold at least n entries without a
// resize, matching Go's builtin make(map[K]V, n) hint.
func WithCapacity[T any](n int) Option[T] {
	return optionFunc[T](func(c *config[T]) {
		c.capacity = n
	})
}
