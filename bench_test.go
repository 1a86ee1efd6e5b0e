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
	"math/rand"
	"strconv"
	"testing"
)

var benchSizeList = []int{16, 128, 1024, 65536}

func genKeysInt64(n int) []int64 {
	keys := make([]int64, n)
	for i := range keys {
		keys[i] = int64(i)
	}
	rand.New(rand.NewSource(int64(n))).Shuffle(n, func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})
	return keys
}

func genKeysString(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	return keys
}

func benchSizes(b *testing.B, run func(b *testing.B, n int)) {
	for _, n := range benchSizeList {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			run(b, n)
		})
	}
}

func BenchmarkMapPutGrow(b *testing.B) {
	b.Run("impl=runtimeMap", func(b *testing.B) {
		benchSizes(b, func(b *testing.B, n int) {
			keys := genKeysInt64(n)
			for i := 0; i < b.N; i++ {
				m := make(map[int64]int64, 0)
				for _, k := range keys {
					m[k] = k
				}
			}
		})
	})
	b.Run("impl=swissMap", func(b *testing.B) {
		benchSizes(b, func(b *testing.B, n int) {
			keys := genKeysInt64(n)
			for i := 0; i < b.N; i++ {
				m, _ := NewComparableMap[int64, int64]()
				for _, k := range keys {
					m.Put(k, k)
				}
			}
		})
	})
}

func BenchmarkMapGetHit(b *testing.B) {
	b.Run("impl=runtimeMap", func(b *testing.B) {
		benchSizes(b, func(b *testing.B, n int) {
			keys := genKeysInt64(n)
			m := make(map[int64]int64, n)
			for _, k := range keys {
				m[k] = k
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = m[keys[i%n]]
			}
		})
	})
	b.Run("impl=swissMap", func(b *testing.B) {
		benchSizes(b, func(b *testing.B, n int) {
			keys := genKeysInt64(n)
			m, _ := NewComparableMap[int64, int64]()
			for _, k := range keys {
				m.Put(k, k)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				m.Get(keys[i%n])
			}
		})
	})
}

func BenchmarkMapGetMiss(b *testing.B) {
	b.Run("impl=swissMap", func(b *testing.B) {
		benchSizes(b, func(b *testing.B, n int) {
			keys := genKeysInt64(n)
			m, _ := NewComparableMap[int64, int64]()
			for _, k := range keys {
				m.Put(k, k)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				m.Get(int64(n) + int64(i))
			}
		})
	})
}

func BenchmarkMapPutDelete(b *testing.B) {
	b.Run("impl=swissMap", func(b *testing.B) {
		benchSizes(b, func(b *testing.B, n int) {
			keys := genKeysInt64(n)
			m, _ := NewComparableMap[int64, int64]()
			for _, k := range keys {
				m.Put(k, k)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				k := keys[i%n]
				m.Remove(k)
				m.Put(k, k)
			}
		})
	})
}

func BenchmarkSetBytesContext(b *testing.B) {
	benchSizes(b, func(b *testing.B, n int) {
		keys := genKeysString(n)
		s, _ := NewSet[[]byte](BytesContext())
		for _, k := range keys {
			s.Add([]byte(k))
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			s.Contains([]byte(keys[i%n]))
		}
	})
}
