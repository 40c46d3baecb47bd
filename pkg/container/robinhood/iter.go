// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package robinhood

import (
	"iter"
)

// Iterator walks the occupied slots of a map in physical order. The map must
// not be modified while an Iterator is in use.
type Iterator[K Key, V any] struct {
	table *Map[K, V]
	pos   int
	found int
}

func (it *Iterator[K, V]) Init(m *Map[K, V]) {
	it.table = m
	it.pos = 0
	it.found = 0
}

// Next returns the next entry, ok is false once every slot was visited.
func (it *Iterator[K, V]) Next() (key K, value V, ok bool) {
	slots := it.table.slots
	for it.pos < len(slots) {
		s := &slots[it.pos]
		it.pos++
		if s.hash != 0 {
			it.found++
			return s.key, s.value, true
		}
	}
	return key, value, false
}

// Remaining returns how many entries Next has yet to return.
func (it *Iterator[K, V]) Remaining() int {
	return int(it.table.len) - it.found
}

// Iter returns an Iterator positioned before the first slot.
func (m *Map[K, V]) Iter() *Iterator[K, V] {
	it := &Iterator[K, V]{}
	it.Init(m)
	return it
}

// All yields every key and value in physical slot order. The order is not
// insertion order and changes when the map grows.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		slots := m.slots
		for i := range slots {
			s := &slots[i]
			if s.hash != 0 && !yield(s.key, s.value) {
				return
			}
		}
	}
}

// AllMut is like All but yields pointers to the stored values. Keys are handed
// out by value so hashes stay valid. Inserting during the walk is not allowed.
func (m *Map[K, V]) AllMut() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		slots := m.slots
		for i := range slots {
			s := &slots[i]
			if s.hash != 0 && !yield(s.key, &s.value) {
				return
			}
		}
	}
}

// Keys yields every key in physical slot order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values yields every value in physical slot order.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.All() {
			if !yield(v) {
				return
			}
		}
	}
}
