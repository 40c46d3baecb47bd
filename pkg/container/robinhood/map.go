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

// Package robinhood implements an open addressing hash map using Robin Hood
// displacement on insert and distance bounded early termination on lookup.
//
// Keys are hashed with xxHash64 (seed 0) over their byte view and normalized
// to a non-zero value whose signed interpretation is never negative, except
// for the single value 1<<63. Hashes are therefore interchangeable with maps
// built over the same convention in other systems.
//
// A Map is not safe for concurrent use. It never shrinks and has no delete.
package robinhood

import (
	"bytes"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/matrixorigin/robinhood/pkg/common/moerr"
	"github.com/matrixorigin/robinhood/pkg/logutil"
)

const (
	DefaultCapacity   = 256
	DefaultLoadFactor = 90

	// MaxCapacity is the largest slot count a map can be created or grown to.
	// 1<<62 itself is out of range.
	MaxCapacity = uint64(1) << 61
)

// slot is one table entry. hash 0 marks an empty slot, HashKey never
// returns 0. dist caches Distance(hash, index, capacity) for the current
// capacity only.
type slot[K Key, V any] struct {
	hash  uint64
	dist  uint64
	key   K
	value V
}

// Map is a Robin Hood hash map. The zero value is an empty map that
// allocates DefaultCapacity slots on its first Insert.
type Map[K Key, V any] struct {
	slots      []slot[K, V]
	len        uint64
	capacity   uint64
	threshold  uint64
	mask       uint64
	loadFactor uint64
	grows      uint64
}

// New returns a map with DefaultCapacity slots and DefaultLoadFactor.
func New[K Key, V any]() *Map[K, V] {
	return WithCapacity[K, V](DefaultCapacity)
}

// WithCapacity returns a map with at least capacity slots and
// DefaultLoadFactor.
func WithCapacity[K Key, V any](capacity int) *Map[K, V] {
	return WithCapacityAndLoadFactor[K, V](capacity, DefaultLoadFactor)
}

// WithCapacityAndLoadFactor returns a map with at least capacity slots that
// grows once it holds loadFactor percent of its slots. loadFactor must be in
// [1, 100]. Invalid arguments panic with ErrInvalidArg and capacities above
// MaxCapacity with ErrOutOfRange.
func WithCapacityAndLoadFactor[K Key, V any](capacity int, loadFactor int) *Map[K, V] {
	if capacity < 0 {
		panic(moerr.NewInvalidArgNoCtx("capacity", capacity))
	}
	if loadFactor < 1 || loadFactor > 100 {
		panic(moerr.NewInvalidArgNoCtx("load factor", loadFactor))
	}
	m := &Map[K, V]{}
	m.init(uint64(capacity), uint64(loadFactor))
	return m
}

func (m *Map[K, V]) init(capacity uint64, loadFactor uint64) {
	capacity = pow2(capacity)
	m.slots = make([]slot[K, V], capacity)
	m.len = 0
	m.capacity = capacity
	m.threshold = threshold(capacity, loadFactor)
	m.mask = capacity - 1
	m.loadFactor = loadFactor
}

// threshold is capacity * loadFactor / 100 without overflowing for large
// capacities.
func threshold(capacity uint64, loadFactor uint64) uint64 {
	return capacity/100*loadFactor + capacity%100*loadFactor/100
}

// pow2 returns the smallest power of two >= v, at least 2.
func pow2(v uint64) uint64 {
	if v > MaxCapacity {
		panic(moerr.NewOutOfRangeNoCtx("capacity", "%d exceeds max capacity %d", v, MaxCapacity))
	}
	i := uint64(2)
	for i < v {
		i <<= 1
	}
	return i
}

// Len returns the number of keys in the map.
func (m *Map[K, V]) Len() int {
	return int(m.len)
}

// Capacity returns the current slot count, always a power of two. A zero
// value map reports the DefaultCapacity it allocates on first insert.
func (m *Map[K, V]) Capacity() int {
	if m.slots == nil {
		return DefaultCapacity
	}
	return int(m.capacity)
}

// LoadFactor returns the growth threshold in percent of the capacity.
func (m *Map[K, V]) LoadFactor() int {
	if m.slots == nil {
		return DefaultLoadFactor
	}
	return int(m.loadFactor)
}

// Insert sets the value of key. It reports whether an existing value was
// replaced, in which case Len is unchanged.
func (m *Map[K, V]) Insert(key K, value V) (replaced bool) {
	if m.slots == nil {
		m.init(DefaultCapacity, DefaultLoadFactor)
	}
	for m.len >= m.threshold {
		m.grow()
	}
	return m.insertRaw(hashOf(key), key, value)
}

// insertRaw walks forward from the home slot of hash. The pending entry takes
// the first empty slot, replaces an equal key, or swaps with an occupant that
// is closer to its own home slot and carries the occupant on. The walk ends
// because growth keeps at least one slot empty.
func (m *Map[K, V]) insertRaw(hash uint64, key K, value V) bool {
	pending := slot[K, V]{hash: hash, key: key, value: value}
	pos := hash & m.mask
	var dist uint64
	for {
		pending.dist = dist
		s := &m.slots[pos]
		if s.hash == 0 {
			*s = pending
			m.len++
			return false
		}
		if s.hash == pending.hash && s.key == pending.key {
			*s = pending
			return true
		}
		if occupied := Distance(s.hash, pos, m.capacity); occupied < dist {
			*s, pending = pending, *s
			dist = occupied
		}
		pos = (pos + 1) & m.mask
		dist++
	}
}

// grow doubles the capacity and reinserts every entry in slot order.
func (m *Map[K, V]) grow() {
	if m.capacity >= MaxCapacity {
		panic(moerr.NewOutOfRangeNoCtx("capacity", "%d exceeds max capacity %d", m.capacity*2, MaxCapacity))
	}
	next := &Map[K, V]{}
	next.init(m.capacity*2, m.loadFactor)
	for i := range m.slots {
		s := &m.slots[i]
		if s.hash != 0 {
			next.insertRaw(s.hash, s.key, s.value)
		}
	}
	next.grows = m.grows + 1

	if logutil.Enabled(zapcore.DebugLevel) {
		logutil.Debug("robinhood map grow",
			zap.Uint64("old-capacity", m.capacity),
			zap.Uint64("new-capacity", next.capacity),
			zap.Uint64("len", m.len),
			zap.Uint64("grows", next.grows))
	}
	*m = *next
}

// find walks forward from the home slot of hash until match accepts a slot
// with the same hash. It stops at an empty slot or at an occupant closer to
// its home than the walk is to ours, since the key would have displaced it.
// probes counts the slots visited.
func (m *Map[K, V]) find(hash uint64, match func(*slot[K, V]) bool) (pos uint64, probes uint64, ok bool) {
	if m.slots == nil {
		return 0, 0, false
	}
	pos = hash & m.mask
	var dist uint64
	for {
		probes++
		s := &m.slots[pos]
		if s.hash == 0 {
			return pos, probes, false
		}
		if dist > Distance(s.hash, pos, m.capacity) {
			return pos, probes, false
		}
		if s.hash == hash && match(s) {
			return pos, probes, true
		}
		pos = (pos + 1) & m.mask
		dist++
	}
}

func (m *Map[K, V]) index(key K) (uint64, bool) {
	pos, _, ok := m.find(hashOf(key), func(s *slot[K, V]) bool {
		return s.key == key
	})
	return pos, ok
}

func (m *Map[K, V]) indexBytes(data []byte) (uint64, bool) {
	pos, _, ok := m.find(HashKey(data), func(s *slot[K, V]) bool {
		return bytes.Equal(s.key.Bytes(), data)
	})
	return pos, ok
}

// Get returns the value stored for key.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	pos, ok := m.index(key)
	if !ok {
		return value, false
	}
	return m.slots[pos].value, true
}

// GetMut returns a pointer to the value stored for key. The pointer is valid
// until the next Insert.
func (m *Map[K, V]) GetMut(key K) (*V, bool) {
	pos, ok := m.index(key)
	if !ok {
		return nil, false
	}
	return &m.slots[pos].value, true
}

// GetBytes looks a key up by a borrowed byte view, without building a K. It
// matches keys whose Bytes equal data.
func (m *Map[K, V]) GetBytes(data []byte) (value V, ok bool) {
	pos, ok := m.indexBytes(data)
	if !ok {
		return value, false
	}
	return m.slots[pos].value, true
}

// GetBytesMut is the mutable variant of GetBytes.
func (m *Map[K, V]) GetBytesMut(data []byte) (*V, bool) {
	pos, ok := m.indexBytes(data)
	if !ok {
		return nil, false
	}
	return &m.slots[pos].value, true
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.index(key)
	return ok
}
