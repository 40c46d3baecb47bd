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
	"fmt"
	"strings"

	"github.com/matrixorigin/robinhood/pkg/common/moerr"
)

// String formats the map like a Go map, in physical slot order.
func (m *Map[K, V]) String() string {
	var sb strings.Builder
	sb.WriteString("map[")
	first := true
	for k, v := range m.All() {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&sb, "%v:%v", k, v)
	}
	sb.WriteByte(']')
	return sb.String()
}

// DebugSlots dumps every occupied slot with its probe distance and hash.
func (m *Map[K, V]) DebugSlots() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "len=%d capacity=%d threshold=%d load-factor=%d\n",
		m.len, m.capacity, m.threshold, m.loadFactor)
	for i := range m.slots {
		s := &m.slots[i]
		if s.hash == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%d -> dist=%d hash=%#016x key=%v value=%v\n", i, s.dist, s.hash, s.key, s.value)
	}
	return sb.String()
}

type Stats struct {
	Len               int
	Capacity          int
	Threshold         int
	Grows             int
	MaxProbeDistance  int
	MeanProbeDistance float64
}

// Stats scans the table and reports its occupancy and probe distances.
func (m *Map[K, V]) Stats() Stats {
	st := Stats{
		Len:       int(m.len),
		Capacity:  m.Capacity(),
		Threshold: int(m.threshold),
		Grows:     int(m.grows),
	}
	if m.slots == nil {
		st.Threshold = int(threshold(DefaultCapacity, DefaultLoadFactor))
	}
	var total uint64
	for i := range m.slots {
		s := &m.slots[i]
		if s.hash == 0 {
			continue
		}
		if int(s.dist) > st.MaxProbeDistance {
			st.MaxProbeDistance = int(s.dist)
		}
		total += s.dist
	}
	if m.len > 0 {
		st.MeanProbeDistance = float64(total) / float64(m.len)
	}
	return st
}

// Validate checks the table geometry, the cached probe distances and the
// Robin Hood ordering. An entry directly after an empty slot sits in its home
// slot, and an entry is at most one slot farther from home than the entry
// in front of it.
func (m *Map[K, V]) Validate() error {
	if m.slots == nil {
		if m.len != 0 {
			return moerr.NewInvalidStateNoCtx("unallocated map has len %d", m.len)
		}
		return nil
	}
	if m.capacity < 2 || m.capacity&(m.capacity-1) != 0 {
		return moerr.NewInvalidStateNoCtx("capacity %d is not a power of two", m.capacity)
	}
	if uint64(len(m.slots)) != m.capacity || m.mask != m.capacity-1 {
		return moerr.NewInvalidStateNoCtx("table has %d slots for capacity %d", len(m.slots), m.capacity)
	}
	if m.len > m.threshold || m.threshold > m.capacity {
		return moerr.NewInvalidStateNoCtx("len %d, threshold %d, capacity %d", m.len, m.threshold, m.capacity)
	}
	var occupied uint64
	for i := uint64(0); i < m.capacity; i++ {
		s := &m.slots[i]
		if s.hash == 0 {
			continue
		}
		occupied++
		if want := Distance(s.hash, i, m.capacity); s.dist != want {
			return moerr.NewInvalidStateNoCtx("slot %d caches distance %d, want %d", i, s.dist, want)
		}
		prev := &m.slots[(i+m.capacity-1)&m.mask]
		if prev.hash == 0 {
			if s.dist != 0 {
				return moerr.NewInvalidStateNoCtx("slot %d follows an empty slot at distance %d", i, s.dist)
			}
		} else if s.dist > prev.dist+1 {
			return moerr.NewInvalidStateNoCtx("slot %d at distance %d follows distance %d", i, s.dist, prev.dist)
		}
	}
	if occupied != m.len {
		return moerr.NewInvalidStateNoCtx("%d occupied slots, len %d", occupied, m.len)
	}
	return nil
}
