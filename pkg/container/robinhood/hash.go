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
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"
)

// rawHash is xxHash64 with seed 0. The normalization below depends on the
// exact algorithm, other systems read hashes produced here.
var rawHash = xxhash.Sum64

// HashKey computes the hash of a key's byte view. The result is never 0.
//
// A raw hash of 0 becomes 1. A raw hash whose signed interpretation is
// negative is negated, so the result is the same value an int64 based
// implementation of the same map produces.
func HashKey(data []byte) uint64 {
	return normalize(rawHash(data))
}

// HashInt64 hashes v as its 8 big-endian bytes.
func HashInt64(v int64) uint64 {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	return HashKey(buf[:])
}

// HashInteger widens v to 64 bits and hashes it like HashInt64.
func HashInteger[T constraints.Integer](v T) uint64 {
	return HashInt64(int64(v))
}

func normalize(h uint64) uint64 {
	if h == 0 {
		return 1
	}
	if s := int64(h); s < 0 {
		// -MinInt64 overflows back to MinInt64, which is still non-zero.
		return uint64(0 - s)
	}
	return h
}

// HomeSlot returns the slot a hash maps to before any displacement.
// capacity must be a power of two.
func HomeSlot(hash uint64, capacity uint64) uint64 {
	return hash & (capacity - 1)
}

// Distance returns the forward wraparound distance from the home slot of
// hash to slot i. capacity must be a power of two.
func Distance(hash uint64, i uint64, capacity uint64) uint64 {
	mask := capacity - 1
	return (i + capacity - (hash & mask)) & mask
}
