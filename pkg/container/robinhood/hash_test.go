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
	"math"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/require"
)

type hashTest struct {
	in   string
	hash uint64
}

var goldenHashes = []hashTest{
	{"xyz", 91681375387435871},
	{"", 1205034819632174695},
	{"a", 3292477735350538661},
	{"hello", 2794345569481354659},
	{"0", 7148434200721666028},
	{"256", 1711585360492847040},
}

func TestHashKey(t *testing.T) {
	for _, g := range goldenHashes {
		require.Equal(t, g.hash, HashKey([]byte(g.in)), "HashKey(%q)", g.in)
		require.Equal(t, g.hash, hashOf(StringKey(g.in)), "StringKey(%q)", g.in)
		require.Equal(t, g.hash, hashOf(NewBytesKey([]byte(g.in))), "BytesKey(%q)", g.in)
		require.NotZero(t, HashKey([]byte(g.in)))
	}
}

func TestHashInt64(t *testing.T) {
	golden := []struct {
		in   int64
		hash uint64
	}{
		{0, 3803688792395291579},
		{1, 6980583299780818982},
		{42, 6718361145267463201},
		{-1, 8804195676797548855},
	}
	for _, g := range golden {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(g.in))
		require.Equal(t, g.hash, HashInt64(g.in))
		require.Equal(t, g.hash, HashKey(buf[:]))
		require.Equal(t, g.hash, Int64Key(g.in).Hash())
		require.Equal(t, g.hash, HashKey(Int64Key(g.in).Bytes()))
	}
	require.Equal(t, HashInt64(42), HashInteger(int8(42)))
	require.Equal(t, HashInt64(42), HashInteger(uint32(42)))
	require.Equal(t, HashInt64(-1), HashInteger(int16(-1)))
	require.Equal(t, HashInt64(-1), HashInteger(uint64(math.MaxUint64)))
}

func TestNormalize(t *testing.T) {
	require.Equal(t, uint64(1), normalize(0))
	require.Equal(t, uint64(5), normalize(5))
	require.Equal(t, uint64(math.MaxInt64), normalize(math.MaxInt64))
	// all ones is -1
	require.Equal(t, uint64(1), normalize(math.MaxUint64))
	require.Equal(t, uint64(2), normalize(math.MaxUint64-1))
	// MinInt64 has no positive counterpart and is kept
	require.Equal(t, uint64(1)<<63, normalize(uint64(1)<<63))
	require.Equal(t, uint64(math.MaxInt64), normalize(uint64(1)<<63+1))
}

func TestHashKeyRawZero(t *testing.T) {
	stubs := gostub.Stub(&rawHash, func([]byte) uint64 { return 0 })
	defer stubs.Reset()

	for _, in := range []string{"", "a", "xyz"} {
		require.Equal(t, uint64(1), HashKey([]byte(in)))
	}
	require.Equal(t, uint64(1), HashInt64(7))
}

func TestDistance(t *testing.T) {
	const capacity = 8
	require.Equal(t, uint64(3), HomeSlot(11, capacity))
	require.Equal(t, uint64(0), Distance(11, 3, capacity))
	require.Equal(t, uint64(2), Distance(11, 5, capacity))
	// wraps past the end of the table
	require.Equal(t, uint64(3), Distance(6, 1, capacity))
	require.Equal(t, uint64(7), Distance(1, 0, capacity))
}
