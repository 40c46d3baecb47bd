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
	"unsafe"
)

// KeyBytes is the byte view a key exposes for hashing. Equality is still
// decided by the key type itself.
type KeyBytes interface {
	Bytes() []byte
}

// Key is the constraint for map keys.
type Key interface {
	comparable
	KeyBytes
}

// keyHasher is implemented by keys that can hash themselves without
// building a byte view. The result must equal HashKey(k.Bytes()).
type keyHasher interface {
	Hash() uint64
}

func hashOf[K Key](key K) uint64 {
	if h, ok := any(key).(keyHasher); ok {
		return h.Hash()
	}
	return HashKey(key.Bytes())
}

// StringKey is a string key. Bytes aliases the string memory and must not be
// modified.
type StringKey string

func (k StringKey) Bytes() []byte {
	return unsafe.Slice(unsafe.StringData(string(k)), len(k))
}

func (k StringKey) String() string {
	return string(k)
}

// BytesKey owns a copy of a byte buffer.
type BytesKey string

// NewBytesKey copies data into a key, the caller may reuse data afterwards.
func NewBytesKey(data []byte) BytesKey {
	return BytesKey(data)
}

func (k BytesKey) Bytes() []byte {
	return unsafe.Slice(unsafe.StringData(string(k)), len(k))
}

// Raw returns a copy of the key bytes.
func (k BytesKey) Raw() []byte {
	return []byte(k)
}

// Int64Key is a native integer key. Its byte view is the big-endian encoding,
// so it hashes identically to the equivalent 8 byte key.
type Int64Key int64

func (k Int64Key) Bytes() []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(k))
	return buf[:]
}

func (k Int64Key) Hash() uint64 {
	return HashInt64(int64(k))
}
