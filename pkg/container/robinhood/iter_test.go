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
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestIterator(t *testing.T) {
	convey.Convey("iterate a map", t, func() {
		m := WithCapacity[StringKey, int](8)
		for i := 0; i < 20; i++ {
			m.Insert(StringKey(strconv.Itoa(i)), i)
		}
		m.Insert("7", 70)

		convey.Convey("Iter visits every entry once", func() {
			it := m.Iter()
			convey.So(it.Remaining(), convey.ShouldEqual, 20)
			seen := make(map[StringKey]int)
			for {
				k, v, ok := it.Next()
				if !ok {
					break
				}
				seen[k] = v
			}
			convey.So(seen, convey.ShouldHaveLength, 20)
			convey.So(seen["7"], convey.ShouldEqual, 70)
			convey.So(seen["19"], convey.ShouldEqual, 19)
			convey.So(it.Remaining(), convey.ShouldEqual, 0)

			_, _, ok := it.Next()
			convey.So(ok, convey.ShouldBeFalse)

			it.Init(m)
			convey.So(it.Remaining(), convey.ShouldEqual, 20)
		})

		convey.Convey("All, Keys and Values agree on physical order", func() {
			var keys []StringKey
			var values []int
			for k, v := range m.All() {
				keys = append(keys, k)
				values = append(values, v)
			}
			var onlyKeys []StringKey
			for k := range m.Keys() {
				onlyKeys = append(onlyKeys, k)
			}
			var onlyValues []int
			for v := range m.Values() {
				onlyValues = append(onlyValues, v)
			}
			convey.So(onlyKeys, convey.ShouldResemble, keys)
			convey.So(onlyValues, convey.ShouldResemble, values)
		})

		convey.Convey("breaking out of All stops the walk", func() {
			n := 0
			for range m.All() {
				n++
				if n == 3 {
					break
				}
			}
			convey.So(n, convey.ShouldEqual, 3)
		})

		convey.Convey("AllMut updates values in place", func() {
			for k, v := range m.AllMut() {
				*v += len(k)
			}
			v, ok := m.Get("7")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, 71)
			v, _ = m.Get("12")
			convey.So(v, convey.ShouldEqual, 14)
			convey.So(m.Len(), convey.ShouldEqual, 20)
		})

		convey.Convey("the iterator survives growth of a fresh map", func() {
			convey.So(m.Stats().Grows, convey.ShouldBeGreaterThan, 0)
			var got []string
			for k := range m.Keys() {
				got = append(got, string(k))
			}
			sort.Strings(got)
			want := make([]string, 0, 20)
			for i := 0; i < 20; i++ {
				want = append(want, strconv.Itoa(i))
			}
			sort.Strings(want)
			convey.So(got, convey.ShouldResemble, want)
		})
	})
}

func TestDebugRepresentation(t *testing.T) {
	convey.Convey("debug output", t, func() {
		m := WithCapacity[StringKey, string](4)
		convey.So(m.String(), convey.ShouldEqual, "map[]")

		m.Insert("a", "1")
		convey.So(m.String(), convey.ShouldEqual, "map[a:1]")

		m.Insert("b", "2")
		s := m.String()
		convey.So(s == "map[a:1 b:2]" || s == "map[b:2 a:1]", convey.ShouldBeTrue)

		dump := m.DebugSlots()
		lines := strings.Split(strings.TrimSpace(dump), "\n")
		convey.So(lines, convey.ShouldHaveLength, 3)
		convey.So(lines[0], convey.ShouldEqual, "len=2 capacity=4 threshold=3 load-factor=90")
		convey.So(dump, convey.ShouldContainSubstring, "key=a value=1")
		convey.So(dump, convey.ShouldContainSubstring, "key=b value=2")
	})
}
