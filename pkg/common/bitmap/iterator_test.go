// Copyright 2024 Matrix Origin
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

package bitmap

import (
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/stretchr/testify/require"
)

func collect(itr Iterator) []int {
	var ret []int
	for itr.HasNext() {
		ret = append(ret, itr.Next())
	}
	return ret
}

func TestIterator(t *testing.T) {
	bm := FromWords(0x80000005, 0x3)
	require.Equal(t, []int{0, 2, 31, 32, 33}, collect(NewIterator(bm, 0, 64)))
	require.Equal(t, []int{0, 29, 30, 31}, collect(NewIterator(bm, 2, 34)))
	require.Equal(t, []int{0, 29}, collect(NewIterator(bm, 2, 30)))
	require.Equal(t, []int{0, 1, 2}, collect(NewIterator(Empty(), 7, 3)))
	require.Nil(t, collect(NewIterator(FromWords(0), 0, 32)))

	itr := NewIterator(bm, 0, 64)
	require.Equal(t, 0, itr.PeekNext())
	itr.Next()
	require.Equal(t, 2, itr.PeekNext())

	require.Equal(t, 28, FirstPresent(bm, 3, 40))
	require.Equal(t, -1, FirstPresent(FromWords(0), 0, 32))
	require.Equal(t, 0, FirstPresent(Empty(), 5, 1))
}

func TestRoaring(t *testing.T) {
	bm := FromWords(0x80000005, 0x3)
	rb := ToRoaring(bm, 2, 34)
	require.Equal(t, []uint32{0, 29, 30, 31}, rb.ToArray())

	back := FromRoaring(rb, 34, nil)
	for i := 0; i < 34; i++ {
		require.Equal(t, rb.Contains(uint32(i)), GetBit(back, i))
	}

	require.Equal(t, uint64(10), ToRoaring(Empty(), 0, 10).GetCardinality())

	full := roaring.New()
	full.AddRange(0, 40)
	full.Add(100)
	require.True(t, FromRoaring(full, 40, nil).Empty())
}
