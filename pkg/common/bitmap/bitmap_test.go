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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomWords(r *rand.Rand, n int) []Word {
	words := make([]Word, n)
	for i := range words {
		words[i] = r.Uint32()
	}
	return words
}

func TestBitmapSize(t *testing.T) {
	require.Equal(t, 0, BitmapSize(0))
	require.Equal(t, 1, BitmapSize(1))
	require.Equal(t, 1, BitmapSize(32))
	require.Equal(t, 2, BitmapSize(33))
}

func TestGetBit(t *testing.T) {
	require.True(t, GetBit(Empty(), 0))
	require.True(t, GetBit(Empty(), 1000))

	bm := FromWords(0x5, 0x80000000)
	require.True(t, GetBit(bm, 0))
	require.False(t, GetBit(bm, 1))
	require.True(t, GetBit(bm, 2))
	require.True(t, GetBit(bm, 63))
	require.False(t, GetBit(bm, 62))

	words := make([]Word, 2)
	SetBit(words, 33)
	require.Equal(t, Word(2), words[1])
	UnsetBit(words, 33)
	require.Equal(t, Word(0), words[1])
}

func TestGetWordWithOffset(t *testing.T) {
	bm := FromWords(0xf0000000, 0x0000000f)
	require.Equal(t, Word(0xf0000000), GetWordWithOffset(bm, 0, 0))
	require.Equal(t, Word(0xff), GetWordWithOffset(bm, 0, 28))
	// the last word is not padded with ones
	require.Equal(t, Word(0x3), GetWordWithOffset(bm, 1, 2))
	require.Equal(t, FullWord, GetWordWithOffset(bm, 2, 5))
	require.Equal(t, FullWord, GetWord(bm, 2))
	require.Equal(t, FullWord, GetWordWithOffset(Empty(), 0, 3))
}

func TestSetBitsInRange(t *testing.T) {
	for from := 0; from < 96; from += 7 {
		for to := from; to <= 96; to += 5 {
			words := make([]Word, 3)
			SetBitsInRange(words, from, to)
			for i := 0; i < 96; i++ {
				require.Equal(t, i >= from && i < to, Test(words, i), "from=%d to=%d i=%d", from, to, i)
			}
		}
	}
}

func TestAreAllBits(t *testing.T) {
	words := []Word{FullWord, 0x7}
	require.True(t, AreAllBitsSet(words, 0))
	require.True(t, AreAllBitsSet(words, 35))
	require.False(t, AreAllBitsSet(words, 36))
	require.True(t, AreAllBitsSet(words, 32))

	words = []Word{0, 0xfff0}
	require.True(t, AreAllBitsUnset(words, 36))
	require.False(t, AreAllBitsUnset(words, 37))
	require.True(t, AreAllBitsUnset(words, 32))
}

func TestCountBits(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	bm := FromWords(randomWords(r, 3)...)
	limit := bm.Size() * WordBits

	naive := func(offset, size int) int {
		n := 0
		for k := offset; k < offset+size; k++ {
			if k < 0 || k >= limit || Test(bm.Span(), k) {
				n++
			}
		}
		return n
	}
	for offset := -40; offset <= 110; offset++ {
		for size := 0; size <= 120; size += 3 {
			require.Equal(t, naive(offset, size), CountBits(bm, offset, size), "offset=%d size=%d", offset, size)
		}
	}
	require.Equal(t, 17, CountBits(Empty(), 5, 17))
	require.Equal(t, 0, CountUnsetBits(Empty(), -3, 17))
}

func TestIntersect(t *testing.T) {
	a := []Word{0xffff4321, 0x0, 0xf0f0f0f0, 0xffffffff}
	b := []Word{0x43214321, 0x1, 0x0f0ff0f0, 0xffffffff}
	result := make([]Word, 4)
	Intersect(a, b, result)
	require.Equal(t, []Word{0x43214321, 0x0, 0xf0f0, 0xffffffff}, result)

	result = make([]Word, 4)
	IntersectWithOffsets(a, b, 3, 3, result)
	require.Equal(t, []Word{0x43214321, 0x0, 0xf0f0, 0xffffffff}, result)
}

func TestIntersectWithOffsets(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for _, sizes := range [][2]int{{3, 3}, {3, 4}, {4, 3}, {1, 1}} {
		a := randomWords(r, sizes[0])
		b := randomWords(r, sizes[1])
		n := min(len(a), len(b))
		for offA := 0; offA < WordBits; offA++ {
			for offB := 0; offB < WordBits; offB++ {
				result := make([]Word, n)
				IntersectWithOffsets(a, b, offA, offB, result)
				minOff, maxOff := min(offA, offB), max(offA, offB)
				for j := 0; j < n*WordBits-maxOff; j++ {
					want := Test(a, j+offA) && Test(b, j+offB)
					require.Equal(t, want, Test(result, j+minOff), "offA=%d offB=%d j=%d", offA, offB, j)
				}
			}
		}
	}
}

func TestIterateByGroups(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	words := randomWords(r, 5)
	for first := 0; first < 40; first++ {
		for _, count := range []int{0, 1, 31, 32, 33, 64, 100, 160 - first} {
			var got []bool
			var offsets []int
			IterateByGroups(words, first, count, func(offset int) func(int, bool) {
				offsets = append(offsets, offset)
				return func(i int, present bool) {
					require.Equal(t, len(got), offset+i)
					got = append(got, present)
				}
			})
			require.Equal(t, count, len(got))
			for i := range got {
				require.Equal(t, Test(words, first+i), got[i])
			}
			// every group but the first starts on a word boundary
			for _, offset := range offsets[min(1, len(offsets)):] {
				require.Equal(t, 0, (first+offset)%WordBits)
			}
		}
	}

	n := 0
	Iterate(nil, 3, 70, func(present bool) {
		require.True(t, present)
		n++
	})
	require.Equal(t, 70, n)
}
