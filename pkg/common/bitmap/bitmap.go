// Copyright 2022 Matrix Origin
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

// Package bitmap implements the presence bitmaps of dense arrays.
//
// A bitmap is a run of 32-bit words, bit i set meaning element i is present.
// An empty bitmap is a sentinel for "all present" and callers must handle it
// instead of allocating a full one. A bit offset in [0, 32) may shift the
// start of the logical sequence within the first word so that a slice can
// reuse the words of its parent.
package bitmap

import (
	"math/bits"

	"github.com/matrixorigin/arolla/pkg/common/invariants"
	"github.com/matrixorigin/arolla/pkg/container/buffer"
)

type Word = uint32

const (
	WordBits = 32
	// FullWord has every bit present.
	FullWord Word = ^Word(0)

	wordShift = 5
	wordMask  = WordBits - 1
)

// Bitmap is an immutable shareable run of words.
type Bitmap = buffer.Buffer[Word]

// BitmapSize is the number of words needed for bitCount bits.
func BitmapSize(bitCount int) int {
	return (bitCount + WordBits - 1) >> wordShift
}

// Empty returns the "all present" bitmap.
func Empty() Bitmap {
	return Bitmap{}
}

// FromWords wraps words as an owned bitmap.
func FromWords(words ...Word) Bitmap {
	return buffer.Of(words...)
}

// GetWord returns word i, or FullWord past the end.
func GetWord(bm Bitmap, i int) Word {
	if i >= bm.Size() {
		return FullWord
	}
	return bm.At(i)
}

// GetWordWithOffset returns the 32 bits starting at bit i*32+offset.
func GetWordWithOffset(bm Bitmap, i int, offset int) Word {
	invariants.Check(offset >= 0 && offset < WordBits, "bit offset %d out of range", offset)
	if i >= bm.Size() {
		return FullWord
	}
	w := bm.At(i) >> offset
	if offset == 0 || i+1 == bm.Size() {
		return w
	}
	return w | bm.At(i+1)<<(WordBits-offset)
}

// GetBit reports whether bit i is present. Every bit of an empty bitmap is.
func GetBit(bm Bitmap, i int) bool {
	return bm.Empty() || Test(bm.Span(), i)
}

// Test reads bit i of raw words.
func Test(words []Word, i int) bool {
	return words[i>>wordShift]&(Word(1)<<(i&wordMask)) != 0
}

func SetBit(words []Word, i int) {
	words[i>>wordShift] |= Word(1) << (i & wordMask)
}

func UnsetBit(words []Word, i int) {
	words[i>>wordShift] &^= Word(1) << (i & wordMask)
}

// lowMask has the low n bits set, n in [0, 32].
func lowMask(n int) Word {
	if n >= WordBits {
		return FullWord
	}
	return Word(1)<<n - 1
}

// SetBitsInRange sets bits [from, to).
func SetBitsInRange(words []Word, from, to int) {
	if from >= to {
		return
	}
	first, last := from>>wordShift, (to-1)>>wordShift
	hi := lowMask((to-1)&wordMask + 1)
	lo := ^lowMask(from & wordMask)
	if first == last {
		words[first] |= lo & hi
		return
	}
	words[first] |= lo
	for i := first + 1; i < last; i++ {
		words[i] = FullWord
	}
	words[last] |= hi
}

// AreAllBitsSet reports whether the first count bits are all set.
func AreAllBitsSet(words []Word, count int) bool {
	full := count >> wordShift
	for i := 0; i < full; i++ {
		if words[i] != FullWord {
			return false
		}
	}
	if rest := count & wordMask; rest != 0 {
		m := lowMask(rest)
		return words[full]&m == m
	}
	return true
}

// AreAllBitsUnset reports whether the first count bits are all clear.
func AreAllBitsUnset(words []Word, count int) bool {
	full := count >> wordShift
	for i := 0; i < full; i++ {
		if words[i] != 0 {
			return false
		}
	}
	if rest := count & wordMask; rest != 0 {
		return words[full]&lowMask(rest) == 0
	}
	return true
}

// onesInRange counts set bits in [begin, end) of raw words.
func onesInRange(words []Word, begin, end int) int {
	if begin >= end {
		return 0
	}
	first, last := begin>>wordShift, (end-1)>>wordShift
	lo := ^lowMask(begin & wordMask)
	hi := lowMask((end-1)&wordMask + 1)
	if first == last {
		return bits.OnesCount32(words[first] & lo & hi)
	}
	n := bits.OnesCount32(words[first] & lo)
	for i := first + 1; i < last; i++ {
		n += bits.OnesCount32(words[i])
	}
	return n + bits.OnesCount32(words[last]&hi)
}

// CountBits counts present bits in [offset, offset+size). The range is
// clamped to the words of bm and any part outside them counts as present,
// so the result for an empty bitmap is size.
func CountBits(bm Bitmap, offset, size int) int {
	invariants.Check(size >= 0, "negative size %d", size)
	limit := bm.Size() * WordBits
	begin := max(0, min(limit, offset))
	end := max(begin, min(limit, offset+size))
	return size - (end - begin) + onesInRange(bm.Span(), begin, end)
}

// CountUnsetBits is size minus CountBits.
func CountUnsetBits(bm Bitmap, offset, size int) int {
	return size - CountBits(bm, offset, size)
}
