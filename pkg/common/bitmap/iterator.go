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

import "math/bits"

// Iterator walks the present positions of a bitmap slice in ascending order.
type Iterator interface {
	HasNext() bool
	Next() int
	PeekNext() int
}

type presentIterator struct {
	bm       Bitmap
	offset   int
	size     int
	i        int
	has_next bool
}

// NewIterator iterates the present positions in [0, size) of the logical
// sequence that starts at bit offset of bm.
func NewIterator(bm Bitmap, offset, size int) Iterator {
	itr := &presentIterator{bm: bm, offset: offset, size: size}
	itr.i, itr.has_next = itr.hasNext(0)
	return itr
}

func (itr *presentIterator) hasNext(i int) (int, bool) {
	if i >= itr.size {
		return 0, false
	}
	if itr.bm.Empty() {
		return i, true
	}
	// loop over words, not bits
	bit := i + itr.offset
	w := bit >> wordShift
	mask := FullWord << (bit & wordMask)
	end := itr.size + itr.offset
	for ; w<<wordShift < end; w++ {
		word := GetWord(itr.bm, w) & mask
		if word != 0 {
			pos := w<<wordShift + bits.TrailingZeros32(word) - itr.offset
			if pos >= itr.size {
				return 0, false
			}
			return pos, true
		}
		mask = FullWord
	}
	return 0, false
}

func (itr *presentIterator) HasNext() bool {
	return itr.has_next
}

func (itr *presentIterator) PeekNext() int {
	if itr.has_next {
		return itr.i
	}
	return 0
}

func (itr *presentIterator) Next() int {
	pos := itr.i
	itr.i, itr.has_next = itr.hasNext(itr.i + 1)
	return pos
}

// FirstPresent returns the index of the first present bit of
// [offset, offset+size) relative to offset, or -1.
func FirstPresent(bm Bitmap, offset, size int) int {
	itr := NewIterator(bm, offset, size)
	if !itr.HasNext() {
		return -1
	}
	return itr.Next()
}
