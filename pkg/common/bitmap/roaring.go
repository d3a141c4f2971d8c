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
	"github.com/RoaringBitmap/roaring"

	"github.com/matrixorigin/arolla/pkg/common/mpool"
)

// ToRoaring returns the present positions in [0, size) of the sequence
// starting at bit offset of bm.
func ToRoaring(bm Bitmap, offset, size int) *roaring.Bitmap {
	rb := roaring.New()
	if size <= 0 {
		return rb
	}
	if bm.Empty() {
		rb.AddRange(0, uint64(size))
		return rb
	}
	IterateByGroups(bm.Span(), offset, size, func(groupOffset int) func(int, bool) {
		return func(i int, present bool) {
			if present {
				rb.Add(uint32(groupOffset + i))
			}
		}
	})
	return rb
}

// FromRoaring builds a bitmap of size bits with the positions of rb set.
// Positions at or past size are ignored. The result is empty when every bit
// is set.
func FromRoaring(rb *roaring.Bitmap, size int, f mpool.Factory) Bitmap {
	b := NewBuilder(size, f)
	it := rb.Iterator()
	for it.HasNext() {
		pos := int(it.Next())
		if pos >= size {
			break
		}
		SetBit(b.words, pos)
	}
	if AreAllBitsSet(b.words, size) {
		return Empty()
	}
	return b.bldr.Build()
}
