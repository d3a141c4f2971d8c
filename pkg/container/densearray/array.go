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

// Package densearray implements DenseArray, an immutable column of optional
// values stored as a value buffer, a presence bitmap and a bit offset.
//
// Element i is present iff the bitmap is empty or bit i+BitmapBitOffset is
// set. Slicing never copies values or bitmap words.
package densearray

import (
	"github.com/matrixorigin/arolla/pkg/common/bitmap"
	"github.com/matrixorigin/arolla/pkg/common/invariants"
	"github.com/matrixorigin/arolla/pkg/common/mpool"
	"github.com/matrixorigin/arolla/pkg/container/buffer"
	"github.com/matrixorigin/arolla/pkg/container/optional"
)

type DenseArray[T any] struct {
	Values          buffer.Buffer[T]
	Bitmap          bitmap.Bitmap
	BitmapBitOffset int
}

func (a DenseArray[T]) Size() int {
	return a.Values.Size()
}

func (a DenseArray[T]) Empty() bool {
	return a.Values.Empty()
}

// Present reports whether element i is present.
func (a DenseArray[T]) Present(i int) bool {
	invariants.CheckBounds(i, a.Size())
	return bitmap.GetBit(a.Bitmap, i+a.BitmapBitOffset)
}

// Get returns element i, missing if absent.
func (a DenseArray[T]) Get(i int) optional.Value[T] {
	if !a.Present(i) {
		return optional.None[T]()
	}
	return optional.Some(a.Values.At(i))
}

func (a DenseArray[T]) PresentCount() int {
	return bitmap.CountBits(a.Bitmap, a.BitmapBitOffset, a.Size())
}

// IsFull reports whether every element is present.
func (a DenseArray[T]) IsFull() bool {
	return a.PresentCount() == a.Size()
}

func (a DenseArray[T]) IsAllMissing() bool {
	return a.PresentCount() == 0
}

// IsAllPresent is IsFull with a shortcut for the empty bitmap.
func (a DenseArray[T]) IsAllPresent() bool {
	return a.Bitmap.Empty() || a.IsFull()
}

// PresenceWord returns the presence bits of elements [i*32, i*32+32).
// Bits past the end of the array are unspecified.
func (a DenseArray[T]) PresenceWord(i int) bitmap.Word {
	return bitmap.GetWordWithOffset(a.Bitmap, i, a.BitmapBitOffset)
}

// CheckBitmapMatchesValues reports whether the bitmap is empty or has exactly
// the words the values need.
func (a DenseArray[T]) CheckBitmapMatchesValues() bool {
	return a.Bitmap.Empty() ||
		a.Bitmap.Size() == bitmap.BitmapSize(a.Size()+a.BitmapBitOffset)
}

// Slice returns elements [start, start+count) sharing the storage of a.
func (a DenseArray[T]) Slice(start, count int) DenseArray[T] {
	invariants.Check(start >= 0 && count >= 0 && start+count <= a.Size(),
		"slice [%d, %d) out of array of size %d", start, start+count, a.Size())
	res := DenseArray[T]{Values: a.Values.Slice(start, count)}
	if !a.Bitmap.Empty() {
		bit := start + a.BitmapBitOffset
		res.BitmapBitOffset = bit % bitmap.WordBits
		wordStart := bit / bitmap.WordBits
		wordCount := bitmap.BitmapSize(res.BitmapBitOffset + count)
		res.Bitmap = a.Bitmap.Slice(wordStart, min(wordCount, a.Bitmap.Size()-wordStart))
	}
	return res
}

// ForceNoBitmapBitOffset realigns the bitmap so that BitmapBitOffset is 0.
// Values are shared.
func (a DenseArray[T]) ForceNoBitmapBitOffset(f mpool.Factory) DenseArray[T] {
	if a.BitmapBitOffset == 0 {
		return a
	}
	n := bitmap.BitmapSize(a.Size())
	bldr := buffer.NewBuilder[bitmap.Word](n, f)
	words := bldr.MutableSpan()
	for i := range words {
		words[i] = bitmap.GetWordWithOffset(a.Bitmap, i, a.BitmapBitOffset)
	}
	return DenseArray[T]{Values: a.Values, Bitmap: bldr.Build()}
}

// IsOwned reports whether neither buffer borrows arena memory.
func (a DenseArray[T]) IsOwned() bool {
	return a.Values.IsOwner() && a.Bitmap.IsOwner()
}

// MakeOwned deep copies any buffer a does not own into f.
func (a DenseArray[T]) MakeOwned(f mpool.Factory) DenseArray[T] {
	if f == nil {
		f = mpool.GetDefaultFactory()
	}
	if !a.Values.IsOwner() {
		a.Values = a.Values.DeepCopy(f)
	}
	if !a.Bitmap.IsOwner() {
		a.Bitmap = a.Bitmap.DeepCopy(f)
	}
	return a
}

// MakeUnowned shares storage and drops ownership.
func (a DenseArray[T]) MakeUnowned() DenseArray[T] {
	return DenseArray[T]{
		Values:          a.Values.ShallowCopy(),
		Bitmap:          a.Bitmap.ShallowCopy(),
		BitmapBitOffset: a.BitmapBitOffset,
	}
}

// ForEachByGroups walks the array in groups of at most 32 elements.
// initGroup gets the offset of each group and returns the per-element
// callback, which receives the in-group index.
func (a DenseArray[T]) ForEachByGroups(initGroup func(offset int) func(i int, present bool, v T)) {
	values := a.Values.Span()
	bitmap.IterateByGroups(a.Bitmap.Span(), a.BitmapBitOffset, len(values), func(offset int) func(int, bool) {
		fn := initGroup(offset)
		group := values[offset:]
		return func(i int, present bool) {
			fn(i, present, group[i])
		}
	})
}

// ForEach calls fn for every element in ascending order.
func (a DenseArray[T]) ForEach(fn func(id int, present bool, v T)) {
	a.ForEachByGroups(func(offset int) func(int, bool, T) {
		return func(i int, present bool, v T) {
			fn(offset+i, present, v)
		}
	})
}

// ForEachPresent calls fn for every present element in ascending order.
func (a DenseArray[T]) ForEachPresent(fn func(id int, v T)) {
	a.ForEachByGroups(func(offset int) func(int, bool, T) {
		return func(i int, present bool, v T) {
			if present {
				fn(offset+i, v)
			}
		}
	})
}

// ToOptionals expands a into one optional per element.
func (a DenseArray[T]) ToOptionals() []optional.Value[T] {
	ret := make([]optional.Value[T], a.Size())
	a.ForEach(func(id int, present bool, v T) {
		ret[id] = optional.Of(v, present)
	})
	return ret
}

// ArraysAreEquivalent reports whether a and b hold the same optional values,
// whatever their bitmap layout.
func ArraysAreEquivalent[T comparable](a, b DenseArray[T]) bool {
	if a.Size() != b.Size() {
		return false
	}
	if a.Bitmap.Empty() && b.Bitmap.Empty() {
		return buffer.Equal(a.Values, b.Values)
	}
	for i := 0; i < a.Size(); i++ {
		pa, pb := a.Present(i), b.Present(i)
		if pa != pb || (pa && a.Values.At(i) != b.Values.At(i)) {
			return false
		}
	}
	return true
}
