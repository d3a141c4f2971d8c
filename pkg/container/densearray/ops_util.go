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

package densearray

import (
	"github.com/matrixorigin/arolla/pkg/common/bitmap"
	"github.com/matrixorigin/arolla/pkg/common/moerr"
	"github.com/matrixorigin/arolla/pkg/container/optional"
)

// PresenceSource is the part of a dense array that group iteration needs,
// independent of the value type.
type PresenceSource interface {
	Size() int
	PresenceWord(i int) bitmap.Word
}

// IntersectMasks ANDs the presence words of group wordID of sources. Callers
// leave out arguments taken as optionals: those never gate a group, the
// getter reports their presence per element instead.
func IntersectMasks(wordID int, sources ...PresenceSource) bitmap.Word {
	mask := bitmap.FullWord
	for _, s := range sources {
		mask &= s.PresenceWord(wordID)
	}
	return mask
}

// GroupMask returns the low n bits set, n in [0, 32].
func GroupMask(n int) bitmap.Word {
	if n >= bitmap.WordBits {
		return bitmap.FullWord
	}
	return bitmap.Word(1)<<n - 1
}

// IterateFromZero walks [0, size) in groups of 32 rows. fn gets the group
// offset, the number of rows in the group and the AND of the presence words
// of sources, with bits past the group cleared.
func IterateFromZero(size int, fn func(offset, n int, mask bitmap.Word), sources ...PresenceSource) {
	for w := 0; w*bitmap.WordBits < size; w++ {
		offset := w * bitmap.WordBits
		n := min(bitmap.WordBits, size-offset)
		fn(offset, n, IntersectMasks(w, sources...)&GroupMask(n))
	}
}

// Getter reads the values of one 32-row group. For arguments taken as
// optionals it also carries the presence word of the group.
type Getter[T any] struct {
	values []T
	mask   bitmap.Word
}

func MakeGetter[T any](a DenseArray[T], wordID int, optionalArg bool) Getter[T] {
	g := Getter[T]{values: a.Values.Span()[wordID*bitmap.WordBits:]}
	if optionalArg {
		g.mask = a.PresenceWord(wordID)
	} else {
		g.mask = bitmap.FullWord
	}
	return g
}

// Value returns the raw value of in-group row i.
func (g Getter[T]) Value(i int) T {
	return g.values[i]
}

// Optional returns in-group row i as an optional.
func (g Getter[T]) Optional(i int) optional.Value[T] {
	return optional.Of(g.values[i], g.mask>>i&1 != 0)
}

func checkSizes(sources ...PresenceSource) error {
	for _, s := range sources[1:] {
		if s.Size() != sources[0].Size() {
			sizes := make([]int64, len(sources))
			for i, s := range sources {
				sizes[i] = int64(s.Size())
			}
			return moerr.NewArgumentSizesMismatchNoCtx(sizes...)
		}
	}
	return nil
}

func forEachRow(size int, sources []PresenceSource, presentOnly bool, fn func(id int, valid bool)) {
	IterateFromZero(size, func(offset, n int, mask bitmap.Word) {
		if presentOnly && mask == 0 {
			return
		}
		for i := 0; i < n; i++ {
			valid := mask>>i&1 != 0
			if presentOnly && !valid {
				continue
			}
			fn(offset+i, valid)
		}
	}, sources...)
}

// ForEach2 calls fn for every row of a and b. valid is true when both are
// present.
func ForEach2[A, B any](a DenseArray[A], b DenseArray[B], fn func(id int, valid bool, va A, vb B)) error {
	if err := checkSizes(a, b); err != nil {
		return err
	}
	xa, xb := a.Values.Span(), b.Values.Span()
	forEachRow(a.Size(), []PresenceSource{a, b}, false, func(id int, valid bool) {
		fn(id, valid, xa[id], xb[id])
	})
	return nil
}

// ForEachPresent2 calls fn for the rows where both a and b are present.
func ForEachPresent2[A, B any](a DenseArray[A], b DenseArray[B], fn func(id int, va A, vb B)) error {
	if err := checkSizes(a, b); err != nil {
		return err
	}
	xa, xb := a.Values.Span(), b.Values.Span()
	forEachRow(a.Size(), []PresenceSource{a, b}, true, func(id int, _ bool) {
		fn(id, xa[id], xb[id])
	})
	return nil
}

func ForEach3[A, B, C any](a DenseArray[A], b DenseArray[B], c DenseArray[C], fn func(id int, valid bool, va A, vb B, vc C)) error {
	if err := checkSizes(a, b, c); err != nil {
		return err
	}
	xa, xb, xc := a.Values.Span(), b.Values.Span(), c.Values.Span()
	forEachRow(a.Size(), []PresenceSource{a, b, c}, false, func(id int, valid bool) {
		fn(id, valid, xa[id], xb[id], xc[id])
	})
	return nil
}

func ForEachPresent3[A, B, C any](a DenseArray[A], b DenseArray[B], c DenseArray[C], fn func(id int, va A, vb B, vc C)) error {
	if err := checkSizes(a, b, c); err != nil {
		return err
	}
	xa, xb, xc := a.Values.Span(), b.Values.Span(), c.Values.Span()
	forEachRow(a.Size(), []PresenceSource{a, b, c}, true, func(id int, _ bool) {
		fn(id, xa[id], xb[id], xc[id])
	})
	return nil
}

// ForEachN iterates rows of same-typed arrays. vs is reused between calls.
func ForEachN[T any](arrays []DenseArray[T], fn func(id int, valid bool, vs []T)) error {
	return forEachN(arrays, false, fn)
}

func ForEachPresentN[T any](arrays []DenseArray[T], fn func(id int, vs []T)) error {
	return forEachN(arrays, true, func(id int, _ bool, vs []T) { fn(id, vs) })
}

func forEachN[T any](arrays []DenseArray[T], presentOnly bool, fn func(id int, valid bool, vs []T)) error {
	if len(arrays) == 0 {
		return nil
	}
	sources := make([]PresenceSource, len(arrays))
	for i := range arrays {
		sources[i] = arrays[i]
	}
	if err := checkSizes(sources...); err != nil {
		return err
	}
	vs := make([]T, len(arrays))
	forEachRow(arrays[0].Size(), sources, presentOnly, func(id int, valid bool) {
		for i := range arrays {
			vs[i] = arrays[i].Values.At(id)
		}
		fn(id, valid, vs)
	})
	return nil
}
