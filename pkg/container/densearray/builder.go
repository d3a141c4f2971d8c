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
	"github.com/matrixorigin/arolla/pkg/common/invariants"
	"github.com/matrixorigin/arolla/pkg/common/mpool"
	"github.com/matrixorigin/arolla/pkg/container/buffer"
	"github.com/matrixorigin/arolla/pkg/container/optional"
)

// Builder sets elements by index. Unset elements are missing. This is the
// general and slow way to build an array; hot loops should fill the value
// buffer and the bitmap directly.
type Builder[T any] struct {
	values *buffer.Builder[T]
	bitmap *buffer.Builder[bitmap.Word]
	words  []bitmap.Word
}

func NewBuilder[T any](maxSize int, f mpool.Factory) *Builder[T] {
	bm := buffer.NewBuilder[bitmap.Word](bitmap.BitmapSize(maxSize), f)
	return &Builder[T]{
		values: buffer.NewBuilder[T](maxSize, f),
		bitmap: bm,
		words:  bm.MutableSpan(),
	}
}

func (b *Builder[T]) Set(id int, v T) {
	b.values.Set(id, v)
	bitmap.SetBit(b.words, id)
}

// SetOptional sets id if v is present and leaves it missing otherwise.
func (b *Builder[T]) SetOptional(id int, v optional.Value[T]) {
	if x, ok := v.Get(); ok {
		b.Set(id, x)
	}
}

// SetMissing is a no-op: elements start missing.
func (b *Builder[T]) SetMissing(id int) {
	invariants.CheckBounds(id, b.values.Size())
}

// SetNConst sets [id, id+count) to v.
func (b *Builder[T]) SetNConst(id, count int, v optional.Value[T]) {
	if x, ok := v.Get(); ok {
		b.values.SetNConst(id, count, x)
		bitmap.SetBitsInRange(b.words, id, id+count)
	}
}

func (b *Builder[T]) Build() DenseArray[T] {
	return b.BuildN(b.values.Size())
}

// BuildN builds an array of the first n elements.
func (b *Builder[T]) BuildN(n int) DenseArray[T] {
	res := DenseArray[T]{Values: b.values.BuildN(n)}
	if !bitmap.AreAllBitsSet(b.words, n) {
		res.Bitmap = b.bitmap.BuildN(bitmap.BitmapSize(n))
	}
	return res
}
