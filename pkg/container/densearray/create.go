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
	"github.com/matrixorigin/arolla/pkg/common/mpool"
	"github.com/matrixorigin/arolla/pkg/container/buffer"
	"github.com/matrixorigin/arolla/pkg/container/optional"
)

// CreateDenseArray builds an array from optionals. A fully present input
// gets the empty bitmap.
func CreateDenseArray[T any](data []optional.Value[T], f mpool.Factory) DenseArray[T] {
	return CreateDenseArrayWithConvert(data, func(v T) T { return v }, f)
}

// CreateDenseArrayWithConvert builds an array of T from optionals of S.
func CreateDenseArrayWithConvert[T, S any](data []optional.Value[S], conv func(S) T, f mpool.Factory) DenseArray[T] {
	bb := bitmap.NewBuilder(len(data), f)
	bitmap.AddForEach(bb, data, func(v optional.Value[S]) bool { return v.Present() })
	vb := buffer.NewBuilder[T](len(data), f)
	ins := vb.GetInserter(0)
	for _, v := range data {
		if x, ok := v.Get(); ok {
			ins.Add(conv(x))
		} else {
			ins.SkipN(1)
		}
	}
	return DenseArray[T]{Values: vb.Build(), Bitmap: bb.Build()}
}

// CreateFullDenseArray builds an array with every element present. The
// values are copied.
func CreateFullDenseArray[T any](values []T, f mpool.Factory) DenseArray[T] {
	b := buffer.NewBuilder[T](len(values), f)
	copy(b.MutableSpan(), values)
	return DenseArray[T]{Values: b.Build()}
}

// CreateConstDenseArray builds size copies of v.
func CreateConstDenseArray[T any](size int, v T, f mpool.Factory) DenseArray[T] {
	return DenseArray[T]{Values: buffer.CreateConst(size, v, f)}
}

// CreateEmptyDenseArray builds size missing elements.
func CreateEmptyDenseArray[T any](size int, f mpool.Factory) DenseArray[T] {
	return DenseArray[T]{
		Values: buffer.NewBuilder[T](size, f).Build(),
		Bitmap: buffer.NewBuilder[bitmap.Word](bitmap.BitmapSize(size), f).Build(),
	}
}

// Of is a test and tooling shortcut for CreateDenseArray on the heap.
func Of[T any](values ...optional.Value[T]) DenseArray[T] {
	return CreateDenseArray(values, nil)
}
