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

// Package array holds the operators over a single dense array.
package array

import (
	"github.com/matrixorigin/arolla/pkg/common/moerr"
	"github.com/matrixorigin/arolla/pkg/container/buffer"
	"github.com/matrixorigin/arolla/pkg/container/densearray"
	"github.com/matrixorigin/arolla/pkg/container/optional"
	"github.com/matrixorigin/arolla/pkg/qexpr/process"
	"github.com/matrixorigin/arolla/pkg/vectorize/denseops"
)

const (
	SliceName          = "array.slice"
	AtName             = "array.at"
	HasName            = "array.has"
	PresentIndicesName = "array.present_indices"
	PresentValuesName  = "array.present_values"
	ConcatName         = "array.concat"
)

// Slice returns size elements of x starting at offset. size -1 means up to
// the end. The result bitmap has bit offset 0.
func Slice[T any](proc *process.Process, x densearray.DenseArray[T], offset, size int64) (densearray.DenseArray[T], error) {
	ctx := proc.OpContext(SliceName)
	n := int64(x.Size())
	if offset < 0 || offset > n {
		return densearray.DenseArray[T]{}, moerr.NewInvalidInput(ctx, "expected `offset` in [0, %d], but got %d", n, offset)
	}
	if size == -1 {
		size = n - offset
	}
	if size < 0 || size > n-offset {
		return densearray.DenseArray[T]{}, moerr.NewInvalidInput(ctx, "expected `size` in [0, %d], but got %d", n-offset, size)
	}
	return x.Slice(int(offset), int(size)).ForceNoBitmapBitOffset(proc.Mp()), nil
}

// At returns element id of x.
func At[T any](proc *process.Process, x densearray.DenseArray[T], id int64) (optional.Value[T], error) {
	if id < 0 || id >= int64(x.Size()) {
		return optional.None[T](), moerr.NewInvalidInput(proc.OpContext(AtName),
			"array index %d out of range [0, %d)", id, x.Size())
	}
	return x.Get(int(id)), nil
}

// AtMany gathers x at ids. A missing id gives a missing element, an out of
// range id fails the whole call.
func AtMany[T any](proc *process.Process, x densearray.DenseArray[T], ids densearray.DenseArray[int64]) (densearray.DenseArray[T], error) {
	ctx := proc.OpContext(AtName)
	n := int64(x.Size())
	op := denseops.NewUnaryOpWithErrorCheck(func(id int64) (optional.Value[T], error) {
		if id < 0 || id >= n {
			return optional.None[T](), moerr.NewInvalidInput(ctx, "array index %d out of range [0, %d)", id, n)
		}
		return x.Get(int(id)), nil
	}, 0, proc.Mp())
	gathered, err := op.Eval(ctx, ids)
	if err != nil {
		return densearray.DenseArray[T]{}, err
	}
	// fold the presence of the picked elements in
	res := denseops.NewUnaryOpOptional(func(v optional.Value[T]) (T, bool) {
		return v.Get()
	}, 0, proc.Mp())
	return res.Eval(ctx, gathered)
}

// Has reports the presence of every element of x. The result is full.
func Has[T any](proc *process.Process, x densearray.DenseArray[T]) densearray.DenseArray[bool] {
	b := buffer.NewBuilder[bool](x.Size(), proc.Mp())
	out := b.MutableSpan()
	x.ForEach(func(id int, present bool, _ T) {
		out[id] = present
	})
	return densearray.DenseArray[bool]{Values: b.Build()}
}

// PresentIndices returns the indices of the present elements of x in
// ascending order.
func PresentIndices[T any](proc *process.Process, x densearray.DenseArray[T]) densearray.DenseArray[int64] {
	set := x.PresenceSet()
	b := buffer.NewBuilder[int64](int(set.GetCardinality()), proc.Mp())
	ins := b.GetInserter(0)
	it := set.Iterator()
	for it.HasNext() {
		ins.Add(int64(it.Next()))
	}
	return densearray.DenseArray[int64]{Values: b.Build()}
}

// PresentValues returns the present elements of x in order.
func PresentValues[T any](proc *process.Process, x densearray.DenseArray[T]) densearray.DenseArray[T] {
	b := buffer.NewBuilder[T](x.PresentCount(), proc.Mp())
	ins := b.GetInserter(0)
	x.ForEachPresent(func(_ int, v T) {
		ins.Add(v)
	})
	return densearray.DenseArray[T]{Values: b.Build()}
}

func Concat[T any](proc *process.Process, xs ...densearray.DenseArray[T]) densearray.DenseArray[T] {
	return densearray.Concat(proc.Mp(), xs...)
}
