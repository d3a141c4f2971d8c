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

package edge

import (
	"fmt"

	"github.com/matrixorigin/arolla/pkg/common/bitmap"
	"github.com/matrixorigin/arolla/pkg/common/moerr"
	"github.com/matrixorigin/arolla/pkg/common/mpool"
	"github.com/matrixorigin/arolla/pkg/container/buffer"
	"github.com/matrixorigin/arolla/pkg/container/densearray"
	"github.com/matrixorigin/arolla/pkg/container/optional"
	"github.com/matrixorigin/arolla/pkg/qexpr/process"
)

// Expand broadcasts the parent indexed x to the children of e. A child is
// missing when its parent value is missing or it has no parent.
func Expand[T any](proc *process.Process, x densearray.DenseArray[T], e densearray.Edge) (densearray.DenseArray[T], error) {
	if x.Size() != e.ParentSize() {
		return densearray.DenseArray[T]{}, moerr.NewSizeNotMatch(proc.OpContext(ExpandName),
			fmt.Sprintf("argument sizes mismatch: x.size=%d, edge.parent_size=%d", x.Size(), e.ParentSize()))
	}
	if e.Type() == densearray.SplitPointsEdge {
		return expandSplitPoints(x, e, proc.Mp()), nil
	}
	return expandMapping(x, e, proc.Mp()), nil
}

func expandSplitPoints[T any](x densearray.DenseArray[T], e densearray.Edge, f mpool.Factory) densearray.DenseArray[T] {
	sp := e.EdgeValues().Values.Span()
	childSize := e.ChildSize()
	rb := buffer.NewReshuffleBuilder(childSize, x.Values, optional.None[T](), f)
	if x.IsFull() {
		for i := 0; i < x.Size(); i++ {
			rb.CopyValueToRange(int(sp[i]), int(sp[i+1]), i)
		}
		return densearray.DenseArray[T]{Values: rb.Build()}
	}
	bb := buffer.NewBuilder[bitmap.Word](bitmap.BitmapSize(childSize), f)
	words := bb.MutableSpan()
	x.ForEachPresent(func(i int, _ T) {
		rb.CopyValueToRange(int(sp[i]), int(sp[i+1]), i)
		bitmap.SetBitsInRange(words, int(sp[i]), int(sp[i+1]))
	})
	if bitmap.AreAllBitsSet(words, childSize) {
		return densearray.DenseArray[T]{Values: rb.Build()}
	}
	return densearray.DenseArray[T]{Values: rb.Build(), Bitmap: bb.Build()}
}

func expandMapping[T any](x densearray.DenseArray[T], e densearray.Edge, f mpool.Factory) densearray.DenseArray[T] {
	mapping := e.EdgeValues()
	parents := mapping.Values.Span()
	childSize := e.ChildSize()
	rb := buffer.NewReshuffleBuilder(childSize, x.Values, optional.None[T](), f)
	bb := bitmap.NewBuilder(childSize, f)
	bb.AddByGroups(childSize, func(offset int) func(i int) bool {
		return func(i int) bool {
			child := offset + i
			if !mapping.Present(child) {
				return false
			}
			parent := int(parents[child])
			if !x.Present(parent) {
				return false
			}
			rb.CopyValue(child, parent)
			return true
		}
	})
	return densearray.DenseArray[T]{Values: rb.Build(), Bitmap: bb.Build()}
}

// ExpandScalar broadcasts v to every child of a group scalar edge.
func ExpandScalar[T any](proc *process.Process, v optional.Value[T], e densearray.GroupScalarEdge) densearray.DenseArray[T] {
	if x, ok := v.Get(); ok {
		return densearray.CreateConstDenseArray(e.ChildSize(), x, proc.Mp())
	}
	return densearray.CreateEmptyDenseArray[T](e.ChildSize(), proc.Mp())
}
