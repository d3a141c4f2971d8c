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
	"context"
	"fmt"

	"github.com/matrixorigin/arolla/pkg/common/bitmap"
	"github.com/matrixorigin/arolla/pkg/common/moerr"
	"github.com/matrixorigin/arolla/pkg/container/buffer"
	"github.com/matrixorigin/arolla/pkg/container/densearray"
	"github.com/matrixorigin/arolla/pkg/qexpr/process"
)

// ResizeGroupsChildSide gives parent i newSizes[i] children and puts child
// c at position offsets[c] of its group. Children with a missing offset or
// an offset past the new group size are dropped. It returns the new split
// points edge and a mapping edge from the new children to the old ones;
// expanding child values over the latter relocates them.
func ResizeGroupsChildSide(
	proc *process.Process, e densearray.Edge, newSizes densearray.DenseArray[int64], offsets densearray.DenseArray[int64],
) (densearray.Edge, densearray.Edge, error) {
	ctx := proc.OpContext(ResizeChildSideName)
	sizes, err := checkNewSizes(ctx, e, newSizes)
	if err != nil {
		return densearray.Edge{}, densearray.Edge{}, err
	}
	return resize(ctx, proc, e, sizes, offsets)
}

// ResizeGroupsChildSideUniform is ResizeGroupsChildSide with the same new
// size for every group.
func ResizeGroupsChildSideUniform(
	proc *process.Process, e densearray.Edge, newSize int64, offsets densearray.DenseArray[int64],
) (densearray.Edge, densearray.Edge, error) {
	ctx := proc.OpContext(ResizeChildSideName)
	sizes, err := uniformSizes(ctx, proc, e, newSize)
	if err != nil {
		return densearray.Edge{}, densearray.Edge{}, err
	}
	return resize(ctx, proc, e, sizes, offsets)
}

// ResizeGroupsParentSide keeps the children of every group in order and
// truncates or pads the group to its new size.
func ResizeGroupsParentSide(
	proc *process.Process, e densearray.Edge, newSizes densearray.DenseArray[int64],
) (densearray.Edge, densearray.Edge, error) {
	ctx := proc.OpContext(ResizeParentName)
	sizes, err := checkNewSizes(ctx, e, newSizes)
	if err != nil {
		return densearray.Edge{}, densearray.Edge{}, err
	}
	return resize(ctx, proc, e, sizes, positionsInGroups(proc, e))
}

func ResizeGroupsParentSideUniform(
	proc *process.Process, e densearray.Edge, newSize int64,
) (densearray.Edge, densearray.Edge, error) {
	ctx := proc.OpContext(ResizeParentName)
	sizes, err := uniformSizes(ctx, proc, e, newSize)
	if err != nil {
		return densearray.Edge{}, densearray.Edge{}, err
	}
	return resize(ctx, proc, e, sizes, positionsInGroups(proc, e))
}

func checkNewSizes(ctx context.Context, e densearray.Edge, newSizes densearray.DenseArray[int64]) ([]int64, error) {
	if newSizes.Size() != e.ParentSize() {
		return nil, moerr.NewSizeNotMatch(ctx,
			fmt.Sprintf("argument sizes mismatch: new_size.size=%d, edge.parent_size=%d", newSizes.Size(), e.ParentSize()))
	}
	if !newSizes.IsFull() {
		return nil, moerr.NewInvalidInput(ctx, "new_size must be full")
	}
	return newSizes.Values.Span(), nil
}

func uniformSizes(ctx context.Context, proc *process.Process, e densearray.Edge, newSize int64) ([]int64, error) {
	if newSize < 0 {
		return nil, moerr.NewInvalidInput(ctx, "new_size can not be negative, got %d", newSize)
	}
	return buffer.CreateConst(e.ParentSize(), newSize, proc.Mp()).Span(), nil
}

// positionsInGroups numbers the children of every group in order.
func positionsInGroups(proc *process.Process, e densearray.Edge) densearray.DenseArray[int64] {
	if e.Type() == densearray.SplitPointsEdge {
		sp := e.EdgeValues().Values.Span()
		b := buffer.NewBuilder[int64](e.ChildSize(), proc.Mp())
		out := b.MutableSpan()
		for p := 0; p < e.ParentSize(); p++ {
			for c := sp[p]; c < sp[p+1]; c++ {
				out[c] = c - sp[p]
			}
		}
		return densearray.DenseArray[int64]{Values: b.Build()}
	}
	counts := make([]int64, e.ParentSize())
	mapping := e.EdgeValues()
	b := densearray.NewBuilder[int64](e.ChildSize(), proc.Mp())
	mapping.ForEachPresent(func(c int, p int64) {
		b.Set(c, counts[p])
		counts[p]++
	})
	return b.Build()
}

func resize(
	ctx context.Context, proc *process.Process, e densearray.Edge, sizes []int64, offsets densearray.DenseArray[int64],
) (densearray.Edge, densearray.Edge, error) {
	if offsets.Size() != e.ChildSize() {
		return densearray.Edge{}, densearray.Edge{}, moerr.NewSizeNotMatch(ctx,
			fmt.Sprintf("argument sizes mismatch: offsets.size=%d, edge.child_size=%d", offsets.Size(), e.ChildSize()))
	}
	sp, ok := splitPointsFromSizes(proc.Mp(), sizes)
	if !ok {
		return densearray.Edge{}, densearray.Edge{}, moerr.NewInvalidInput(ctx, "new_size can not be negative")
	}
	newSplits := sp.Values.Span()
	total := int(newSplits[len(newSplits)-1])

	mapping := e.ToMappingEdge(proc.Mp()).EdgeValues()
	parentOf := mapping.Values.Span()
	moves := densearray.NewBuilder[int64](total, proc.Mp())
	taken := buffer.NewBuilder[bitmap.Word](bitmap.BitmapSize(total), proc.Mp()).MutableSpan()

	var err error
	offsets.ForEachPresent(func(c int, off int64) {
		if err != nil || !mapping.Present(c) {
			return
		}
		if off < 0 {
			err = moerr.NewInvalidInput(ctx, "negative offsets are not supported")
			return
		}
		p := parentOf[c]
		if off >= sizes[p] {
			return
		}
		pos := int(newSplits[p] + off)
		if bitmap.Test(taken, pos) {
			err = moerr.NewInvalidInput(ctx, "duplicate offsets in the same group")
			return
		}
		bitmap.SetBit(taken, pos)
		moves.Set(pos, int64(c))
	})
	if err != nil {
		return densearray.Edge{}, densearray.Edge{}, err
	}
	return densearray.UnsafeFromSplitPoints(sp), densearray.UnsafeFromMapping(moves.Build(), e.ChildSize()), nil
}
