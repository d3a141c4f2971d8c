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

// Package edge holds the operators that build, inspect and use edges.
package edge

import (
	"github.com/matrixorigin/arolla/pkg/common/moerr"
	"github.com/matrixorigin/arolla/pkg/common/mpool"
	"github.com/matrixorigin/arolla/pkg/container/buffer"
	"github.com/matrixorigin/arolla/pkg/container/densearray"
	"github.com/matrixorigin/arolla/pkg/qexpr/process"
)

const (
	FromSizesName       = "edge.from_sizes"
	FromSplitPointsName = "edge.from_split_points"
	FromMappingName     = "edge.from_mapping"
	SizesName           = "edge.sizes"
	ComposeName         = "edge.compose"
	ExpandName          = "array.expand"
	GroupByName         = "edge.group_by"
	ResizeChildSideName = "edge.resize_groups_child_side"
	ResizeParentName    = "edge.resize_groups_parent_side"
)

// FromSizes builds a split points edge whose parent i has sizes[i]
// children.
func FromSizes(proc *process.Process, sizes densearray.DenseArray[int64]) (densearray.Edge, error) {
	ctx := proc.OpContext(FromSizesName)
	if !sizes.IsFull() {
		return densearray.Edge{}, moerr.NewInvalidInput(ctx, "operator edge.from_sizes expects sizes to be full")
	}
	sp, ok := splitPointsFromSizes(proc.Mp(), sizes.Values.Span())
	if !ok {
		return densearray.Edge{}, moerr.NewInvalidInput(ctx, "operator edge.from_sizes expects sizes to be non-negative")
	}
	return densearray.UnsafeFromSplitPoints(sp), nil
}

// splitPointsFromSizes is the prefix sum of sizes. It fails on a negative
// size.
func splitPointsFromSizes(f mpool.Factory, sizes []int64) (densearray.DenseArray[int64], bool) {
	b := buffer.NewBuilder[int64](len(sizes)+1, f)
	sp := b.MutableSpan()
	sp[0] = 0
	for i, s := range sizes {
		if s < 0 {
			return densearray.DenseArray[int64]{}, false
		}
		sp[i+1] = sp[i] + s
	}
	return densearray.DenseArray[int64]{Values: b.Build()}, true
}

func FromSplitPoints(proc *process.Process, splitPoints densearray.DenseArray[int64]) (densearray.Edge, error) {
	return densearray.FromSplitPoints(proc.OpContext(FromSplitPointsName), splitPoints)
}

func FromMapping(proc *process.Process, mapping densearray.DenseArray[int64], parentSize int64) (densearray.Edge, error) {
	return densearray.FromMapping(proc.OpContext(FromMappingName), mapping, int(parentSize))
}

// Sizes returns the number of children of every parent. Children without a
// parent are not counted.
func Sizes(proc *process.Process, e densearray.Edge) densearray.DenseArray[int64] {
	b := buffer.NewBuilder[int64](e.ParentSize(), proc.Mp())
	out := b.MutableSpan()
	switch e.Type() {
	case densearray.SplitPointsEdge:
		sp := e.EdgeValues().Values.Span()
		for i := range out {
			out[i] = sp[i+1] - sp[i]
		}
	default:
		e.EdgeValues().ForEachPresent(func(_ int, parent int64) {
			out[parent]++
		})
	}
	return densearray.DenseArray[int64]{Values: b.Build()}
}

// Compose chains edges from the outermost parent to the innermost child.
func Compose(proc *process.Process, edges ...densearray.Edge) (densearray.Edge, error) {
	return densearray.ComposeEdges(proc.OpContext(ComposeName), edges, proc.Mp())
}
