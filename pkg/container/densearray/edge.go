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
	"context"
	"slices"

	"github.com/matrixorigin/arolla/pkg/common/moerr"
	"github.com/matrixorigin/arolla/pkg/common/mpool"
	"github.com/matrixorigin/arolla/pkg/container/buffer"
)

type EdgeType int

const (
	// MappingEdge stores the parent id of every child, missing for a child
	// without parent.
	MappingEdge EdgeType = iota
	// SplitPointsEdge stores parentSize+1 sorted offsets; the children of
	// parent i are [sp[i], sp[i+1]).
	SplitPointsEdge
)

func (t EdgeType) String() string {
	switch t {
	case MappingEdge:
		return "MAPPING"
	case SplitPointsEdge:
		return "SPLIT_POINTS"
	default:
		return "UNKNOWN"
	}
}

// Edge relates a child domain to a parent domain.
type Edge struct {
	edgeType   EdgeType
	parentSize int
	childSize  int
	values     DenseArray[int64]
}

// FromSplitPoints validates and wraps split points. They must be full,
// non-empty, start at 0 and be sorted.
func FromSplitPoints(ctx context.Context, splitPoints DenseArray[int64]) (Edge, error) {
	if !splitPoints.IsFull() {
		return Edge{}, moerr.NewInvalidInput(ctx, "split points must be full")
	}
	if splitPoints.Empty() {
		return Edge{}, moerr.NewInvalidInput(ctx, "split points array must have at least 1 element")
	}
	sp := splitPoints.Values.Span()
	if sp[0] != 0 {
		return Edge{}, moerr.NewInvalidInput(ctx, "split points array must have first element equal to 0")
	}
	if !slices.IsSorted(sp) {
		return Edge{}, moerr.NewInvalidInput(ctx, "split points must be sorted")
	}
	return UnsafeFromSplitPoints(splitPoints), nil
}

// UnsafeFromSplitPoints wraps split points without validation.
func UnsafeFromSplitPoints(splitPoints DenseArray[int64]) Edge {
	sp := splitPoints.Values.Span()
	return Edge{
		edgeType:   SplitPointsEdge,
		parentSize: len(sp) - 1,
		childSize:  int(sp[len(sp)-1]),
		values:     splitPoints,
	}
}

// FromMapping validates and wraps a child to parent mapping.
func FromMapping(ctx context.Context, mapping DenseArray[int64], parentSize int) (Edge, error) {
	if parentSize < 0 {
		return Edge{}, moerr.NewInvalidInput(ctx, "parent_size can not be negative")
	}
	maxValue := int64(-1)
	negative := false
	mapping.ForEachPresent(func(_ int, v int64) {
		maxValue = max(maxValue, v)
		negative = negative || v < 0
	})
	if negative {
		return Edge{}, moerr.NewInvalidInput(ctx, "mapping can't contain negative values")
	}
	if maxValue >= int64(parentSize) {
		return Edge{}, moerr.NewInvalidInput(ctx, "parent_size=%d, but parent id %d is used", parentSize, maxValue)
	}
	return UnsafeFromMapping(mapping, parentSize), nil
}

// UnsafeFromMapping wraps a mapping without validation.
func UnsafeFromMapping(mapping DenseArray[int64], parentSize int) Edge {
	return Edge{
		edgeType:   MappingEdge,
		parentSize: parentSize,
		childSize:  mapping.Size(),
		values:     mapping,
	}
}

// FromUniformGroups builds parentSize groups of groupSize children each.
func FromUniformGroups(ctx context.Context, parentSize, groupSize int, f mpool.Factory) (Edge, error) {
	if parentSize < 0 || groupSize < 0 {
		return Edge{}, moerr.NewInvalidInput(ctx, "parent_size and group_size cannot be negative")
	}
	b := buffer.NewBuilder[int64](parentSize+1, f)
	ins := b.GetInserter(0)
	for i := 0; i <= parentSize; i++ {
		ins.Add(int64(i * groupSize))
	}
	return UnsafeFromSplitPoints(DenseArray[int64]{Values: b.Build()}), nil
}

func (e Edge) Type() EdgeType {
	return e.edgeType
}

func (e Edge) ParentSize() int {
	return e.parentSize
}

func (e Edge) ChildSize() int {
	return e.childSize
}

// EdgeValues returns the mapping or the split points.
func (e Edge) EdgeValues() DenseArray[int64] {
	return e.values
}

// SplitSize is the number of children of parent i. Split points only.
func (e Edge) SplitSize(i int) int {
	sp := e.values.Values.Span()
	return int(sp[i+1] - sp[i])
}

// ToMappingEdge converts split points to a mapping. A mapping edge is
// returned as is.
func (e Edge) ToMappingEdge(f mpool.Factory) Edge {
	if e.edgeType == MappingEdge {
		return e
	}
	b := buffer.NewBuilder[int64](e.childSize, f)
	m := b.MutableSpan()
	sp := e.values.Values.Span()
	for parent := 0; parent < e.parentSize; parent++ {
		for i := sp[parent]; i < sp[parent+1]; i++ {
			m[i] = int64(parent)
		}
	}
	return UnsafeFromMapping(DenseArray[int64]{Values: b.Build()}, e.parentSize)
}

// ToSplitPointsEdge converts a full sorted mapping to split points.
func (e Edge) ToSplitPointsEdge(ctx context.Context, f mpool.Factory) (Edge, error) {
	if e.edgeType == SplitPointsEdge {
		return e, nil
	}
	if !e.values.IsFull() {
		return Edge{}, moerr.NewInvalidInput(ctx, "expected a full mapping")
	}
	b := buffer.NewBuilder[int64](e.parentSize+1, f)
	ins := b.GetInserter(0)
	ins.Add(0)
	current := int64(0)
	values := e.values.Values.Span()
	for i, v := range values {
		if v < current {
			return Edge{}, moerr.NewInvalidInput(ctx, "expected a sorted mapping")
		}
		for ; current < v; current++ {
			ins.Add(int64(i))
		}
	}
	for ; current < int64(e.parentSize); current++ {
		ins.Add(int64(len(values)))
	}
	return UnsafeFromSplitPoints(DenseArray[int64]{Values: b.Build()}), nil
}

// IsEquivalentTo reports whether both edges describe the same grouping.
func (e Edge) IsEquivalentTo(other Edge) bool {
	if e.parentSize != other.parentSize || e.childSize != other.childSize {
		return false
	}
	if e.edgeType == other.edgeType {
		return ArraysAreEquivalent(e.values, other.values)
	}
	// compare as split points to avoid expanding to a mapping
	ctx := context.Background()
	a, err := e.ToSplitPointsEdge(ctx, nil)
	if err != nil {
		return false
	}
	b, err := other.ToSplitPointsEdge(ctx, nil)
	if err != nil {
		return false
	}
	return ArraysAreEquivalent(a.values, b.values)
}

// ComposeEdges chains edges from the outermost parent to the innermost
// child: the child domain of edges[i] is the parent domain of edges[i+1].
func ComposeEdges(ctx context.Context, edges []Edge, f mpool.Factory) (Edge, error) {
	if len(edges) == 0 {
		return Edge{}, moerr.NewInvalidInput(ctx, "at least one edge must be present")
	}
	if len(edges) == 1 {
		return edges[0], nil
	}
	priorChildSize := edges[0].parentSize
	allSplitPoints := true
	for i, e := range edges {
		if e.parentSize != priorChildSize {
			return Edge{}, moerr.NewInvalidInput(ctx,
				"incompatible edges: edges[%d].child_size (%d) != edges[%d].parent_size (%d)",
				i-1, priorChildSize, i, e.parentSize)
		}
		priorChildSize = e.childSize
		allSplitPoints = allSplitPoints && e.edgeType == SplitPointsEdge
	}
	if allSplitPoints {
		return composeSplitPoints(edges, f), nil
	}
	return composeMappings(edges, f), nil
}

func composeSplitPoints(edges []Edge, f mpool.Factory) Edge {
	b := buffer.NewBuilder[int64](edges[0].parentSize+1, f)
	out := b.MutableSpan()
	copy(out, edges[0].values.Values.Span())
	for _, e := range edges[1:] {
		sp := e.values.Values.Span()
		for i, v := range out {
			out[i] = sp[v]
		}
	}
	return UnsafeFromSplitPoints(DenseArray[int64]{Values: b.Build()})
}

func composeMappings(edges []Edge, f mpool.Factory) Edge {
	childSize := edges[len(edges)-1].childSize
	b := NewBuilder[int64](childSize, f)
	mappings := make([]DenseArray[int64], len(edges))
	for i, e := range edges {
		mappings[i] = e.ToMappingEdge(f).values
	}
	for child := 0; child < childSize; child++ {
		id, present := int64(child), true
		for i := len(mappings) - 1; i >= 0 && present; i-- {
			present = mappings[i].Present(int(id))
			id = mappings[i].Values.At(int(id))
		}
		if present {
			b.Set(child, id)
		}
	}
	return UnsafeFromMapping(b.Build(), edges[0].parentSize)
}

// GroupScalarEdge maps every child to a single implicit parent.
type GroupScalarEdge struct {
	childSize int
}

func NewGroupScalarEdge(childSize int) GroupScalarEdge {
	return GroupScalarEdge{childSize: childSize}
}

func (e GroupScalarEdge) ChildSize() int {
	return e.childSize
}

func (e GroupScalarEdge) ParentSize() int {
	return 1
}

// ToEdge returns the equivalent split points edge with a single parent.
func (e GroupScalarEdge) ToEdge(f mpool.Factory) Edge {
	b := buffer.NewBuilder[int64](2, f)
	b.Set(0, 0)
	b.Set(1, int64(e.childSize))
	return UnsafeFromSplitPoints(DenseArray[int64]{Values: b.Build()})
}
