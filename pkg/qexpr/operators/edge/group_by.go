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

	"github.com/matrixorigin/arolla/pkg/common/moerr"
	"github.com/matrixorigin/arolla/pkg/container/densearray"
	"github.com/matrixorigin/arolla/pkg/qexpr/process"
)

// GroupBy assigns a group id to every distinct value of x, in order of
// first occurrence. The result maps every element of x to its group;
// missing elements get no group.
func GroupBy[T comparable](proc *process.Process, x densearray.DenseArray[T]) densearray.Edge {
	ids := make(map[T]int64)
	b := densearray.NewBuilder[int64](x.Size(), proc.Mp())
	x.ForEachPresent(func(id int, v T) {
		g, ok := ids[v]
		if !ok {
			g = int64(len(ids))
			ids[v] = g
		}
		b.Set(id, g)
	})
	return densearray.UnsafeFromMapping(b.Build(), len(ids))
}

type groupKey[T comparable] struct {
	parent int64
	value  T
}

// GroupByWithin groups equal values of x inside each group of over. Group
// ids are assigned in order of first occurrence across the children. Next
// to the child to group edge it returns the group to parent edge of over,
// so composing the two gives back over for every grouped child.
func GroupByWithin[T comparable](
	proc *process.Process, x densearray.DenseArray[T], over densearray.Edge,
) (groups densearray.Edge, parents densearray.Edge, err error) {
	if x.Size() != over.ChildSize() {
		return groups, parents, moerr.NewSizeNotMatch(proc.OpContext(GroupByName),
			fmt.Sprintf("argument sizes mismatch: x.size=%d, over.child_size=%d", x.Size(), over.ChildSize()))
	}
	mapping := over.ToMappingEdge(proc.Mp()).EdgeValues()
	parentOf := mapping.Values.Span()
	ids := make(map[groupKey[T]]int64)
	var groupParents []int64
	b := densearray.NewBuilder[int64](x.Size(), proc.Mp())
	x.ForEachPresent(func(id int, v T) {
		if !mapping.Present(id) {
			return
		}
		key := groupKey[T]{parent: parentOf[id], value: v}
		g, ok := ids[key]
		if !ok {
			g = int64(len(ids))
			ids[key] = g
			groupParents = append(groupParents, key.parent)
		}
		b.Set(id, g)
	})
	groups = densearray.UnsafeFromMapping(b.Build(), len(ids))
	parents = densearray.UnsafeFromMapping(densearray.CreateFullDenseArray(groupParents, proc.Mp()), over.ParentSize())
	return groups, parents, nil
}
