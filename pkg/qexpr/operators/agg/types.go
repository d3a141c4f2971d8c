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

// Package agg folds child values into their parents along an edge.
package agg

import (
	"fmt"

	"github.com/matrixorigin/arolla/pkg/common/moerr"
	"github.com/matrixorigin/arolla/pkg/container/densearray"
	"github.com/matrixorigin/arolla/pkg/container/optional"
	"github.com/matrixorigin/arolla/pkg/qexpr/process"
)

// Accumulator folds the present values of one group.
type Accumulator[T, R any] interface {
	// Reset starts a new group.
	Reset()
	Add(v T)
	// Result returns false when the group has no result.
	Result() (R, bool)
}

// Aggregate returns, for every parent of e, the result of an accumulator
// fed with the present values of its children. x is indexed by child.
func Aggregate[T, R any](
	proc *process.Process, name string, x densearray.DenseArray[T], e densearray.Edge, newAcc func() Accumulator[T, R],
) (densearray.DenseArray[R], error) {
	if x.Size() != e.ChildSize() {
		return densearray.DenseArray[R]{}, moerr.NewSizeNotMatch(proc.OpContext(name),
			fmt.Sprintf("argument sizes mismatch: x.size=%d, edge.child_size=%d", x.Size(), e.ChildSize()))
	}
	b := densearray.NewBuilder[R](e.ParentSize(), proc.Mp())
	if e.Type() == densearray.SplitPointsEdge {
		sp := e.EdgeValues().Values.Span()
		acc := newAcc()
		for p := 0; p < e.ParentSize(); p++ {
			acc.Reset()
			x.Slice(int(sp[p]), int(sp[p+1]-sp[p])).ForEachPresent(func(_ int, v T) {
				acc.Add(v)
			})
			if r, ok := acc.Result(); ok {
				b.Set(p, r)
			}
		}
		return b.Build(), nil
	}

	accs := make([]Accumulator[T, R], e.ParentSize())
	for p := range accs {
		accs[p] = newAcc()
		accs[p].Reset()
	}
	mapping := e.EdgeValues()
	parents := mapping.Values.Span()
	x.ForEachPresent(func(c int, v T) {
		if mapping.Present(c) {
			accs[parents[c]].Add(v)
		}
	})
	for p, acc := range accs {
		if r, ok := acc.Result(); ok {
			b.Set(p, r)
		}
	}
	return b.Build(), nil
}

// AggregateScalar folds every present value of x into one result.
func AggregateScalar[T, R any](x densearray.DenseArray[T], acc Accumulator[T, R]) optional.Value[R] {
	acc.Reset()
	x.ForEachPresent(func(_ int, v T) {
		acc.Add(v)
	})
	r, ok := acc.Result()
	return optional.Of(r, ok)
}
