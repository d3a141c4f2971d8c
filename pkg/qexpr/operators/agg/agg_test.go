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

package agg

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/arolla/pkg/common/moerr"
	"github.com/matrixorigin/arolla/pkg/container/densearray"
	"github.com/matrixorigin/arolla/pkg/container/optional"
	"github.com/matrixorigin/arolla/pkg/qexpr/operators/edge"
	"github.com/matrixorigin/arolla/pkg/qexpr/process"
)

var (
	some = optional.Some[int64]
	none = optional.None[int64]
)

func testProc() *process.Process {
	return process.New(context.Background(), nil)
}

func sizesEdge(t *testing.T, proc *process.Process, sizes ...int64) densearray.Edge {
	e, err := edge.FromSizes(proc, densearray.CreateFullDenseArray(sizes, nil))
	require.NoError(t, err)
	return e
}

func TestSumCountMinMax(t *testing.T) {
	proc := testProc()
	e := sizesEdge(t, proc, 3, 0, 2, 2)
	x := densearray.Of(some(5), none(), some(-2), some(4), some(9), none(), none())

	sum, err := Sum(proc, x, e)
	require.NoError(t, err)
	require.Equal(t, []optional.Value[int64]{some(3), none(), some(13), none()}, sum.ToOptionals())

	count, err := Count(proc, x, e)
	require.NoError(t, err)
	require.True(t, count.IsFull())
	require.Equal(t, []int64{2, 0, 2, 0}, count.Values.Span())

	lo, err := Min(proc, x, e)
	require.NoError(t, err)
	require.Equal(t, []optional.Value[int64]{some(-2), none(), some(4), none()}, lo.ToOptionals())

	hi, err := Max(proc, x, e)
	require.NoError(t, err)
	require.Equal(t, []optional.Value[int64]{some(5), none(), some(9), none()}, hi.ToOptionals())

	_, err = Sum(proc, x.Slice(0, 3), e)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrSizeNotMatch))
	require.Equal(t, SumName, moerr.DowncastError(err).Detail())
}

func TestAggregateOverMapping(t *testing.T) {
	proc := testProc()
	m, err := edge.FromMapping(proc, densearray.Of(some(1), some(0), none(), some(1)), 3)
	require.NoError(t, err)
	x := densearray.Of(optional.Some(1.5), optional.Some(2.0), optional.Some(100.0), optional.Some(0.5))

	sum, err := Sum(proc, x, m)
	require.NoError(t, err)
	require.Equal(t, []optional.Value[float64]{
		optional.Some(2.0), optional.Some(2.0), optional.None[float64](),
	}, sum.ToOptionals())

	count, err := Count(proc, x, m)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 0}, count.Values.Span())
}

func TestCollapse(t *testing.T) {
	proc := testProc()
	e := sizesEdge(t, proc, 3, 2, 1)
	x := densearray.Of(
		optional.Some("a"), optional.None[string](), optional.Some("a"),
		optional.Some("b"), optional.Some("c"),
		optional.None[string](),
	)
	res, err := Collapse(proc, x, e)
	require.NoError(t, err)
	require.Equal(t, []optional.Value[string]{
		optional.Some("a"), optional.None[string](), optional.None[string](),
	}, res.ToOptionals())
}

func TestExpandThenCollapse(t *testing.T) {
	proc := testProc()
	e := sizesEdge(t, proc, 2, 3, 1, 4)
	parents := densearray.Of(some(7), none(), some(9), some(11))

	children, err := edge.Expand(proc, parents, e)
	require.NoError(t, err)
	back, err := Collapse(proc, children, e)
	require.NoError(t, err)
	require.True(t, densearray.ArraysAreEquivalent(parents, back))

	mapping := e.ToMappingEdge(nil)
	children, err = edge.Expand(proc, parents, mapping)
	require.NoError(t, err)
	back, err = Collapse(proc, children, mapping)
	require.NoError(t, err)
	require.True(t, densearray.ArraysAreEquivalent(parents, back))
}

func TestApproxCountDistinct(t *testing.T) {
	proc := testProc()
	values := make([]optional.Value[string], 0, 1300)
	for i := 0; i < 1000; i++ {
		values = append(values, optional.Some(fmt.Sprintf("v%d", i%200)))
	}
	for i := 0; i < 300; i++ {
		values = append(values, optional.Some(fmt.Sprintf("w%d", i%3)))
	}
	x := densearray.CreateDenseArray(values, nil)
	e := sizesEdge(t, proc, 1000, 300)

	res, err := ApproxCountDistinct(proc, x, e)
	require.NoError(t, err)
	require.True(t, res.IsFull())
	require.InDelta(t, 200, res.Values.At(0), 10)
	require.InDelta(t, 3, res.Values.At(1), 1)
}

func TestAggregateScalar(t *testing.T) {
	x := densearray.Of(some(3), none(), some(4))
	require.Equal(t, some(7), AggregateScalar(x, NewSumAcc[int64]()))
	require.Equal(t, some(3), AggregateScalar(x, NewMinAcc[int64]()))
	require.Equal(t, none(), AggregateScalar(densearray.Of(none()), NewMaxAcc[int64]()))
	require.Equal(t, some(2), AggregateScalar(x, NewCountAcc[int64]()))

	grouped, err := Sum(testProc(), x, densearray.NewGroupScalarEdge(3).ToEdge(nil))
	require.NoError(t, err)
	require.Equal(t, some(7), grouped.Get(0))
}
