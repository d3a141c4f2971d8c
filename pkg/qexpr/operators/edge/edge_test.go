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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/arolla/pkg/common/moerr"
	"github.com/matrixorigin/arolla/pkg/container/densearray"
	"github.com/matrixorigin/arolla/pkg/container/optional"
	"github.com/matrixorigin/arolla/pkg/qexpr/process"
)

func testProc() *process.Process {
	return process.New(context.Background(), nil)
}

func ints(vs ...int64) densearray.DenseArray[int64] {
	return densearray.CreateFullDenseArray(vs, nil)
}

var (
	some = optional.Some[int64]
	none = optional.None[int64]
)

func TestFromSizes(t *testing.T) {
	proc := testProc()
	e, err := FromSizes(proc, ints(2, 0, 3))
	require.NoError(t, err)
	require.Equal(t, densearray.SplitPointsEdge, e.Type())
	require.Equal(t, []int64{0, 2, 2, 5}, e.EdgeValues().Values.Span())
	require.Equal(t, []int64{2, 0, 3}, Sizes(proc, e).Values.Span())

	_, err = FromSizes(proc, densearray.Of(some(1), none()))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
	require.Contains(t, err.Error(), "expects sizes to be full")
	_, err = FromSizes(proc, ints(1, -1))
	require.Contains(t, err.Error(), "expects sizes to be non-negative")
}

func TestFromSplitPointsAndMapping(t *testing.T) {
	proc := testProc()
	_, err := FromSplitPoints(proc, ints(1, 2))
	require.Error(t, err)
	require.Equal(t, FromSplitPointsName, moerr.DowncastError(err).Detail())

	m, err := FromMapping(proc, densearray.Of(some(2), none(), some(0), some(2)), 4)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 0, 2, 0}, Sizes(proc, m).Values.Span())

	_, err = FromMapping(proc, ints(0, 4), 4)
	require.Contains(t, err.Error(), "parent_size=4, but parent id 4 is used")
}

func TestExpand(t *testing.T) {
	proc := testProc()
	x := densearray.Of(optional.Some("a"), optional.None[string](), optional.Some("c"))

	sp, err := FromSizes(proc, ints(2, 3, 1))
	require.NoError(t, err)
	res, err := Expand(proc, x, sp)
	require.NoError(t, err)
	require.Equal(t, []optional.Value[string]{
		optional.Some("a"), optional.Some("a"),
		optional.None[string](), optional.None[string](), optional.None[string](),
		optional.Some("c"),
	}, res.ToOptionals())

	m, err := FromMapping(proc, densearray.Of(some(2), none(), some(1), some(0)), 3)
	require.NoError(t, err)
	res, err = Expand(proc, x, m)
	require.NoError(t, err)
	require.Equal(t, []optional.Value[string]{
		optional.Some("c"), optional.None[string](), optional.None[string](), optional.Some("a"),
	}, res.ToOptionals())

	_, err = Expand(proc, x, densearray.NewGroupScalarEdge(3).ToEdge(nil))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrSizeNotMatch))
}

func TestExpandLongGroups(t *testing.T) {
	proc := testProc()
	x := densearray.Of(some(1), none(), some(3))
	e, err := FromSizes(proc, ints(40, 30, 50))
	require.NoError(t, err)
	res, err := Expand(proc, x, e)
	require.NoError(t, err)
	require.Equal(t, 120, res.Size())
	require.Equal(t, 90, res.PresentCount())
	for i := 0; i < 120; i++ {
		switch {
		case i < 40:
			require.Equal(t, some(1), res.Get(i))
		case i < 70:
			require.False(t, res.Present(i))
		default:
			require.Equal(t, some(3), res.Get(i))
		}
	}

	full, err := Expand(proc, ints(7, 8), e2(t, proc))
	require.NoError(t, err)
	require.True(t, full.Bitmap.Empty())
	require.Equal(t, []int64{7, 8, 8}, full.Values.Span())
}

func e2(t *testing.T, proc *process.Process) densearray.Edge {
	e, err := FromSizes(proc, ints(1, 2))
	require.NoError(t, err)
	return e
}

func TestExpandScalar(t *testing.T) {
	proc := testProc()
	e := densearray.NewGroupScalarEdge(3)
	require.Equal(t, []int64{5, 5, 5}, ExpandScalar(proc, some(5), e).Values.Span())
	require.True(t, ExpandScalar(proc, none(), e).IsAllMissing())
}

func TestGroupBy(t *testing.T) {
	proc := testProc()
	x := densearray.Of(optional.Some("b"), optional.Some("a"), optional.None[string](), optional.Some("b"), optional.Some("c"))
	g := GroupBy(proc, x)
	require.Equal(t, densearray.MappingEdge, g.Type())
	require.Equal(t, 3, g.ParentSize())
	require.Equal(t, []optional.Value[int64]{some(0), some(1), none(), some(0), some(2)}, g.EdgeValues().ToOptionals())
}

func TestGroupByWithin(t *testing.T) {
	proc := testProc()
	over, err := FromSizes(proc, ints(3, 2))
	require.NoError(t, err)
	x := densearray.Of(some(7), some(8), some(7), some(7), none())

	groups, parents, err := GroupByWithin(proc, x, over)
	require.NoError(t, err)
	require.Equal(t, 3, groups.ParentSize())
	require.Equal(t, []optional.Value[int64]{some(0), some(1), some(0), some(2), none()}, groups.EdgeValues().ToOptionals())
	require.Equal(t, []int64{0, 0, 1}, parents.EdgeValues().Values.Span())

	composed, err := Compose(proc, parents, groups)
	require.NoError(t, err)
	require.Equal(t, []optional.Value[int64]{some(0), some(0), some(0), some(1), none()}, composed.EdgeValues().ToOptionals())

	_, _, err = GroupByWithin(proc, x, e2(t, proc))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrSizeNotMatch))
}

func TestResizeParentSideRoundTrip(t *testing.T) {
	proc := testProc()
	e, err := FromSizes(proc, ints(2, 3))
	require.NoError(t, err)
	x := densearray.Of(some(10), some(11), some(20), none(), some(22))

	bigger, moves, err := ResizeGroupsParentSideUniform(proc, e, 4)
	require.NoError(t, err)
	require.Equal(t, []int64{4, 4}, Sizes(proc, bigger).Values.Span())
	wide, err := Expand(proc, x, moves)
	require.NoError(t, err)
	require.Equal(t, []optional.Value[int64]{
		some(10), some(11), none(), none(),
		some(20), none(), some(22), none(),
	}, wide.ToOptionals())

	back, moves, err := ResizeGroupsParentSide(proc, bigger, ints(2, 3))
	require.NoError(t, err)
	require.True(t, back.IsEquivalentTo(e))
	narrow, err := Expand(proc, wide, moves)
	require.NoError(t, err)
	require.True(t, densearray.ArraysAreEquivalent(x, narrow))

	// truncation drops the tail of every group
	small, moves, err := ResizeGroupsParentSideUniform(proc, e, 1)
	require.NoError(t, err)
	require.Equal(t, 2, small.ChildSize())
	require.Equal(t, []int64{0, 2}, moves.EdgeValues().Values.Span())
}

func TestResizeChildSide(t *testing.T) {
	proc := testProc()
	m, err := FromMapping(proc, densearray.Of(some(1), some(0), some(1), none()), 2)
	require.NoError(t, err)

	offsets := densearray.Of(some(2), some(0), some(0), some(0))
	e, moves, err := ResizeGroupsChildSide(proc, m, ints(1, 3), offsets)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 1, 4}, e.EdgeValues().Values.Span())
	require.Equal(t, []optional.Value[int64]{some(1), some(2), none(), some(0)}, moves.EdgeValues().ToOptionals())
	require.Equal(t, 4, moves.ParentSize())

	// offset past the new size is dropped
	_, moves, err = ResizeGroupsChildSideUniform(proc, m, 1, densearray.Of(some(5), some(0), some(0), none()))
	require.NoError(t, err)
	require.Equal(t, []optional.Value[int64]{some(1), some(2)}, moves.EdgeValues().ToOptionals())

	_, _, err = ResizeGroupsChildSideUniform(proc, m, 2, densearray.Of(some(0), some(-1), some(1), none()))
	require.Contains(t, err.Error(), "negative offsets are not supported")
	_, _, err = ResizeGroupsChildSideUniform(proc, m, 2, densearray.Of(some(0), some(0), some(0), none()))
	require.Contains(t, err.Error(), "duplicate offsets in the same group")
	_, _, err = ResizeGroupsChildSide(proc, m, ints(1), offsets)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrSizeNotMatch))
	_, _, err = ResizeGroupsChildSideUniform(proc, m, -1, offsets)
	require.Contains(t, err.Error(), "new_size can not be negative")
}
