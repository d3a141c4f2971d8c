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

package denseops

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/arolla/pkg/common/moerr"
	"github.com/matrixorigin/arolla/pkg/common/mpool"
	"github.com/matrixorigin/arolla/pkg/container/densearray"
	"github.com/matrixorigin/arolla/pkg/container/optional"
	v2 "github.com/matrixorigin/arolla/pkg/util/metric/v2"
)

var (
	some = optional.Some[int]
	none = optional.None[int]
)

func randomArray(r *rand.Rand, n int) densearray.DenseArray[int] {
	data := make([]optional.Value[int], n)
	for i := range data {
		data[i] = optional.Of(r.Intn(1000), r.Intn(4) != 0)
	}
	return densearray.CreateDenseArray(data, nil)
}

func requireEquivalent[T comparable](t *testing.T, want, got densearray.DenseArray[T]) {
	t.Helper()
	require.Equal(t, want.ToOptionals(), got.ToOptionals())
	require.True(t, got.CheckBitmapMatchesValues())
}

func TestAddMissingPropagation(t *testing.T) {
	ctx := context.Background()
	a := densearray.Of(some(1), none(), some(2), some(3))
	b := densearray.Of(some(3), some(6), none(), some(2))
	want := densearray.Of(some(4), none(), none(), some(5))

	fast := NewBinaryOp(Add[int], RunOnMissing, nil)
	require.Equal(t, BinaryStrategy, fast.Strategy())
	res, err := fast.Eval(ctx, a, b)
	require.NoError(t, err)
	requireEquivalent(t, want, res)

	slow := NewBinaryOp(Add[int], 0, nil)
	require.Equal(t, UniversalStrategy, slow.Strategy())
	res, err = slow.Eval(ctx, a, b)
	require.NoError(t, err)
	requireEquivalent(t, want, res)
}

func TestSelectStrategy(t *testing.T) {
	require.Equal(t, UnaryStrategy, NewUnaryOp(Neg[int], RunOnMissing, nil).Strategy())
	require.Equal(t, UniversalStrategy, NewUnaryOp(Neg[int], 0, nil).Strategy())
	require.Equal(t, UniversalStrategy, NewBinaryOpOptional(SafeDiv[int], RunOnMissing, nil).Strategy())
	require.Equal(t, UniversalStrategy, NewBinaryOpWithErrorCheck(CheckedAddSigned[int], RunOnMissing, nil).Strategy())

	concat := func(a, b string) string { return a + b }
	require.Equal(t, UniversalStrategy, NewBinaryOp(concat, RunOnMissing, nil).Strategy())

	sum3 := func(a, b, c int) int { return a + b + c }
	require.Equal(t, SimpleStrategy, NewTernaryOp(sum3, RunOnMissing|NoBitmapOffset, nil).Strategy())
	require.Equal(t, UniversalStrategy, NewTernaryOp(sum3, RunOnMissing, nil).Strategy())

	coalesce := func(a, b optional.Value[int]) (int, bool) { return a.OrElse(b.Value()), a.Present() || b.Present() }
	require.Equal(t, UniversalStrategy, NewBinaryOpOnOptional(coalesce, RunOnMissing, nil).Strategy())
	require.Equal(t, "simple", SimpleStrategy.String())
}

func TestFastPathsMatchUniversal(t *testing.T) {
	ctx := context.Background()
	r := rand.New(rand.NewSource(42))
	for iter := 0; iter < 20; iter++ {
		n := 1 + r.Intn(200)
		a := randomArray(r, n+40).Slice(r.Intn(40), n)
		b := randomArray(r, n+40).Slice(r.Intn(40), n)

		fast, err := NewBinaryOp(Mul[int], RunOnMissing, nil).Eval(ctx, a, b)
		require.NoError(t, err)
		slow, err := NewBinaryOp(Mul[int], 0, nil).Eval(ctx, a, b)
		require.NoError(t, err)
		requireEquivalent(t, slow, fast)
		for i := 0; i < n; i++ {
			va, vb := a.Get(i), b.Get(i)
			if va.Present() && vb.Present() {
				require.Equal(t, some(va.Value()*vb.Value()), fast.Get(i))
			} else {
				require.False(t, fast.Present(i))
			}
		}

		ufast, err := NewUnaryOp(Neg[int], RunOnMissing, nil).Eval(ctx, a)
		require.NoError(t, err)
		uslow, err := NewUnaryOp(Neg[int], 0, nil).Eval(ctx, a)
		require.NoError(t, err)
		requireEquivalent(t, uslow, ufast)

		x, y, z := randomArray(r, n), randomArray(r, n), randomArray(r, n)
		sum3 := func(a, b, c int) int { return a + b + c }
		tfast, err := NewTernaryOp(sum3, RunOnMissing|NoBitmapOffset, nil).Eval(ctx, x, y, z)
		require.NoError(t, err)
		tslow, err := NewTernaryOp(sum3, 0, nil).Eval(ctx, x, y, z)
		require.NoError(t, err)
		requireEquivalent(t, tslow, tfast)
	}
}

func TestRunOnMissingOnFullInputs(t *testing.T) {
	ctx := context.Background()
	a := densearray.CreateFullDenseArray([]int{1, 2, 3, 4, 5}, nil)
	b := densearray.CreateFullDenseArray([]int{5, 4, 3, 2, 1}, nil)
	x, err := NewBinaryOp(Sub[int], RunOnMissing, nil).Eval(ctx, a, b)
	require.NoError(t, err)
	y, err := NewBinaryOp(Sub[int], 0, nil).Eval(ctx, a, b)
	require.NoError(t, err)
	require.True(t, densearray.ArraysAreEquivalent(x, y))
	require.True(t, y.Bitmap.Empty())
	require.Equal(t, []int{-4, -2, 0, 2, 4}, y.Values.Span())
}

func TestUniversalSkipsMissingGroups(t *testing.T) {
	ctx := context.Background()
	data := make([]optional.Value[int], 70)
	for i := range data {
		data[i] = optional.Of(i, i >= 32)
	}
	a := densearray.CreateDenseArray(data, nil)

	calls := 0
	op := NewUnaryOp(func(v int) int { calls++; return v * 2 }, 0, nil)
	res, err := op.Eval(ctx, a)
	require.NoError(t, err)
	require.Equal(t, 38, calls)
	require.Equal(t, 38, res.PresentCount())
	require.Equal(t, some(64), res.Get(32))
	require.False(t, res.Present(31))

	calls = 0
	sum3 := func(a, b, c int) int { calls++; return a + b + c }
	full := densearray.CreateConstDenseArray(70, 1, nil)
	res, err = NewTernaryOp(sum3, RunOnMissing, nil).Eval(ctx, a, full, full)
	require.NoError(t, err)
	// the first group is skipped, the other two run on every row
	require.Equal(t, 38, calls)
	require.Equal(t, some(42), res.Get(40))
}

func TestOptionalResult(t *testing.T) {
	ctx := context.Background()
	a := densearray.Of(some(6), some(4), none(), some(9))
	b := densearray.Of(some(3), some(0), some(1), none())
	res, err := NewBinaryOpOptional(SafeDiv[int], 0, nil).Eval(ctx, a, b)
	require.NoError(t, err)
	requireEquivalent(t, densearray.Of(some(2), none(), none(), none()), res)

	coalesce := func(a, b optional.Value[int]) (int, bool) {
		if a.Present() {
			return a.Value(), true
		}
		return b.Get()
	}
	res, err = NewBinaryOpOnOptional(coalesce, 0, nil).Eval(ctx, a, b)
	require.NoError(t, err)
	requireEquivalent(t, densearray.Of(some(6), some(4), some(1), some(9)), res)
	require.True(t, res.Bitmap.Empty())

	isMissing := func(a optional.Value[int]) (bool, bool) { return !a.Present(), true }
	flags, err := NewUnaryOpOnOptional(isMissing, 0, nil).Eval(ctx, a)
	require.NoError(t, err)
	require.Equal(t, []bool{false, false, true, false}, flags.Values.Span())
}

func TestErrorAbortsEvaluation(t *testing.T) {
	ctx := context.Background()
	data := make([]optional.Value[int8], 64)
	for i := range data {
		data[i] = optional.Some(int8(1))
	}
	data[40] = optional.Some(int8(math.MaxInt8))
	a := densearray.CreateDenseArray(data, nil)
	b := densearray.CreateConstDenseArray[int8](64, 1, nil)

	op := NewBinaryOpWithErrorCheck(CheckedAddSigned[int8], 0, nil)
	res, err := op.Eval(ctx, a, b)
	require.Error(t, err)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrOutOfRange))
	require.Equal(t, 0, res.Size())

	// a failing row that is missing is never evaluated
	data[40] = optional.None[int8]()
	res, err = op.Eval(ctx, densearray.CreateDenseArray(data, nil), b)
	require.NoError(t, err)
	require.Equal(t, 63, res.PresentCount())

	_, err = NewBinaryOpWithErrorCheck(CheckedDiv[int], 0, nil).Eval(ctx,
		densearray.Of(some(1)), densearray.Of(some(0)))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrDivByZero))
}

func TestSizeValidation(t *testing.T) {
	ctx := context.Background()
	a := densearray.Of(some(1), some(2), some(3))
	b := densearray.Of(some(1), some(2), some(3), some(4))
	_, err := NewBinaryOp(Add[int], RunOnMissing, nil).Eval(ctx, a, b)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrSizeNotMatch))
	require.Contains(t, err.Error(), "argument sizes mismatch: (3, 4)")

	sum3 := func(a, b, c int) int { return a + b + c }
	_, err = NewTernaryOp(sum3, 0, nil).Eval(ctx, a, a, b)
	require.Contains(t, err.Error(), "argument sizes mismatch: (3, 3, 4)")

	require.NoError(t, ValidateSizes(ctx, 5, 5, 5))
}

func TestNaryOp(t *testing.T) {
	ctx := context.Background()
	sum := func(vs []int) int {
		s := 0
		for _, v := range vs {
			s += v
		}
		return s
	}
	a := densearray.Of(some(1), some(2), none(), some(4))
	b := densearray.Of(some(10), none(), some(30), some(40))
	c := densearray.Of(some(100), some(200), some(300), some(400))
	want := densearray.Of(some(111), none(), none(), some(444))

	for _, flags := range []Flags{0, RunOnMissing, RunOnMissing | NoBitmapOffset} {
		op := NewNaryOp(3, sum, flags, nil)
		res, err := op.Eval(ctx, a, b, c)
		require.NoError(t, err)
		requireEquivalent(t, want, res)
	}

	_, err := NewNaryOp(3, sum, 0, nil).Eval(ctx, a, b)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))

	count := func(vs []optional.Value[int]) (int, bool) {
		n := 0
		for _, v := range vs {
			if v.Present() {
				n++
			}
		}
		return n, true
	}
	res, err := NewNaryOpOnOptional(3, count, 0, nil).Eval(ctx, a, b, c)
	require.NoError(t, err)
	require.Equal(t, []int{3, 2, 2, 3}, res.Values.Span())
}

func TestOpsOnArena(t *testing.T) {
	ctx := context.Background()
	arena := mpool.NewArenaFactory(0)
	defer arena.Close()
	a := densearray.Of(some(1), none(), some(3))
	res, err := NewUnaryOp(func(v int) int64 { return int64(v) * 10 }, 0, arena).Eval(ctx, a)
	require.NoError(t, err)
	require.False(t, res.IsOwned())
	require.Equal(t, []optional.Value[int64]{optional.Some[int64](10), optional.None[int64](), optional.Some[int64](30)}, res.ToOptionals())
	require.Greater(t, arena.AllocatedBytes(), int64(0))
}

func TestStrategyCounters(t *testing.T) {
	ctx := context.Background()
	before := testutil.ToFloat64(v2.DenseOpsBinaryCounter)
	a := densearray.Of(some(1))
	_, err := NewBinaryOp(Add[int], RunOnMissing, nil).Eval(ctx, a, a)
	require.NoError(t, err)
	require.Equal(t, before+1, testutil.ToFloat64(v2.DenseOpsBinaryCounter))
}
