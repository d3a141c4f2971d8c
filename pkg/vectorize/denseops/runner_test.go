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
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/lni/goutils/leaktest"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/arolla/pkg/common/moerr"
	"github.com/matrixorigin/arolla/pkg/container/densearray"
)

func TestRunnerMatchesSequential(t *testing.T) {
	defer leaktest.AfterTest(t)()
	ctx := context.Background()
	r, err := NewRunner(4, 100, nil)
	require.NoError(t, err)
	defer r.Close()
	require.Equal(t, 128, r.ChunkRows())
	require.Equal(t, 4, r.Workers())

	rnd := rand.New(rand.NewSource(7))
	a := randomArray(rnd, 1000)
	b := randomArray(rnd, 1000)
	op := NewBinaryOp(Add[int], RunOnMissing, nil)

	want, err := op.Eval(ctx, a, b)
	require.NoError(t, err)
	got, err := EvalBinary(ctx, r, op, a, b)
	require.NoError(t, err)
	requireEquivalent(t, want, got)

	uwant, err := NewUnaryOp(Neg[int], 0, nil).Eval(ctx, a)
	require.NoError(t, err)
	ugot, err := EvalUnary(ctx, r, NewUnaryOp(Neg[int], 0, nil), a)
	require.NoError(t, err)
	requireEquivalent(t, uwant, ugot)
}

func TestRunnerFirstErrorWins(t *testing.T) {
	defer leaktest.AfterTest(t)()
	ctx := context.Background()
	r, err := NewRunner(2, 32, nil)
	require.NoError(t, err)
	defer r.Close()

	_, err = RunChunked(ctx, r, 320, func(_ context.Context, start, count int) (densearray.DenseArray[int], error) {
		if start == 64 {
			return densearray.DenseArray[int]{}, moerr.NewInvalidInputNoCtx("bad chunk %d", start)
		}
		return densearray.CreateConstDenseArray(count, start, nil), nil
	})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	_, err = RunChunked(ctx, r, 320, func(_ context.Context, start, count int) (densearray.DenseArray[int], error) {
		if start == 96 {
			panic("boom")
		}
		return densearray.CreateConstDenseArray(count, start, nil), nil
	})
	require.Error(t, err)

	_, err = EvalBinary(ctx, r, NewBinaryOp(Add[int], 0, nil), densearray.Of(some(1)), densearray.Of(some(1), some(2)))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrSizeNotMatch))
}

func TestRunnerCancelled(t *testing.T) {
	defer leaktest.AfterTest(t)()
	r, err := NewRunner(2, 32, nil)
	require.NoError(t, err)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = RunChunked(ctx, r, 100, func(_ context.Context, start, count int) (densearray.DenseArray[int], error) {
		return densearray.CreateConstDenseArray(count, 0, nil), nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunnerDefaultChunkRows(t *testing.T) {
	stubs := gostub.Stub(&DefaultChunkRows, 40)
	defer stubs.Reset()

	r, err := NewRunner(1, 0, nil)
	require.NoError(t, err)
	defer r.Close()
	require.Equal(t, 64, r.ChunkRows())

	var calls atomic.Int32
	res, err := RunChunked(context.Background(), r, 200, func(_ context.Context, start, count int) (densearray.DenseArray[int], error) {
		calls.Add(1)
		return densearray.CreateConstDenseArray(count, start, nil), nil
	})
	require.NoError(t, err)
	require.Equal(t, int32(4), calls.Load())
	require.Equal(t, 200, res.Size())
	require.Equal(t, some(192), res.Get(199))
}
