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
	"runtime"
	"sync"
	"time"

	"github.com/matrixorigin/arolla/pkg/common/bitmap"
	"github.com/matrixorigin/arolla/pkg/common/moerr"
	"github.com/matrixorigin/arolla/pkg/common/mpool"
	"github.com/matrixorigin/arolla/pkg/container/densearray"
	"github.com/matrixorigin/arolla/pkg/logutil"
	v2 "github.com/matrixorigin/arolla/pkg/util/metric/v2"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// DefaultChunkRows is the chunk size used when a Runner is created with a
// non-positive chunk size.
var DefaultChunkRows = 64 << 10

// Runner splits large evaluations into word aligned chunks and runs them on
// a goroutine pool.
type Runner struct {
	pool      *ants.Pool
	chunkRows int
	factory   mpool.Factory
}

func NewRunner(workers, chunkRows int, f mpool.Factory) (*Runner, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if chunkRows <= 0 {
		chunkRows = DefaultChunkRows
	}
	// chunks start on word boundaries so slices keep bit offset 0
	chunkRows = (chunkRows + bitmap.WordBits - 1) / bitmap.WordBits * bitmap.WordBits
	if f == nil {
		f = mpool.GetDefaultFactory()
	}
	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(v interface{}) {
		logutil.Error("denseops runner task panic", zap.Any("panic", v))
	}))
	if err != nil {
		return nil, moerr.NewInternalErrorNoCtx("create runner pool: %v", err)
	}
	return &Runner{pool: pool, chunkRows: chunkRows, factory: f}, nil
}

func (r *Runner) ChunkRows() int {
	return r.chunkRows
}

func (r *Runner) Workers() int {
	return r.pool.Cap()
}

func (r *Runner) Close() {
	r.pool.Release()
}

// RunChunked evaluates rows [0, size) in chunks. eval gets the start row and
// the row count of its chunk and must return an array of that size. The
// chunk results are concatenated in order. The first error wins and no
// partial result is returned.
func RunChunked[R any](
	ctx context.Context,
	r *Runner,
	size int,
	eval func(ctx context.Context, start, count int) (densearray.DenseArray[R], error),
) (densearray.DenseArray[R], error) {
	if size <= r.chunkRows {
		return eval(ctx, 0, size)
	}
	start := time.Now()
	defer func() {
		v2.DenseOpsParallelDurationHistogram.Observe(time.Since(start).Seconds())
	}()

	n := (size + r.chunkRows - 1) / r.chunkRows
	results := make([]densearray.DenseArray[R], n)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			setErr(err)
			break
		}
		i := i
		from := i * r.chunkRows
		count := min(r.chunkRows, size-from)
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if e := recover(); e != nil {
					setErr(moerr.ConvertPanicError(ctx, e))
				}
			}()
			if failed() {
				return
			}
			res, err := eval(ctx, from, count)
			if err != nil {
				setErr(err)
				return
			}
			results[i] = res
		})
		if err != nil {
			wg.Done()
			setErr(moerr.NewInternalError(ctx, "submit chunk: %v", err))
			break
		}
		v2.DenseOpsParallelChunksCounter.Inc()
		v2.DenseOpsParallelRowsCounter.Add(float64(count))
	}
	wg.Wait()
	if firstErr != nil {
		logutil.WarnCtx(ctx, "chunked evaluation failed", zap.Int("rows", size), zap.Error(firstErr))
		return densearray.DenseArray[R]{}, firstErr
	}
	return densearray.Concat(r.factory, results...), nil
}

// EvalBinary runs op over a and b chunk by chunk.
func EvalBinary[A, B, R any](
	ctx context.Context, r *Runner, op *BinaryOp[A, B, R], a densearray.DenseArray[A], b densearray.DenseArray[B],
) (densearray.DenseArray[R], error) {
	if err := op.validate(ctx, a.Size(), b.Size()); err != nil {
		return densearray.DenseArray[R]{}, err
	}
	return RunChunked(ctx, r, a.Size(), func(ctx context.Context, start, count int) (densearray.DenseArray[R], error) {
		return op.Eval(ctx, a.Slice(start, count), b.Slice(start, count))
	})
}

func EvalUnary[A, R any](ctx context.Context, r *Runner, op *UnaryOp[A, R], a densearray.DenseArray[A]) (densearray.DenseArray[R], error) {
	return RunChunked(ctx, r, a.Size(), func(ctx context.Context, start, count int) (densearray.DenseArray[R], error) {
		return op.Eval(ctx, a.Slice(start, count))
	})
}
