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
	"strconv"

	"github.com/matrixorigin/arolla/pkg/common/moerr"
	"github.com/matrixorigin/arolla/pkg/common/mpool"
	"github.com/matrixorigin/arolla/pkg/container/buffer"
	"github.com/matrixorigin/arolla/pkg/container/densearray"
	"github.com/matrixorigin/arolla/pkg/container/optional"
)

// NaryOp applies fn to a fixed number of same-typed arrays. fn receives the
// row values in a slice that is reused between calls.
type NaryOp[T, R any] struct {
	opMeta
	arity        int
	fn           func([]T) R
	row          func(gs []densearray.Getter[T]) groupFn[R]
	optionalArgs bool
}

func naryMeta[T, R any](arity int, flags Flags, s shape, optionalArgs bool, f mpool.Factory) opMeta {
	return newMeta(arity, flags, s, optionalArgs, f, typeOf[T](), typeOf[R]())
}

func NewNaryOp[T, R any](arity int, fn func([]T) R, flags Flags, f mpool.Factory) *NaryOp[T, R] {
	return &NaryOp[T, R]{
		opMeta: naryMeta[T, R](arity, flags, plainResult, false, f),
		arity:  arity,
		fn:     fn,
		row: func(gs []densearray.Getter[T]) groupFn[R] {
			vs := make([]T, len(gs))
			return func(i int) (R, bool, error) {
				for k := range gs {
					vs[k] = gs[k].Value(i)
				}
				return fn(vs), true, nil
			}
		},
	}
}

func NewNaryOpWithErrorCheck[T, R any](arity int, fn func([]T) (R, error), flags Flags, f mpool.Factory) *NaryOp[T, R] {
	return &NaryOp[T, R]{
		opMeta: naryMeta[T, R](arity, flags, errorResult, false, f),
		arity:  arity,
		row: func(gs []densearray.Getter[T]) groupFn[R] {
			vs := make([]T, len(gs))
			return func(i int) (R, bool, error) {
				for k := range gs {
					vs[k] = gs[k].Value(i)
				}
				v, err := fn(vs)
				return v, true, err
			}
		},
	}
}

func NewNaryOpOptional[T, R any](arity int, fn func([]T) (R, bool), flags Flags, f mpool.Factory) *NaryOp[T, R] {
	return &NaryOp[T, R]{
		opMeta: naryMeta[T, R](arity, flags, optionalResult, false, f),
		arity:  arity,
		row: func(gs []densearray.Getter[T]) groupFn[R] {
			vs := make([]T, len(gs))
			return func(i int) (R, bool, error) {
				for k := range gs {
					vs[k] = gs[k].Value(i)
				}
				v, ok := fn(vs)
				return v, ok, nil
			}
		},
	}
}

func NewNaryOpOnOptional[T, R any](arity int, fn func([]optional.Value[T]) (R, bool), flags Flags, f mpool.Factory) *NaryOp[T, R] {
	return &NaryOp[T, R]{
		opMeta: naryMeta[T, R](arity, flags, optionalResult, true, f),
		arity:  arity,
		row: func(gs []densearray.Getter[T]) groupFn[R] {
			vs := make([]optional.Value[T], len(gs))
			return func(i int) (R, bool, error) {
				for k := range gs {
					vs[k] = gs[k].Optional(i)
				}
				v, ok := fn(vs)
				return v, ok, nil
			}
		},
		optionalArgs: true,
	}
}

func (op *NaryOp[T, R]) Arity() int {
	return op.arity
}

func (op *NaryOp[T, R]) Eval(ctx context.Context, args ...densearray.DenseArray[T]) (densearray.DenseArray[R], error) {
	if len(args) != op.arity || op.arity == 0 {
		return densearray.DenseArray[R]{}, moerr.NewInvalidArg(ctx, "argument count", strconv.Itoa(len(args)))
	}
	sizes := make([]int, len(args))
	for i := range args {
		sizes[i] = args[i].Size()
	}
	if err := op.validate(ctx, sizes...); err != nil {
		return densearray.DenseArray[R]{}, err
	}
	op.observe()
	size := sizes[0]
	if op.strategy != UniversalStrategy {
		ps := make([]presence, len(args))
		spans := make([][]T, len(args))
		for k := range args {
			op.checkOffsets(args[k].BitmapBitOffset)
			ps[k] = presenceOf(args[k])
			spans[k] = args[k].Values.Span()
		}
		vb := buffer.NewBuilder[R](size, op.factory)
		out := vb.MutableSpan()
		vs := make([]T, len(args))
		for i := range out {
			for k := range spans {
				vs[k] = spans[k][i]
			}
			out[i] = op.fn(vs)
		}
		return withPresence(vb.Build(), intersectPresence(op.factory, ps...)), nil
	}
	var gates []densearray.PresenceSource
	if !op.optionalArgs {
		for k := range args {
			gates = append(gates, args[k])
		}
	}
	gs := make([]densearray.Getter[T], len(args))
	return runUniversal(size, op.flags, op.shape, op.factory, gates, func(w int) groupFn[R] {
		for k := range args {
			gs[k] = densearray.MakeGetter(args[k], w, op.optionalArgs)
		}
		return op.row(gs)
	})
}
