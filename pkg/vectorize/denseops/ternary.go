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

	"github.com/matrixorigin/arolla/pkg/common/mpool"
	"github.com/matrixorigin/arolla/pkg/container/buffer"
	"github.com/matrixorigin/arolla/pkg/container/densearray"
	"github.com/matrixorigin/arolla/pkg/container/optional"
)

type TernaryOp[A, B, C, R any] struct {
	opMeta
	fn           func(A, B, C) R
	row          func(ga densearray.Getter[A], gb densearray.Getter[B], gc densearray.Getter[C]) groupFn[R]
	optionalArgs bool
}

func newTernaryMeta[A, B, C, R any](flags Flags, s shape, optionalArgs bool, f mpool.Factory) opMeta {
	return newMeta(3, flags, s, optionalArgs, f, typeOf[A](), typeOf[B](), typeOf[C](), typeOf[R]())
}

func NewTernaryOp[A, B, C, R any](fn func(A, B, C) R, flags Flags, f mpool.Factory) *TernaryOp[A, B, C, R] {
	return &TernaryOp[A, B, C, R]{
		opMeta: newTernaryMeta[A, B, C, R](flags, plainResult, false, f),
		fn:     fn,
		row: func(ga densearray.Getter[A], gb densearray.Getter[B], gc densearray.Getter[C]) groupFn[R] {
			return func(i int) (R, bool, error) {
				return fn(ga.Value(i), gb.Value(i), gc.Value(i)), true, nil
			}
		},
	}
}

func NewTernaryOpWithErrorCheck[A, B, C, R any](fn func(A, B, C) (R, error), flags Flags, f mpool.Factory) *TernaryOp[A, B, C, R] {
	return &TernaryOp[A, B, C, R]{
		opMeta: newTernaryMeta[A, B, C, R](flags, errorResult, false, f),
		row: func(ga densearray.Getter[A], gb densearray.Getter[B], gc densearray.Getter[C]) groupFn[R] {
			return func(i int) (R, bool, error) {
				v, err := fn(ga.Value(i), gb.Value(i), gc.Value(i))
				return v, true, err
			}
		},
	}
}

func NewTernaryOpOptional[A, B, C, R any](fn func(A, B, C) (R, bool), flags Flags, f mpool.Factory) *TernaryOp[A, B, C, R] {
	return &TernaryOp[A, B, C, R]{
		opMeta: newTernaryMeta[A, B, C, R](flags, optionalResult, false, f),
		row: func(ga densearray.Getter[A], gb densearray.Getter[B], gc densearray.Getter[C]) groupFn[R] {
			return func(i int) (R, bool, error) {
				v, ok := fn(ga.Value(i), gb.Value(i), gc.Value(i))
				return v, ok, nil
			}
		},
	}
}

func NewTernaryOpOnOptional[A, B, C, R any](
	fn func(optional.Value[A], optional.Value[B], optional.Value[C]) (R, bool), flags Flags, f mpool.Factory,
) *TernaryOp[A, B, C, R] {
	return &TernaryOp[A, B, C, R]{
		opMeta: newTernaryMeta[A, B, C, R](flags, optionalResult, true, f),
		row: func(ga densearray.Getter[A], gb densearray.Getter[B], gc densearray.Getter[C]) groupFn[R] {
			return func(i int) (R, bool, error) {
				v, ok := fn(ga.Optional(i), gb.Optional(i), gc.Optional(i))
				return v, ok, nil
			}
		},
		optionalArgs: true,
	}
}

func (op *TernaryOp[A, B, C, R]) Eval(
	ctx context.Context, a densearray.DenseArray[A], b densearray.DenseArray[B], c densearray.DenseArray[C],
) (densearray.DenseArray[R], error) {
	if err := op.validate(ctx, a.Size(), b.Size(), c.Size()); err != nil {
		return densearray.DenseArray[R]{}, err
	}
	op.observe()
	if op.strategy == SimpleStrategy {
		op.checkOffsets(a.BitmapBitOffset, b.BitmapBitOffset, c.BitmapBitOffset)
		vb := buffer.NewBuilder[R](a.Size(), op.factory)
		out := vb.MutableSpan()
		xa, xb, xc := a.Values.Span(), b.Values.Span(), c.Values.Span()
		for i := range out {
			out[i] = op.fn(xa[i], xb[i], xc[i])
		}
		p := intersectPresence(op.factory, presenceOf(a), presenceOf(b), presenceOf(c))
		return withPresence(vb.Build(), p), nil
	}
	var gates []densearray.PresenceSource
	if !op.optionalArgs {
		gates = append(gates, a, b, c)
	}
	return runUniversal(a.Size(), op.flags, op.shape, op.factory, gates, func(w int) groupFn[R] {
		return op.row(
			densearray.MakeGetter(a, w, op.optionalArgs),
			densearray.MakeGetter(b, w, op.optionalArgs),
			densearray.MakeGetter(c, w, op.optionalArgs),
		)
	})
}
