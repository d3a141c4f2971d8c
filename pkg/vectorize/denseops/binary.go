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

type BinaryOp[A, B, R any] struct {
	opMeta
	fn           func(A, B) R
	row          func(ga densearray.Getter[A], gb densearray.Getter[B]) groupFn[R]
	optionalArgs bool
}

func NewBinaryOp[A, B, R any](fn func(A, B) R, flags Flags, f mpool.Factory) *BinaryOp[A, B, R] {
	return &BinaryOp[A, B, R]{
		opMeta: newMeta(2, flags, plainResult, false, f, typeOf[A](), typeOf[B](), typeOf[R]()),
		fn:     fn,
		row: func(ga densearray.Getter[A], gb densearray.Getter[B]) groupFn[R] {
			return func(i int) (R, bool, error) {
				return fn(ga.Value(i), gb.Value(i)), true, nil
			}
		},
	}
}

func NewBinaryOpWithErrorCheck[A, B, R any](fn func(A, B) (R, error), flags Flags, f mpool.Factory) *BinaryOp[A, B, R] {
	return &BinaryOp[A, B, R]{
		opMeta: newMeta(2, flags, errorResult, false, f, typeOf[A](), typeOf[B](), typeOf[R]()),
		row: func(ga densearray.Getter[A], gb densearray.Getter[B]) groupFn[R] {
			return func(i int) (R, bool, error) {
				v, err := fn(ga.Value(i), gb.Value(i))
				return v, true, err
			}
		},
	}
}

func NewBinaryOpOptional[A, B, R any](fn func(A, B) (R, bool), flags Flags, f mpool.Factory) *BinaryOp[A, B, R] {
	return &BinaryOp[A, B, R]{
		opMeta: newMeta(2, flags, optionalResult, false, f, typeOf[A](), typeOf[B](), typeOf[R]()),
		row: func(ga densearray.Getter[A], gb densearray.Getter[B]) groupFn[R] {
			return func(i int) (R, bool, error) {
				v, ok := fn(ga.Value(i), gb.Value(i))
				return v, ok, nil
			}
		},
	}
}

func NewBinaryOpOnOptional[A, B, R any](fn func(optional.Value[A], optional.Value[B]) (R, bool), flags Flags, f mpool.Factory) *BinaryOp[A, B, R] {
	return &BinaryOp[A, B, R]{
		opMeta: newMeta(2, flags, optionalResult, true, f, typeOf[A](), typeOf[B](), typeOf[R]()),
		row: func(ga densearray.Getter[A], gb densearray.Getter[B]) groupFn[R] {
			return func(i int) (R, bool, error) {
				v, ok := fn(ga.Optional(i), gb.Optional(i))
				return v, ok, nil
			}
		},
		optionalArgs: true,
	}
}

// Eval applies the op row by row. a and b must have the same size unless
// NoSizeValidation is set.
func (op *BinaryOp[A, B, R]) Eval(ctx context.Context, a densearray.DenseArray[A], b densearray.DenseArray[B]) (densearray.DenseArray[R], error) {
	if err := op.validate(ctx, a.Size(), b.Size()); err != nil {
		return densearray.DenseArray[R]{}, err
	}
	op.observe()
	if op.strategy == BinaryStrategy {
		op.checkOffsets(a.BitmapBitOffset, b.BitmapBitOffset)
		vb := buffer.NewBuilder[R](a.Size(), op.factory)
		out := vb.MutableSpan()
		xa, xb := a.Values.Span(), b.Values.Span()
		for i := range out {
			out[i] = op.fn(xa[i], xb[i])
		}
		return withPresence(vb.Build(), intersectPresence(op.factory, presenceOf(a), presenceOf(b))), nil
	}
	var gates []densearray.PresenceSource
	if !op.optionalArgs {
		gates = append(gates, a, b)
	}
	return runUniversal(a.Size(), op.flags, op.shape, op.factory, gates, func(w int) groupFn[R] {
		return op.row(
			densearray.MakeGetter(a, w, op.optionalArgs),
			densearray.MakeGetter(b, w, op.optionalArgs),
		)
	})
}
