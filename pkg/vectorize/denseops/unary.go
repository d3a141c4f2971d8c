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

type UnaryOp[A, R any] struct {
	opMeta
	fn          func(A) R
	row         func(ga densearray.Getter[A]) groupFn[R]
	optionalArg bool
}

// NewUnaryOp lifts fn. Missing rows stay missing.
func NewUnaryOp[A, R any](fn func(A) R, flags Flags, f mpool.Factory) *UnaryOp[A, R] {
	return &UnaryOp[A, R]{
		opMeta: newMeta(1, flags, plainResult, false, f, typeOf[A](), typeOf[R]()),
		fn:     fn,
		row: func(ga densearray.Getter[A]) groupFn[R] {
			return func(i int) (R, bool, error) {
				return fn(ga.Value(i)), true, nil
			}
		},
	}
}

// NewUnaryOpWithErrorCheck lifts a function that may fail. The first error
// aborts Eval.
func NewUnaryOpWithErrorCheck[A, R any](fn func(A) (R, error), flags Flags, f mpool.Factory) *UnaryOp[A, R] {
	return &UnaryOp[A, R]{
		opMeta: newMeta(1, flags, errorResult, false, f, typeOf[A](), typeOf[R]()),
		row: func(ga densearray.Getter[A]) groupFn[R] {
			return func(i int) (R, bool, error) {
				v, err := fn(ga.Value(i))
				return v, true, err
			}
		},
	}
}

// NewUnaryOpOptional lifts a function that may return missing.
func NewUnaryOpOptional[A, R any](fn func(A) (R, bool), flags Flags, f mpool.Factory) *UnaryOp[A, R] {
	return &UnaryOp[A, R]{
		opMeta: newMeta(1, flags, optionalResult, false, f, typeOf[A](), typeOf[R]()),
		row: func(ga densearray.Getter[A]) groupFn[R] {
			return func(i int) (R, bool, error) {
				v, ok := fn(ga.Value(i))
				return v, ok, nil
			}
		},
	}
}

// NewUnaryOpOnOptional lifts a function that sees missing arguments, so it
// runs on every row.
func NewUnaryOpOnOptional[A, R any](fn func(optional.Value[A]) (R, bool), flags Flags, f mpool.Factory) *UnaryOp[A, R] {
	return &UnaryOp[A, R]{
		opMeta: newMeta(1, flags, optionalResult, true, f, typeOf[A](), typeOf[R]()),
		row: func(ga densearray.Getter[A]) groupFn[R] {
			return func(i int) (R, bool, error) {
				v, ok := fn(ga.Optional(i))
				return v, ok, nil
			}
		},
		optionalArg: true,
	}
}

func (op *UnaryOp[A, R]) Eval(_ context.Context, a densearray.DenseArray[A]) (densearray.DenseArray[R], error) {
	op.observe()
	if op.strategy == UnaryStrategy {
		op.checkOffsets(a.BitmapBitOffset)
		b := buffer.NewBuilder[R](a.Size(), op.factory)
		out := b.MutableSpan()
		for i, v := range a.Values.Span() {
			out[i] = op.fn(v)
		}
		return withPresence(b.Build(), presenceOf(a)), nil
	}
	var gates []densearray.PresenceSource
	if !op.optionalArg {
		gates = append(gates, a)
	}
	return runUniversal(a.Size(), op.flags, op.shape, op.factory, gates, func(w int) groupFn[R] {
		return op.row(densearray.MakeGetter(a, w, op.optionalArg))
	})
}
