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
	"math/bits"

	"github.com/matrixorigin/arolla/pkg/common/bitmap"
	"github.com/matrixorigin/arolla/pkg/common/invariants"
	"github.com/matrixorigin/arolla/pkg/common/moerr"
	"github.com/matrixorigin/arolla/pkg/common/mpool"
	"github.com/matrixorigin/arolla/pkg/container/buffer"
	"github.com/matrixorigin/arolla/pkg/container/densearray"
	v2 "github.com/matrixorigin/arolla/pkg/util/metric/v2"
)

// groupFn evaluates in-group row i. present is false when an optional
// result is missing.
type groupFn[R any] func(i int) (v R, present bool, err error)

// ValidateSizes returns a size mismatch error listing every size unless all
// are equal.
func ValidateSizes(ctx context.Context, sizes ...int) error {
	for _, s := range sizes[1:] {
		if s != sizes[0] {
			xs := make([]int64, len(sizes))
			for i, s := range sizes {
				xs[i] = int64(s)
			}
			return moerr.NewArgumentSizesMismatch(ctx, xs...)
		}
	}
	return nil
}

func (m *opMeta) validate(ctx context.Context, sizes ...int) error {
	if m.flags.has(NoSizeValidation) {
		if invariants.Enabled {
			invariants.Check(ValidateSizes(ctx, sizes...) == nil, "argument sizes mismatch: %v", sizes)
		}
		return nil
	}
	return ValidateSizes(ctx, sizes...)
}

func (m *opMeta) observe() {
	switch m.strategy {
	case UnaryStrategy:
		v2.DenseOpsUnaryCounter.Inc()
	case BinaryStrategy:
		v2.DenseOpsBinaryCounter.Inc()
	case SimpleStrategy:
		v2.DenseOpsSimpleCounter.Inc()
	default:
		v2.DenseOpsUniversalCounter.Inc()
	}
}

func (m *opMeta) checkOffsets(offsets ...int) {
	if !invariants.Enabled || !m.flags.has(NoBitmapOffset) {
		return
	}
	for _, off := range offsets {
		invariants.Check(off == 0, "NoBitmapOffset is set but an argument has bit offset %d", off)
	}
}

// runUniversal evaluates size rows group by group. Groups where a gating
// argument is missing on every row are skipped. fn runs on present rows
// only, or on every row of a visited group when RunOnMissing is set and the
// result is plain. The first error aborts the evaluation.
func runUniversal[R any](
	size int,
	flags Flags,
	s shape,
	f mpool.Factory,
	gates []densearray.PresenceSource,
	initGroup func(wordID int) groupFn[R],
) (densearray.DenseArray[R], error) {
	vb := buffer.NewBuilder[R](size, f)
	values := vb.MutableSpan()
	bb := buffer.NewBuilder[bitmap.Word](bitmap.BitmapSize(size), f)
	words := bb.MutableSpan()

	callAll := flags.has(RunOnMissing) && s == plainResult
	allPresent := true
	for w := 0; w*bitmap.WordBits < size; w++ {
		offset := w * bitmap.WordBits
		n := min(bitmap.WordBits, size-offset)
		full := densearray.GroupMask(n)
		mask := densearray.IntersectMasks(w, gates...) & full
		if mask == 0 {
			words[w] = 0
			allPresent = false
			continue
		}
		fn := initGroup(w)
		out := values[offset : offset+n]
		if callAll {
			for i := range out {
				out[i], _, _ = fn(i)
			}
		} else {
			for m := mask; m != 0; m &= m - 1 {
				i := bits.TrailingZeros32(m)
				v, present, err := fn(i)
				if err != nil {
					return densearray.DenseArray[R]{}, err
				}
				if !present {
					mask &^= bitmap.Word(1) << i
					continue
				}
				out[i] = v
			}
		}
		words[w] = mask
		allPresent = allPresent && mask == full
	}
	if allPresent {
		return densearray.DenseArray[R]{Values: vb.Build()}, nil
	}
	return densearray.DenseArray[R]{Values: vb.Build(), Bitmap: bb.Build()}, nil
}

// presence is the bitmap part of an argument.
type presence struct {
	bitmap bitmap.Bitmap
	offset int
}

func presenceOf[T any](a densearray.DenseArray[T]) presence {
	return presence{bitmap: a.Bitmap, offset: a.BitmapBitOffset}
}

// intersectPresence ANDs the bitmaps of the arguments. Empty bitmaps are
// skipped; a single non-empty one is reused as is.
func intersectPresence(f mpool.Factory, ps ...presence) presence {
	var res presence
	for _, p := range ps {
		if p.bitmap.Empty() {
			continue
		}
		if res.bitmap.Empty() {
			res = p
			continue
		}
		n := min(res.bitmap.Size(), p.bitmap.Size())
		b := buffer.NewBuilder[bitmap.Word](n, f)
		bitmap.IntersectWithOffsets(res.bitmap.Span(), p.bitmap.Span(), res.offset, p.offset, b.MutableSpan())
		res = presence{bitmap: b.Build(), offset: min(res.offset, p.offset)}
	}
	return res
}

func withPresence[R any](values buffer.Buffer[R], p presence) densearray.DenseArray[R] {
	return densearray.DenseArray[R]{Values: values, Bitmap: p.bitmap, BitmapBitOffset: p.offset}
}
