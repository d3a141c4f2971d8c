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

package densearray

import (
	"github.com/matrixorigin/arolla/pkg/common/bitmap"
	"github.com/matrixorigin/arolla/pkg/common/mpool"
	"github.com/matrixorigin/arolla/pkg/container/buffer"
)

// Concat joins arrays end to end into storage from f.
func Concat[T any](f mpool.Factory, arrays ...DenseArray[T]) DenseArray[T] {
	size := 0
	full := true
	for _, a := range arrays {
		size += a.Size()
		full = full && a.Bitmap.Empty()
	}
	vb := buffer.NewBuilder[T](size, f)
	values := vb.MutableSpan()
	offset := 0
	for _, a := range arrays {
		offset += copy(values[offset:], a.Values.Span())
	}
	if full {
		return DenseArray[T]{Values: vb.Build()}
	}
	bb := bitmap.NewBuilder(size, f)
	for _, a := range arrays {
		n := a.Size()
		for w := 0; w*bitmap.WordBits < n; w++ {
			bb.AddWord(a.PresenceWord(w), min(bitmap.WordBits, n-w*bitmap.WordBits))
		}
	}
	return DenseArray[T]{Values: vb.Build(), Bitmap: bb.Build()}
}
