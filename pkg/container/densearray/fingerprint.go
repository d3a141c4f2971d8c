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
	"encoding/binary"
	"fmt"
	"reflect"
	"unsafe"

	"github.com/RoaringBitmap/roaring"
	"github.com/cespare/xxhash/v2"

	"github.com/matrixorigin/arolla/pkg/common/bitmap"
	"github.com/matrixorigin/arolla/pkg/common/mpool"
)

// Fingerprint hashes the logical content of a: its size, the presence of
// every element and the values of the present ones. Equivalent arrays get
// the same fingerprint whatever their bitmap layout.
func Fingerprint[T any](a DenseArray[T]) uint64 {
	h := xxhash.New()
	var scratch [8]byte
	binary.LittleEndian.PutUint64(scratch[:], uint64(a.Size()))
	_, _ = h.Write(scratch[:])

	encode := NewValueEncoder[T]()
	buf := make([]byte, 0, 64)
	missing, present := []byte{0}, []byte{1}
	a.ForEach(func(_ int, ok bool, v T) {
		if !ok {
			_, _ = h.Write(missing)
			return
		}
		_, _ = h.Write(present)
		buf = encode(buf[:0], v)
		_, _ = h.Write(buf)
	})
	return h.Sum64()
}

// NewValueEncoder returns a function appending an unambiguous byte form of
// a value to dst. Strings and byte slices are length prefixed, plain old
// data is copied raw and anything else is printed.
func NewValueEncoder[T any]() func(dst []byte, v T) []byte {
	pod := mpool.IsPOD(reflect.TypeOf((*T)(nil)).Elem())
	return func(dst []byte, v T) []byte {
		switch x := any(v).(type) {
		case string:
			dst = binary.LittleEndian.AppendUint64(dst, uint64(len(x)))
			return append(dst, x...)
		case []byte:
			dst = binary.LittleEndian.AppendUint64(dst, uint64(len(x)))
			return append(dst, x...)
		default:
			if pod {
				return append(dst, unsafe.Slice((*byte)(unsafe.Pointer(&v)), unsafe.Sizeof(v))...)
			}
			return fmt.Append(dst, v)
		}
	}
}

// PresenceSet returns the indices of the present elements.
func (a DenseArray[T]) PresenceSet() *roaring.Bitmap {
	return bitmap.ToRoaring(a.Bitmap, a.BitmapBitOffset, a.Size())
}

// PresentIndices returns an iterator over the indices of present elements.
func (a DenseArray[T]) PresentIndices() bitmap.Iterator {
	return bitmap.NewIterator(a.Bitmap, a.BitmapBitOffset, a.Size())
}
