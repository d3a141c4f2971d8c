// Copyright 2022 Matrix Origin
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

package mpool

import (
	"reflect"
	"sync"
	"unsafe"
)

var podCache sync.Map // reflect.Type -> bool

// IsPOD reports whether values of t contain no Go pointers, so they may live
// in memory the garbage collector does not scan.
func IsPOD(t reflect.Type) bool {
	if v, ok := podCache.Load(t); ok {
		return v.(bool)
	}
	ret := isPOD(t)
	podCache.Store(t, ret)
	return ret
}

func isPOD(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || isPOD(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !isPOD(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MakeSlice returns a zeroed slice of n elements. Plain data is carved out of
// f; types holding pointers, or a nil f, fall back to the Go heap.
func MakeSlice[T any](f Factory, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	if f == nil || size == 0 || !IsPOD(reflect.TypeOf((*T)(nil)).Elem()) {
		return make([]T, n)
	}
	raw := f.Alloc(size * n)
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(raw))), n)
}

// OwnsSlices reports whether slices of T made by f are owned. Types that
// never touch f are always owned.
func OwnsSlices[T any](f Factory) bool {
	if f == nil || f.Owning() {
		return true
	}
	var zero T
	return unsafe.Sizeof(zero) == 0 || !IsPOD(reflect.TypeOf((*T)(nil)).Elem())
}
