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

// Package buffer provides Buffer, an immutable shareable run of values, and
// the builders that produce it.
//
// A Buffer never copies on Slice or ShallowCopy. It records whether it owns
// its storage: memory from an arena factory is borrowed and only valid while
// the arena lives, so such buffers must be deep copied before they escape.
package buffer

import (
	"github.com/matrixorigin/arolla/pkg/common/mpool"
)

type Buffer[T any] struct {
	data  []T
	owned bool
}

// Make wraps data as an owned buffer. The caller must not modify data
// afterwards.
func Make[T any](data []T) Buffer[T] {
	return Buffer[T]{data: data, owned: true}
}

// MakeUnowned wraps data without taking ownership.
func MakeUnowned[T any](data []T) Buffer[T] {
	return Buffer[T]{data: data}
}

// Of builds an owned buffer holding a copy of values.
func Of[T any](values ...T) Buffer[T] {
	data := make([]T, len(values))
	copy(data, values)
	return Make(data)
}

// CreateConst returns a buffer of n copies of v.
func CreateConst[T any](n int, v T, f mpool.Factory) Buffer[T] {
	b := NewBuilder[T](n, f)
	b.SetNConst(0, n, v)
	return b.Build()
}

func (b Buffer[T]) Size() int {
	return len(b.data)
}

func (b Buffer[T]) Empty() bool {
	return len(b.data) == 0
}

func (b Buffer[T]) At(i int) T {
	return b.data[i]
}

// Span is a read-only view of the values.
func (b Buffer[T]) Span() []T {
	return b.data
}

// IsOwner reports whether the buffer may outlive the factory it came from.
func (b Buffer[T]) IsOwner() bool {
	return b.owned || len(b.data) == 0
}

// Slice shares the storage of b.
func (b Buffer[T]) Slice(start, count int) Buffer[T] {
	return Buffer[T]{data: b.data[start : start+count : start+count], owned: b.owned}
}

// ShallowCopy shares the storage of b and drops ownership.
func (b Buffer[T]) ShallowCopy() Buffer[T] {
	return Buffer[T]{data: b.data}
}

// DeepCopy copies the values into storage from f.
func (b Buffer[T]) DeepCopy(f mpool.Factory) Buffer[T] {
	if len(b.data) == 0 {
		return Buffer[T]{owned: true}
	}
	data := mpool.MakeSlice[T](f, len(b.data))
	copy(data, b.data)
	return Buffer[T]{data: data, owned: mpool.OwnsSlices[T](f)}
}

// Equal compares two buffers element by element.
func Equal[T comparable](a, b Buffer[T]) bool {
	if len(a.data) != len(b.data) {
		return false
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			return false
		}
	}
	return true
}
