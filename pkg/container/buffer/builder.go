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

package buffer

import (
	"github.com/matrixorigin/arolla/pkg/common/invariants"
	"github.com/matrixorigin/arolla/pkg/common/mpool"
	"github.com/matrixorigin/arolla/pkg/container/optional"
)

// Builder fills a fixed size buffer by random access. It is single writer,
// and must not be used after Build.
type Builder[T any] struct {
	data  []T
	owned bool
}

func NewBuilder[T any](size int, f mpool.Factory) *Builder[T] {
	if f == nil {
		f = mpool.GetDefaultFactory()
	}
	return &Builder[T]{
		data:  mpool.MakeSlice[T](f, size),
		owned: mpool.OwnsSlices[T](f),
	}
}

func (b *Builder[T]) Size() int {
	return len(b.data)
}

func (b *Builder[T]) Set(id int, v T) {
	invariants.CheckBounds(id, len(b.data))
	b.data[id] = v
}

func (b *Builder[T]) SetNConst(id, count int, v T) {
	s := b.data[id : id+count]
	for i := range s {
		s[i] = v
	}
}

func (b *Builder[T]) Get(id int) T {
	return b.data[id]
}

// MutableSpan exposes the storage for direct writes.
func (b *Builder[T]) MutableSpan() []T {
	return b.data
}

func (b *Builder[T]) Build() Buffer[T] {
	ret := Buffer[T]{data: b.data, owned: b.owned}
	b.data = nil
	return ret
}

// BuildN builds a buffer holding only the first n values.
func (b *Builder[T]) BuildN(n int) Buffer[T] {
	invariants.Check(n <= len(b.data), "BuildN(%d) on builder of size %d", n, len(b.data))
	ret := Buffer[T]{data: b.data[:n:n], owned: b.owned}
	b.data = nil
	return ret
}

// Inserter appends values to a builder from a cursor.
type Inserter[T any] struct {
	data []T
	pos  int
}

func (b *Builder[T]) GetInserter(offset int) *Inserter[T] {
	return &Inserter[T]{data: b.data, pos: offset}
}

func (it *Inserter[T]) Add(v T) {
	it.data[it.pos] = v
	it.pos++
}

// SkipN leaves the next n values untouched.
func (it *Inserter[T]) SkipN(n int) {
	it.pos += n
}

func (it *Inserter[T]) Index() int {
	return it.pos
}

// ReshuffleBuilder produces a new buffer whose values are picked from an
// old one by index. Positions never written hold the default value.
type ReshuffleBuilder[T any] struct {
	old     []T
	builder *Builder[T]
}

func NewReshuffleBuilder[T any](newSize int, old Buffer[T], def optional.Value[T], f mpool.Factory) *ReshuffleBuilder[T] {
	b := NewBuilder[T](newSize, f)
	if v, ok := def.Get(); ok {
		b.SetNConst(0, newSize, v)
	}
	return &ReshuffleBuilder[T]{old: old.data, builder: b}
}

func (r *ReshuffleBuilder[T]) CopyValue(newIndex, oldIndex int) {
	r.builder.data[newIndex] = r.old[oldIndex]
}

// CopyValueToRange writes old[oldIndex] to [newFrom, newTo).
func (r *ReshuffleBuilder[T]) CopyValueToRange(newFrom, newTo, oldIndex int) {
	r.builder.SetNConst(newFrom, newTo-newFrom, r.old[oldIndex])
}

func (r *ReshuffleBuilder[T]) Build() Buffer[T] {
	return r.builder.Build()
}

func (r *ReshuffleBuilder[T]) BuildN(n int) Buffer[T] {
	return r.builder.BuildN(n)
}
