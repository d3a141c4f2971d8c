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

// Factory hands out raw memory for buffers.
//
// Memory returned by Alloc is zeroed and 8-byte aligned. Owning reports
// whether slices produced by the factory live independently of it: heap
// memory does, arena memory is only valid until the arena is reset or closed.
type Factory interface {
	Name() string
	Owning() bool
	Alloc(size int) []byte
	// AllocatedBytes is the total number of bytes handed out so far.
	AllocatedBytes() int64
}

const (
	wordAlign = 8

	// DefaultArenaPageSize is used by NewArenaFactory when pageSize <= 0.
	DefaultArenaPageSize = 64 << 10
)

func alignUp(n int) int {
	return (n + wordAlign - 1) &^ (wordAlign - 1)
}
