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
	"sync/atomic"
	"unsafe"

	v2 "github.com/matrixorigin/arolla/pkg/util/metric/v2"
)

// HeapFactory allocates from the Go heap. Its buffers are owned.
type HeapFactory struct {
	allocated atomic.Int64
}

var defaultHeap = &HeapFactory{}

// GetDefaultFactory returns the process wide heap factory.
func GetDefaultFactory() Factory {
	return defaultHeap
}

func NewHeapFactory() *HeapFactory {
	return &HeapFactory{}
}

func (h *HeapFactory) Name() string {
	return "heap"
}

func (h *HeapFactory) Owning() bool {
	return true
}

func (h *HeapFactory) Alloc(size int) []byte {
	if size <= 0 {
		return nil
	}
	// backed by uint64 so the data pointer is 8-byte aligned
	words := make([]uint64, alignUp(size)/wordAlign)
	h.allocated.Add(int64(size))
	v2.MemHeapFactoryAllocatedCounter.Add(float64(size))
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), size)
}

func (h *HeapFactory) AllocatedBytes() int64 {
	return h.allocated.Load()
}
