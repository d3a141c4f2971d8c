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
	"sync"

	"go.uber.org/zap"

	"github.com/matrixorigin/arolla/pkg/logutil"
	v2 "github.com/matrixorigin/arolla/pkg/util/metric/v2"
)

// ArenaFactory is a bump allocator over fixed size pages. Buffers created on
// it are not owned: they are valid until Reset or Close.
//
// Requests larger than a page get a dedicated page. Reset keeps the pages
// and zeroes them for reuse.
type ArenaFactory struct {
	mu        sync.Mutex
	pageSize  int
	pages     [][]byte
	big       [][]byte
	cur       int
	offset    int
	allocated int64
	closed    bool
}

// NewArenaFactory creates an arena with the given page size, rounded up to a
// multiple of 8.
func NewArenaFactory(pageSize int) *ArenaFactory {
	if pageSize <= 0 {
		pageSize = DefaultArenaPageSize
	}
	return &ArenaFactory{
		pageSize: alignUp(pageSize),
		cur:      -1,
	}
}

func (a *ArenaFactory) Name() string {
	return "arena"
}

func (a *ArenaFactory) Owning() bool {
	return false
}

func (a *ArenaFactory) PageSize() int {
	return a.pageSize
}

func (a *ArenaFactory) Alloc(size int) []byte {
	if size <= 0 {
		return nil
	}
	n := alignUp(size)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		panic("alloc on a closed arena")
	}
	a.allocated += int64(size)
	v2.MemArenaFactoryAllocatedCounter.Add(float64(size))

	if n > a.pageSize {
		page := a.newPage(n)
		a.big = append(a.big, page)
		return page[:size:size]
	}
	if a.cur < 0 || a.offset+n > a.pageSize {
		a.cur++
		if a.cur == len(a.pages) {
			a.pages = append(a.pages, a.newPage(a.pageSize))
		}
		a.offset = 0
	}
	buf := a.pages[a.cur][a.offset : a.offset+size : a.offset+size]
	a.offset += n
	return buf
}

func (a *ArenaFactory) newPage(size int) []byte {
	page, err := mapPage(size)
	if err != nil {
		logutil.Error("arena page allocation failed", zap.Int("size", size), zap.Error(err))
		panic(err)
	}
	v2.MemArenaInuseBytesGauge.Add(float64(size))
	v2.MemArenaPagesGauge.Inc()
	return page
}

func (a *ArenaFactory) AllocatedBytes() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocated
}

// InuseBytes is the number of bytes reserved by pages.
func (a *ArenaFactory) InuseBytes() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := int64(len(a.pages)) * int64(a.pageSize)
	for _, p := range a.big {
		n += int64(len(p))
	}
	return n
}

// Reset invalidates every buffer created so far. Regular pages are zeroed
// and reused, dedicated pages are released.
func (a *ArenaFactory) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := 0; i <= a.cur && i < len(a.pages); i++ {
		zeroPage(a.pages[i])
	}
	a.releaseBig()
	a.cur = -1
	a.offset = 0
	a.allocated = 0
}

// Close releases all pages. The arena must not be used afterwards.
func (a *ArenaFactory) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	for _, p := range a.pages {
		a.release(p)
	}
	a.pages = nil
	a.releaseBig()
}

func (a *ArenaFactory) releaseBig() {
	for _, p := range a.big {
		a.release(p)
	}
	a.big = nil
}

func (a *ArenaFactory) release(page []byte) {
	v2.MemArenaInuseBytesGauge.Sub(float64(len(page)))
	v2.MemArenaPagesGauge.Dec()
	if err := unmapPage(page); err != nil {
		logutil.Warn("arena page release failed", zap.Error(err))
	}
}
