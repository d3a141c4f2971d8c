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

//go:build linux

package mpool

import (
	"golang.org/x/sys/unix"
)

func mapPage(size int) ([]byte, error) {
	return unix.Mmap(
		-1, 0,
		size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS,
	)
}

// re-visiting a MADV_DONTNEED-advised page will zero it
func zeroPage(page []byte) {
	if err := unix.Madvise(page, unix.MADV_DONTNEED); err != nil {
		clear(page)
	}
}

func unmapPage(page []byte) error {
	return unix.Munmap(page)
}
