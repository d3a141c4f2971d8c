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

package bitmap

import (
	"github.com/matrixorigin/arolla/pkg/common/invariants"
	"github.com/matrixorigin/arolla/pkg/common/mpool"
	"github.com/matrixorigin/arolla/pkg/container/buffer"
)

// Builder packs a stream of presence flags into a bitmap. Build returns the
// empty bitmap if every flag added was true.
type Builder struct {
	bldr       *buffer.Builder[Word]
	words      []Word
	currentBit int
	allPresent bool
}

func NewBuilder(bitCount int, f mpool.Factory) *Builder {
	bldr := buffer.NewBuilder[Word](BitmapSize(bitCount), f)
	return &Builder{
		bldr:       bldr,
		words:      bldr.MutableSpan(),
		allPresent: true,
	}
}

// AddByGroups appends count flags. initGroup is called once per group of at
// most 32 flags with the group offset relative to the current cursor, and
// the function it returns gives the flag of each in-group index.
func (b *Builder) AddByGroups(count int, initGroup func(offset int) func(i int) bool) {
	invariants.Check(b.currentBit+count <= len(b.words)*WordBits,
		"builder overflow: %d + %d bits into %d words", b.currentBit, count, len(b.words))
	bitOffset := b.currentBit & wordMask
	w := b.currentBit >> wordShift
	offset := 0
	if bitOffset == 0 {
		for ; offset+WordBits <= count; offset += WordBits {
			b.words[w] = b.group(WordBits, initGroup(offset))
			w++
		}
		if offset < count {
			b.words[w] = b.group(count-offset, initGroup(offset))
		}
	} else {
		for ; offset+WordBits <= count; offset += WordBits {
			g := b.group(WordBits, initGroup(offset))
			b.words[w] |= g << bitOffset
			w++
			b.words[w] = g >> (WordBits - bitOffset)
		}
		if offset < count {
			g := b.group(count-offset, initGroup(offset))
			b.words[w] |= g << bitOffset
			if w+1 < len(b.words) {
				b.words[w+1] = g >> (WordBits - bitOffset)
			}
		}
	}
	b.currentBit += count
}

func (b *Builder) group(n int, fn func(i int) bool) Word {
	var g Word
	for i := 0; i < n; i++ {
		if fn(i) {
			g |= Word(1) << i
		}
	}
	b.allPresent = b.allPresent && g == lowMask(n)
	return g
}

// AddWord appends the low n bits of word.
func (b *Builder) AddWord(word Word, n int) {
	b.AddByGroups(n, func(int) func(int) bool {
		return func(i int) bool { return word>>i&1 != 0 }
	})
}

// Add appends a single flag.
func (b *Builder) Add(present bool) {
	if present {
		SetBit(b.words, b.currentBit)
	} else {
		b.allPresent = false
	}
	b.currentBit++
}

// AddForEach appends pred(v) for every v of values.
func AddForEach[T any](b *Builder, values []T, pred func(v T) bool) {
	b.AddByGroups(len(values), func(offset int) func(int) bool {
		group := values[offset:]
		return func(i int) bool { return pred(group[i]) }
	})
}

func (b *Builder) CurrentBit() int {
	return b.currentBit
}

func (b *Builder) Build() Bitmap {
	if b.allPresent {
		return Empty()
	}
	return b.bldr.Build()
}

// AlmostFullBuilder builds bitmaps with few missing bits. The full bitmap is
// materialized on the first AddMissed only.
type AlmostFullBuilder struct {
	bitCount int
	factory  mpool.Factory
	bldr     *buffer.Builder[Word]
	words    []Word
}

func NewAlmostFullBuilder(bitCount int, f mpool.Factory) *AlmostFullBuilder {
	return &AlmostFullBuilder{bitCount: bitCount, factory: f}
}

// AddMissed marks id missing. Ids may come in any order.
func (b *AlmostFullBuilder) AddMissed(id int) {
	invariants.CheckBounds(id, b.bitCount)
	if b.words == nil {
		b.createFullBitmap()
	}
	UnsetBit(b.words, id)
}

func (b *AlmostFullBuilder) createFullBitmap() {
	n := BitmapSize(b.bitCount)
	b.bldr = buffer.NewBuilder[Word](n, b.factory)
	b.words = b.bldr.MutableSpan()
	for i := range b.words {
		b.words[i] = FullWord
	}
	if rest := b.bitCount & wordMask; rest != 0 {
		b.words[n-1] = lowMask(rest)
	}
}

// Build returns the empty bitmap if nothing was marked missing.
func (b *AlmostFullBuilder) Build() Bitmap {
	if b.words == nil {
		return Empty()
	}
	return b.bldr.Build()
}
