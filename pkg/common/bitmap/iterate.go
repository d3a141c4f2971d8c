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

// IterateByGroups walks bits [firstBit, firstBit+count) of words in groups:
// an optional leading partial group up to the next word boundary, then full
// 32-bit groups, then an optional trailing partial group. initGroup is called
// once per group with the offset of the group relative to firstBit, and the
// function it returns is called for every bit of the group with the in-group
// index. Empty words mean every bit is present.
func IterateByGroups(words []Word, firstBit, count int, initGroup func(offset int) func(i int, present bool)) {
	if len(words) == 0 {
		for offset := 0; offset < count; offset += WordBits {
			iterateWord(FullWord, min(WordBits, count-offset), initGroup(offset))
		}
		return
	}
	w := firstBit >> wordShift
	bitOffset := firstBit & wordMask
	offset := 0
	if bitOffset > 0 && count > 0 {
		n := min(count, WordBits-bitOffset)
		iterateWord(words[w]>>bitOffset, n, initGroup(0))
		w++
		offset = n
	}
	for ; offset+WordBits <= count; offset += WordBits {
		iterateWord(words[w], WordBits, initGroup(offset))
		w++
	}
	if offset < count {
		iterateWord(words[w], count-offset, initGroup(offset))
	}
}

func iterateWord(word Word, n int, fn func(i int, present bool)) {
	for i := 0; i < n; i++ {
		fn(i, word>>i&1 != 0)
	}
}

// Iterate calls fn with the presence of each bit in
// [firstBit, firstBit+count).
func Iterate(words []Word, firstBit, count int, fn func(present bool)) {
	IterateByGroups(words, firstBit, count, func(int) func(int, bool) {
		return func(_ int, present bool) {
			fn(present)
		}
	})
}
