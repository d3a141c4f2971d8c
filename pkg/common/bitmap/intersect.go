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
)

// Intersect ANDs a and b word by word into result, which must hold
// min(len(a), len(b)) words.
func Intersect(a, b []Word, result []Word) {
	invariants.Check(len(result) == min(len(a), len(b)),
		"intersect result has %d words, want %d", len(result), min(len(a), len(b)))
	for i := range result {
		result[i] = a[i] & b[i]
	}
}

// IntersectWithOffsets ANDs two bitmaps whose logical sequences start at
// offsetA and offsetB. The result starts at min(offsetA, offsetB) and must
// hold min(len(a), len(b)) words.
func IntersectWithOffsets(a, b []Word, offsetA, offsetB int, result []Word) {
	switch {
	case offsetA == offsetB:
		Intersect(a, b, result)
	case offsetA < offsetB:
		intersectShifted(a, b, offsetB-offsetA, result)
	default:
		intersectShifted(b, a, offsetA-offsetB, result)
	}
}

// intersectShifted computes a & (b >> shift) across word boundaries.
func intersectShifted(a, b []Word, shift int, result []Word) {
	invariants.Check(len(result) == min(len(a), len(b)),
		"intersect result has %d words, want %d", len(result), min(len(a), len(b)))
	n := len(result)
	if n == 0 {
		return
	}
	for i := 0; i < n-1; i++ {
		result[i] = a[i] & (b[i]>>shift | b[i+1]<<(WordBits-shift))
	}
	last := b[n-1] >> shift
	if n < len(b) {
		last |= b[n] << (WordBits - shift)
	}
	result[n-1] = a[n-1] & last
}
