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

package denseops

import (
	"github.com/matrixorigin/arolla/pkg/common/moerr"
	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

func Add[T Number](a, b T) T { return a + b }

func Sub[T Number](a, b T) T { return a - b }

func Mul[T Number](a, b T) T { return a * b }

func signedOverflow[T constraints.Signed](a, b, c T) bool {
	return (a > 0 && b > 0 && c < 0) || (a < 0 && b < 0 && c > 0)
}

func unsignedOverflow[T constraints.Unsigned](a, b, c T) bool {
	return c < a || c < b
}

// CheckedAddSigned fails on overflow instead of wrapping.
func CheckedAddSigned[T constraints.Signed](a, b T) (T, error) {
	c := a + b
	if signedOverflow(a, b, c) {
		return c, moerr.NewOutOfRangeNoCtx("int", "int add overflow")
	}
	return c, nil
}

func CheckedAddUnsigned[T constraints.Unsigned](a, b T) (T, error) {
	c := a + b
	if unsignedOverflow(a, b, c) {
		return c, moerr.NewOutOfRangeNoCtx("unsigned int", "unsigned int add overflow")
	}
	return c, nil
}

// SafeDiv is missing when b is zero.
func SafeDiv[T Number](a, b T) (T, bool) {
	if b == 0 {
		var zero T
		return zero, false
	}
	return a / b, true
}

// CheckedDiv fails on a zero divisor.
func CheckedDiv[T Number](a, b T) (T, error) {
	if b == 0 {
		var zero T
		return zero, moerr.NewDivByZeroNoCtx()
	}
	return a / b, nil
}

func Neg[T constraints.Signed | constraints.Float](a T) T { return -a }
