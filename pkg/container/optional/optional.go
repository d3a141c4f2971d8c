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

package optional

import "fmt"

// Value is either a present T or missing. The zero Value is missing.
type Value[T any] struct {
	value   T
	present bool
}

func Some[T any](v T) Value[T] {
	return Value[T]{value: v, present: true}
}

func None[T any]() Value[T] {
	return Value[T]{}
}

// Of builds a Value from a (value, present) pair. The value is dropped when
// present is false.
func Of[T any](v T, present bool) Value[T] {
	if !present {
		return Value[T]{}
	}
	return Value[T]{value: v, present: true}
}

func (o Value[T]) Present() bool {
	return o.present
}

// Get returns the value and whether it is present.
func (o Value[T]) Get() (T, bool) {
	return o.value, o.present
}

// Value returns the stored value, the zero T if missing.
func (o Value[T]) Value() T {
	return o.value
}

func (o Value[T]) OrElse(def T) T {
	if o.present {
		return o.value
	}
	return def
}

func (o Value[T]) String() string {
	if !o.present {
		return "missing"
	}
	return fmt.Sprint(o.value)
}

// Equal reports whether a and b are both missing, or both present and equal.
func Equal[T comparable](a, b Value[T]) bool {
	if a.present != b.present {
		return false
	}
	return !a.present || a.value == b.value
}
