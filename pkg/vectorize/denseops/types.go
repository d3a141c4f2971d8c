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

// Package denseops lifts pointwise functions over dense arrays.
//
// An op is built once per function with NewUnaryOp, NewBinaryOp,
// NewTernaryOp or NewNaryOp (and the WithErrorCheck, Optional and OnOptional
// variants). The evaluation strategy is chosen at construction:
//
//   - unary: fn runs on every row and the input bitmap is reused;
//   - binary: fn runs on every row and the bitmaps are intersected;
//   - simple: more than two arguments with NoBitmapOffset, same idea;
//   - universal: rows are processed in 32-row groups and fn runs only where
//     the arguments are present.
//
// The first three need RunOnMissing, a plain function and no string or
// optional arguments. Everything else takes the universal strategy.
package denseops

import (
	"fmt"
	"reflect"

	"github.com/matrixorigin/arolla/pkg/common/mpool"
)

type Flags uint8

const (
	// RunOnMissing lets fn run on rows where arguments are missing. fn must
	// be total and free of side effects.
	RunOnMissing Flags = 1 << iota
	// NoBitmapOffset promises every argument has BitmapBitOffset 0. It is
	// only checked in invariants builds.
	NoBitmapOffset
	// NoSizeValidation skips the equal size check of the arguments.
	NoSizeValidation
)

func (f Flags) has(x Flags) bool {
	return f&x != 0
}

type Strategy int

const (
	UnaryStrategy Strategy = iota
	BinaryStrategy
	SimpleStrategy
	UniversalStrategy
)

func (s Strategy) String() string {
	switch s {
	case UnaryStrategy:
		return "unary"
	case BinaryStrategy:
		return "binary"
	case SimpleStrategy:
		return "simple"
	case UniversalStrategy:
		return "universal"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// shape is what fn returns.
type shape int

const (
	plainResult shape = iota
	optionalResult
	errorResult
)

type opMeta struct {
	flags    Flags
	strategy Strategy
	shape    shape
	factory  mpool.Factory
}

// Strategy reports how the op evaluates.
func (m *opMeta) Strategy() Strategy {
	return m.strategy
}

func (m *opMeta) Flags() Flags {
	return m.flags
}

func newMeta(arity int, flags Flags, s shape, optionalArgs bool, f mpool.Factory, types ...reflect.Type) opMeta {
	if f == nil {
		f = mpool.GetDefaultFactory()
	}
	return opMeta{
		flags:    flags,
		strategy: selectStrategy(arity, flags, s, optionalArgs, types...),
		shape:    s,
		factory:  f,
	}
}

func selectStrategy(arity int, flags Flags, s shape, optionalArgs bool, types ...reflect.Type) Strategy {
	if s != plainResult || optionalArgs || !flags.has(RunOnMissing) || hasString(types...) {
		return UniversalStrategy
	}
	switch {
	case arity == 1:
		return UnaryStrategy
	case arity == 2:
		return BinaryStrategy
	case flags.has(NoBitmapOffset):
		return SimpleStrategy
	default:
		return UniversalStrategy
	}
}

func hasString(types ...reflect.Type) bool {
	for _, t := range types {
		if t.Kind() == reflect.String {
			return true
		}
	}
	return false
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
