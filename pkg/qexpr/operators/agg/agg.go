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

package agg

import (
	hll "github.com/axiomhq/hyperloglog"
	"golang.org/x/exp/constraints"

	"github.com/matrixorigin/arolla/pkg/container/densearray"
	"github.com/matrixorigin/arolla/pkg/qexpr/process"
)

const (
	SumName                 = "array.sum"
	CountName               = "array.count"
	MinName                 = "array.min"
	MaxName                 = "array.max"
	CollapseName            = "array.collapse"
	ApproxCountDistinctName = "array.approx_count_distinct"
)

type Number interface {
	constraints.Integer | constraints.Float
}

type sumAcc[T Number] struct {
	sum  T
	seen bool
}

func (a *sumAcc[T]) Reset() { a.sum, a.seen = 0, false }

func (a *sumAcc[T]) Add(v T) {
	a.sum += v
	a.seen = true
}

func (a *sumAcc[T]) Result() (T, bool) { return a.sum, a.seen }

func NewSumAcc[T Number]() Accumulator[T, T] {
	return &sumAcc[T]{}
}

// Sum is missing for a group without present values.
func Sum[T Number](proc *process.Process, x densearray.DenseArray[T], e densearray.Edge) (densearray.DenseArray[T], error) {
	return Aggregate(proc, SumName, x, e, NewSumAcc[T])
}

type countAcc[T any] struct {
	n int64
}

func (a *countAcc[T]) Reset() { a.n = 0 }
func (a *countAcc[T]) Add(T) { a.n++ }
func (a *countAcc[T]) Result() (int64, bool) { return a.n, true }

func NewCountAcc[T any]() Accumulator[T, int64] {
	return &countAcc[T]{}
}

// Count counts the present values of every group. The result is full.
func Count[T any](proc *process.Process, x densearray.DenseArray[T], e densearray.Edge) (densearray.DenseArray[int64], error) {
	return Aggregate(proc, CountName, x, e, NewCountAcc[T])
}

type extremumAcc[T constraints.Ordered] struct {
	v     T
	seen  bool
	isMax bool
}

func (a *extremumAcc[T]) Reset() {
	var zero T
	a.v, a.seen = zero, false
}

func (a *extremumAcc[T]) Add(v T) {
	if !a.seen || (a.isMax && v > a.v) || (!a.isMax && v < a.v) {
		a.v = v
	}
	a.seen = true
}

func (a *extremumAcc[T]) Result() (T, bool) {
	return a.v, a.seen
}

func NewMinAcc[T constraints.Ordered]() Accumulator[T, T] {
	return &extremumAcc[T]{}
}

func NewMaxAcc[T constraints.Ordered]() Accumulator[T, T] {
	return &extremumAcc[T]{isMax: true}
}

func Min[T constraints.Ordered](proc *process.Process, x densearray.DenseArray[T], e densearray.Edge) (densearray.DenseArray[T], error) {
	return Aggregate(proc, MinName, x, e, NewMinAcc[T])
}

func Max[T constraints.Ordered](proc *process.Process, x densearray.DenseArray[T], e densearray.Edge) (densearray.DenseArray[T], error) {
	return Aggregate(proc, MaxName, x, e, NewMaxAcc[T])
}

type collapseAcc[T comparable] struct {
	v        T
	seen     bool
	distinct bool
}

func (a *collapseAcc[T]) Reset() {
	var zero T
	a.v, a.seen, a.distinct = zero, false, false
}

func (a *collapseAcc[T]) Add(v T) {
	if !a.seen {
		a.v, a.seen = v, true
		return
	}
	a.distinct = a.distinct || v != a.v
}

func (a *collapseAcc[T]) Result() (T, bool) {
	return a.v, a.seen && !a.distinct
}

func NewCollapseAcc[T comparable]() Accumulator[T, T] {
	return &collapseAcc[T]{}
}

// Collapse returns the value of a group whose present values are all
// equal, and missing otherwise.
func Collapse[T comparable](proc *process.Process, x densearray.DenseArray[T], e densearray.Edge) (densearray.DenseArray[T], error) {
	return Aggregate(proc, CollapseName, x, e, NewCollapseAcc[T])
}

type approxCountDistinctAcc[T any] struct {
	sk     *hll.Sketch
	encode func(dst []byte, v T) []byte
	buf    []byte
}

func (a *approxCountDistinctAcc[T]) Reset() {
	a.sk = hll.New()
}

func (a *approxCountDistinctAcc[T]) Add(v T) {
	a.buf = a.encode(a.buf[:0], v)
	a.sk.Insert(a.buf)
}

func (a *approxCountDistinctAcc[T]) Result() (int64, bool) {
	return int64(a.sk.Estimate()), true
}

func NewApproxCountDistinctAcc[T any]() Accumulator[T, int64] {
	return &approxCountDistinctAcc[T]{
		sk:     hll.New(),
		encode: densearray.NewValueEncoder[T](),
	}
}

// ApproxCountDistinct estimates the number of distinct present values of
// every group with a HyperLogLog sketch. The result is full.
func ApproxCountDistinct[T any](
	proc *process.Process, x densearray.DenseArray[T], e densearray.Edge,
) (densearray.DenseArray[int64], error) {
	return Aggregate(proc, ApproxCountDistinctName, x, e, NewApproxCountDistinctAcc[T])
}
