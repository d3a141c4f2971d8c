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

package process

import (
	"context"

	"github.com/matrixorigin/arolla/pkg/common/moerr"
	"github.com/matrixorigin/arolla/pkg/common/mpool"
)

// Process is the evaluation context shared by the operators of one query.
type Process struct {
	Id  string
	Ctx context.Context
	mp  mpool.Factory
}

func New(ctx context.Context, mp mpool.Factory) *Process {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Process{Ctx: ctx, mp: mp}
}

// GetMPool falls back to the heap factory, also for a nil proc.
func (proc *Process) GetMPool() mpool.Factory {
	if proc == nil || proc.mp == nil {
		return mpool.GetDefaultFactory()
	}
	return proc.mp
}

func (proc *Process) Mp() mpool.Factory {
	return proc.GetMPool()
}

// OpContext tags errors created under it with the operator name.
func (proc *Process) OpContext(name string) context.Context {
	ctx := context.Background()
	if proc != nil && proc.Ctx != nil {
		ctx = proc.Ctx
	}
	return moerr.WithOperator(ctx, name)
}

// Reset releases arena memory of the process. Arrays built on it before
// must not be used afterwards unless they were made owned.
func (proc *Process) Reset() {
	if r, ok := proc.GetMPool().(interface{ Reset() }); ok {
		r.Reset()
	}
}
