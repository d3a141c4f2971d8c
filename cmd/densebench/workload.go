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

package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"runtime"
	"slices"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/cpu"

	"github.com/matrixorigin/arolla/pkg/common/mpool"
	"github.com/matrixorigin/arolla/pkg/config"
	"github.com/matrixorigin/arolla/pkg/container/densearray"
	"github.com/matrixorigin/arolla/pkg/container/optional"
	"github.com/matrixorigin/arolla/pkg/logutil"
	"github.com/matrixorigin/arolla/pkg/qexpr/operators/agg"
	"github.com/matrixorigin/arolla/pkg/qexpr/operators/edge"
	"github.com/matrixorigin/arolla/pkg/qexpr/process"
	"github.com/matrixorigin/arolla/pkg/vectorize/denseops"
)

type opResult struct {
	Name     string
	Rows     int
	Elapsed  time.Duration
	Checksum uint64
}

type inputs struct {
	a, b   densearray.DenseArray[int64]
	keys   densearray.DenseArray[int64]
	groups densearray.Edge
}

// randomArray returns size values in [0, bound) with roughly missing*size
// elements missing.
func randomArray(rng *rand.Rand, size int, bound int64, missing float64, f mpool.Factory) densearray.DenseArray[int64] {
	data := make([]optional.Value[int64], size)
	for i := range data {
		if rng.Float64() < missing {
			continue
		}
		data[i] = optional.Some(rng.Int63n(bound))
	}
	return densearray.CreateDenseArray(data, f)
}

// newInputs generates the workload arrays. They live on the heap so that
// resetting an arena between iterations leaves them intact.
func newInputs(ctx context.Context, w config.WorkloadConfig) (inputs, error) {
	heap := mpool.GetDefaultFactory()
	rng := rand.New(rand.NewSource(w.Seed))
	in := inputs{
		a:    randomArray(rng, w.Rows, 1<<32, w.MissingRatio, heap),
		b:    randomArray(rng, w.Rows, 1<<32, w.MissingRatio, heap),
		keys: randomArray(rng, w.Rows, int64(w.Groups), w.MissingRatio, heap),
	}
	var err error
	in.groups, err = densearray.FromUniformGroups(ctx, w.Groups, w.Rows/w.Groups, heap)
	return in, err
}

func runWorkload(ctx context.Context, cfg *config.Config) ([]opResult, error) {
	w := cfg.Workload
	in, err := newInputs(ctx, w)
	if err != nil {
		return nil, err
	}

	f := cfg.NewFactory()
	if arena, ok := f.(*mpool.ArenaFactory); ok {
		defer arena.Close()
	}
	proc := process.New(ctx, f)

	var runner *denseops.Runner
	if slices.Contains(w.Ops, config.OpParallel) {
		if runner, err = denseops.NewRunner(w.Workers, w.ChunkRows, f); err != nil {
			return nil, err
		}
		defer runner.Close()
	}

	add := denseops.NewBinaryOp(denseops.Add[int64], denseops.RunOnMissing, f)
	childSize := in.groups.ChildSize()

	results := make([]opResult, 0, len(w.Ops))
	for _, name := range w.Ops {
		var step func() (uint64, error)
		switch name {
		case config.OpAdd:
			step = func() (uint64, error) {
				out, err := add.Eval(proc.Ctx, in.a, in.b)
				return densearray.Fingerprint(out), err
			}
		case config.OpParallel:
			step = func() (uint64, error) {
				out, err := denseops.EvalBinary(proc.Ctx, runner, add, in.a, in.b)
				return densearray.Fingerprint(out), err
			}
		case config.OpExpand:
			step = func() (uint64, error) {
				out, err := edge.Expand(proc, in.a.Slice(0, in.groups.ParentSize()), in.groups)
				return densearray.Fingerprint(out), err
			}
		case config.OpSum:
			step = func() (uint64, error) {
				out, err := agg.Sum(proc, in.a.Slice(0, childSize), in.groups)
				return densearray.Fingerprint(out), err
			}
		case config.OpGroupBy:
			step = func() (uint64, error) {
				e := edge.GroupBy(proc, in.keys)
				return densearray.Fingerprint(e.EdgeValues()), nil
			}
		}

		res := opResult{Name: name, Rows: w.Rows}
		start := time.Now()
		for i := 0; i < w.Iterations; i++ {
			if err = ctx.Err(); err != nil {
				return results, err
			}
			sum, err := step()
			if err != nil {
				logutil.Error("workload op failed", zap.String("op", name), zap.Error(err))
				return results, err
			}
			res.Checksum = sum
			proc.Reset()
		}
		res.Elapsed = time.Since(start) / time.Duration(w.Iterations)
		logutil.Info("workload op done",
			zap.String("op", name),
			zap.Duration("per-iteration", res.Elapsed),
			logutil.Elapsed(start),
			zap.Uint64("checksum", res.Checksum))
		results = append(results, res)
	}
	return results, nil
}

func cpuFeatures() string {
	switch runtime.GOARCH {
	case "amd64":
		return fmt.Sprintf("avx2=%v avx512f=%v", cpu.X86.HasAVX2, cpu.X86.HasAVX512F)
	case "arm64":
		return fmt.Sprintf("asimd=%v sve=%v", cpu.ARM64.HasASIMD, cpu.ARM64.HasSVE)
	}
	return "none"
}

func printResults(out io.Writer, cfg *config.Config, results []opResult) error {
	fmt.Fprintf(out, "arch=%s %s factory=%s rows=%d missing=%.2f\n",
		runtime.GOARCH, cpuFeatures(), cfg.Factory.Kind, cfg.Workload.Rows, cfg.Workload.MissingRatio)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OP\tROWS\tPER ITERATION\tROWS/S\tCHECKSUM")
	for _, r := range results {
		rate := float64(r.Rows) / r.Elapsed.Seconds()
		fmt.Fprintf(tw, "%s\t%d\t%v\t%.0f\t%016x\n", r.Name, r.Rows, r.Elapsed, rate, r.Checksum)
	}
	return tw.Flush()
}
