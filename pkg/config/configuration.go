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

package config

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/arolla/pkg/common/moerr"
	"github.com/matrixorigin/arolla/pkg/common/mpool"
	"github.com/matrixorigin/arolla/pkg/logutil"
)

const (
	FactoryHeap  = "heap"
	FactoryArena = "arena"
)

// Workload names understood by the benchmark.
const (
	OpAdd      = "add"
	OpExpand   = "expand"
	OpSum      = "sum"
	OpGroupBy  = "group_by"
	OpParallel = "parallel_add"
)

var allOps = []string{OpAdd, OpExpand, OpSum, OpGroupBy, OpParallel}

// FactoryConfig selects where array buffers are allocated.
type FactoryConfig struct {
	// Kind is heap or arena
	Kind string `toml:"kind"`

	// ArenaPageSize is the arena page size in bytes. default: 64KB
	ArenaPageSize int `toml:"arena-page-size"`
}

// WorkloadConfig describes the synthetic arrays and the operators run on
// them.
type WorkloadConfig struct {
	Rows int `toml:"rows"`

	// MissingRatio is the share of missing elements, in [0, 1]
	MissingRatio float64 `toml:"missing-ratio"`

	// Groups is the number of parents of the generated edge
	Groups int `toml:"groups"`

	Iterations int `toml:"iterations"`

	Seed int64 `toml:"seed"`

	// Workers of the parallel runner. default: number of CPUs
	Workers int `toml:"workers"`

	// ChunkRows is the chunk size of the parallel runner
	ChunkRows int `toml:"chunk-rows"`

	Ops []string `toml:"ops"`
}

type Config struct {
	Log      logutil.LogConfig `toml:"log"`
	Factory  FactoryConfig     `toml:"factory"`
	Workload WorkloadConfig    `toml:"workload"`
}

func Default() *Config {
	return &Config{
		Log: logutil.LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSize:    512,
			MaxDays:    0,
			MaxBackups: 0,
		},
		Factory: FactoryConfig{
			Kind:          FactoryHeap,
			ArenaPageSize: mpool.DefaultArenaPageSize,
		},
		Workload: WorkloadConfig{
			Rows:         1 << 20,
			MissingRatio: 0.1,
			Groups:       1 << 10,
			Iterations:   10,
			Seed:         1,
			ChunkRows:    64 << 10,
			Ops:          slices.Clone(allOps),
		},
	}
}

// Load reads a TOML file over the defaults. Unknown keys are an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, moerr.NewBadConfigNoCtx("decode %s: %v", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, moerr.NewBadConfigNoCtx("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	ctx := context.Background()
	switch c.Factory.Kind {
	case FactoryHeap, FactoryArena:
	default:
		return moerr.NewBadConfig(ctx, "factory.kind must be %s or %s, got %q", FactoryHeap, FactoryArena, c.Factory.Kind)
	}
	w := &c.Workload
	if w.Rows <= 0 {
		return moerr.NewBadConfig(ctx, "workload.rows must be positive, got %d", w.Rows)
	}
	if w.MissingRatio < 0 || w.MissingRatio > 1 {
		return moerr.NewBadConfig(ctx, "workload.missing-ratio must be in [0, 1], got %v", w.MissingRatio)
	}
	if w.Groups <= 0 || w.Groups > w.Rows {
		return moerr.NewBadConfig(ctx, "workload.groups must be in [1, %d], got %d", w.Rows, w.Groups)
	}
	if w.Iterations <= 0 {
		return moerr.NewBadConfig(ctx, "workload.iterations must be positive, got %d", w.Iterations)
	}
	for _, op := range w.Ops {
		if !slices.Contains(allOps, op) {
			return moerr.NewBadConfig(ctx, "unknown workload op %q", op)
		}
	}
	return nil
}

// NewFactory creates the buffer factory described by the config.
func (c *Config) NewFactory() mpool.Factory {
	if c.Factory.Kind == FactoryArena {
		return mpool.NewArenaFactory(c.Factory.ArenaPageSize)
	}
	return mpool.GetDefaultFactory()
}

// Dump writes c as TOML.
func (c *Config) Dump(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
