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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/arolla/pkg/config"
)

func smallConfig(kind string) *config.Config {
	cfg := config.Default()
	cfg.Factory.Kind = kind
	cfg.Workload.Rows = 1000
	cfg.Workload.Groups = 10
	cfg.Workload.Iterations = 2
	cfg.Workload.Workers = 2
	cfg.Workload.ChunkRows = 100
	return cfg
}

func TestRunWorkload(t *testing.T) {
	ctx := context.Background()
	heap, err := runWorkload(ctx, smallConfig(config.FactoryHeap))
	require.NoError(t, err)
	require.Len(t, heap, 5)

	byName := make(map[string]uint64)
	for _, r := range heap {
		require.Equal(t, 1000, r.Rows)
		byName[r.Name] = r.Checksum
	}
	require.Equal(t, byName[config.OpAdd], byName[config.OpParallel])

	arena, err := runWorkload(ctx, smallConfig(config.FactoryArena))
	require.NoError(t, err)
	for i := range heap {
		require.Equal(t, heap[i].Name, arena[i].Name)
		require.Equal(t, heap[i].Checksum, arena[i].Checksum, heap[i].Name)
	}
}

func TestRunWorkloadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runWorkload(ctx, smallConfig(config.FactoryHeap))
	require.ErrorIs(t, err, context.Canceled)
}

func TestCommands(t *testing.T) {
	var out bytes.Buffer
	root := rootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"config"})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "[workload]")

	path := filepath.Join(t.TempDir(), "bench.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[factory]
kind = "arena"

[workload]
rows = 256
groups = 4
iterations = 1
ops = ["add", "sum"]
`), 0o644))

	out.Reset()
	root = rootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"run", "--config", path, "--metrics"})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "factory=arena")
	require.Contains(t, out.String(), "sum")
	require.Contains(t, out.String(), "# TYPE")

	root = rootCommand()
	root.SetArgs([]string{"run", "--config", filepath.Join(t.TempDir(), "missing.toml")})
	require.Error(t, root.Execute())
}
