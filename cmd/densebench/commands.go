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
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/matrixorigin/arolla/pkg/config"
	"github.com/matrixorigin/arolla/pkg/logutil"
	v2 "github.com/matrixorigin/arolla/pkg/util/metric/v2"
)

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "densebench",
		Short:         "Benchmark dense array operators on synthetic data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runCommand(), configCommand())
	return root
}

func runCommand() *cobra.Command {
	var (
		configFile  string
		dumpMetrics bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured workload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configFile != "" {
				var err error
				if cfg, err = config.Load(configFile); err != nil {
					return err
				}
			}
			logutil.SetupMOLogger(&cfg.Log)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			out := cmd.OutOrStdout()
			results, err := runWorkload(ctx, cfg)
			if err != nil {
				return err
			}
			if err = printResults(out, cfg, results); err != nil {
				return err
			}
			if dumpMetrics {
				return writeMetrics(cmd)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "TOML configuration file")
	cmd.Flags().BoolVar(&dumpMetrics, "metrics", false, "print prometheus metrics after the run")
	return cmd
}

func configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Default().Dump(cmd.OutOrStdout())
		},
	}
}

func writeMetrics(cmd *cobra.Command) error {
	families, err := v2.GetPrometheusGatherer().Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err = expfmt.MetricFamilyToText(cmd.OutOrStdout(), mf); err != nil {
			return err
		}
	}
	return nil
}
