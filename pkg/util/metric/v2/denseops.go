// Copyright 2023 Matrix Origin
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

package v2

import "github.com/prometheus/client_golang/prometheus"

var (
	denseOpsStrategyCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arolla",
			Subsystem: "denseops",
			Name:      "calls_total",
			Help:      "Total number of dense op evaluations by strategy.",
		}, []string{"strategy"})

	DenseOpsUnaryCounter     = denseOpsStrategyCounter.WithLabelValues("unary")
	DenseOpsBinaryCounter    = denseOpsStrategyCounter.WithLabelValues("binary")
	DenseOpsSimpleCounter    = denseOpsStrategyCounter.WithLabelValues("simple")
	DenseOpsUniversalCounter = denseOpsStrategyCounter.WithLabelValues("universal")
)

var (
	DenseOpsParallelChunksCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "arolla",
			Subsystem: "denseops",
			Name:      "parallel_chunks_total",
			Help:      "Total number of chunks submitted to the parallel runner.",
		})

	DenseOpsParallelRowsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "arolla",
			Subsystem: "denseops",
			Name:      "parallel_rows_total",
			Help:      "Total number of rows evaluated by the parallel runner.",
		})

	DenseOpsParallelDurationHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "arolla",
			Subsystem: "denseops",
			Name:      "parallel_duration_seconds",
			Help:      "Bucketed histogram of parallel evaluation duration.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2.0, 20),
		})
)
