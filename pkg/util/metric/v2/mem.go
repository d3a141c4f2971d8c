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
	memFactoryAllocatedBytesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arolla",
			Subsystem: "mem",
			Name:      "factory_allocated_bytes_total",
			Help:      "Total bytes handed out by a buffer factory.",
		}, []string{"factory"})

	MemHeapFactoryAllocatedCounter  = memFactoryAllocatedBytesCounter.WithLabelValues("heap")
	MemArenaFactoryAllocatedCounter = memFactoryAllocatedBytesCounter.WithLabelValues("arena")
)

var (
	MemArenaInuseBytesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "arolla",
			Subsystem: "mem",
			Name:      "arena_inuse_bytes",
			Help:      "Bytes currently reserved by arena pages.",
		})

	MemArenaPagesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "arolla",
			Subsystem: "mem",
			Name:      "arena_pages",
			Help:      "Number of pages currently held by arenas.",
		})
)
