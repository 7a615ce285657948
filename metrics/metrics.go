/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package metrics holds the server's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ChartRendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "healthviz_chart_renders_total",
		Help: "Charts rendered, by output format",
	}, []string{"format"})
	AxisSwitchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "healthviz_axis_switches_total",
		Help: "Axis measure switches, by axis and selected measure",
	}, []string{"axis", "measure"})
	QueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "healthviz_queries_total",
		Help: "Data series queries handled, by query name",
	}, []string{"query"})
	QueryDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "healthviz_query_duration_ms",
		Help:    "Data request handling duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	FetchFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "healthviz_dataset_fetch_failures_total",
		Help: "Dataset fetches that failed",
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "healthviz_dataset_cache_hits_total",
		Help: "Dataset fetches answered from the cache",
	})
)

func init() {
	prometheus.MustRegister(ChartRendersTotal)
	prometheus.MustRegister(AxisSwitchesTotal)
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(QueryDurationMs)
	prometheus.MustRegister(FetchFailuresTotal)
	prometheus.MustRegister(CacheHitsTotal)
}

// Handler serves the registered metrics.
func Handler() http.Handler { return promhttp.Handler() }
