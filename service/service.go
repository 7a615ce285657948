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

// Package service wires dataset loading, the data source and the HTTP
// handlers of a healthviz server.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ilhamster/healthviz/census"
	"github.com/ilhamster/healthviz/config"
	datasource "github.com/ilhamster/healthviz/data_source"
	"github.com/ilhamster/healthviz/handlers"
	"github.com/ilhamster/healthviz/logging"
	"github.com/ilhamster/healthviz/metrics"
	querydispatcher "github.com/ilhamster/healthviz/query_dispatcher"
)

const metricsMethod = "/metrics"

// fileFetcher loads datasets from CSV files by name.
type fileFetcher struct {
	paths map[string]string
}

func (ff *fileFetcher) Fetch(ctx context.Context, name string) (*census.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, ok := ff.paths[name]
	if !ok {
		return nil, fmt.Errorf("unknown dataset %q", name)
	}
	ds, err := census.LoadFile(path)
	if err != nil {
		return nil, err
	}
	slog.Info("loaded dataset", "name", name, "path", path, "records", ds.Len())
	return ds, nil
}

// Service serves the healthviz page, charts, exports and data queries.
type Service struct {
	ds       *datasource.DataSource
	handlers []handlers.Handler
}

// New returns a Service configured by cfg.
func New(cfg *config.Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ff := &fileFetcher{paths: cfg.DatasetPaths()}
	ds, err := datasource.New(cfg.CacheSize, ff, cfg.Dataset, cfg.ChartOptions()...)
	if err != nil {
		return nil, err
	}
	qd, err := querydispatcher.New(ds)
	if err != nil {
		return nil, err
	}
	slog.Info("serving data queries", "queries", qd.SupportedQueries())
	return &Service{
		ds: ds,
		handlers: []handlers.Handler{
			handlers.NewQueryHandler(qd),
			handlers.NewChartHandler(ds),
			handlers.NewPageHandler(handlers.PageData{
				Title:    "Health Risks",
				Subtitle: "Health risk factors against demographics, by state. Click an axis label to change it.",
			}),
		},
	}, nil
}

// DataSource returns the receiver's data source.
func (s *Service) DataSource() *datasource.DataSource {
	return s.ds
}

// RegisterHandlers registers the receiver's handlers, and the metrics
// handler, on mux.
func (s *Service) RegisterHandlers(mux *http.ServeMux) {
	for _, h := range s.handlers {
		for path, handler := range h.HandlersByPath() {
			mux.HandleFunc(path, handler)
		}
	}
	mux.Handle(metricsMethod, metrics.Handler())
}

// Handler returns a handler serving everything the receiver registers, with
// access logging to l.
func (s *Service) Handler(l *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	s.RegisterHandlers(mux)
	return logging.AccessMiddleware(l)(mux)
}
