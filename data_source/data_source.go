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

// Package datasource answers healthviz data queries from cached survey
// datasets.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/simplelru"

	"github.com/ilhamster/healthviz/census"
	"github.com/ilhamster/healthviz/chart"
	"github.com/ilhamster/healthviz/measure"
	"github.com/ilhamster/healthviz/metrics"
	"github.com/ilhamster/healthviz/util"
)

const (
	scatterQuery    = "healthviz.scatter"
	axisLabelsQuery = "healthviz.axis_labels"
	recordsQuery    = "healthviz.records"

	datasetKey       = "dataset"
	viewportWidthKey = "viewport_width"
	xMeasureKey      = "x_measure"
	yMeasureKey      = "y_measure"
)

// DefaultViewportWidth is the viewport width assumed when a request names
// none.
const DefaultViewportWidth = 1280

// ErrFetch wraps every failure to fetch a dataset.
var ErrFetch = errors.New("failed to fetch dataset")

// DatasetFetcher describes types capable of fetching datasets by name.
type DatasetFetcher interface {
	// Fetch fetches the dataset specified by name, returning an error if it
	// can't be loaded.
	Fetch(ctx context.Context, name string) (*census.Dataset, error)
}

// Selection is the chart requested by a query or a chart fetch.
type Selection struct {
	Dataset       string
	ViewportWidth float64
	// X and Y are measure IDs; empty means the axis default.
	X, Y string
}

// DataSource implements querydispatcher.dataSource for survey data.  It
// caches the most recently used datasets.
type DataSource struct {
	mu sync.Mutex
	// An LRU cache holding the most recently-accessed datasets.
	lru *simplelru.LRU
	// A fetcher used to fetch uncached datasets.
	fetcher        DatasetFetcher
	defaultDataset string
	chartOpts      []chart.Option
}

// New returns a new DataSource with the specified cache capacity, using the
// provided fetcher.  Requests naming no dataset use defaultDataset, and
// every chart is built with chartOpts.
func New(cap int, fetcher DatasetFetcher, defaultDataset string, chartOpts ...chart.Option) (*DataSource, error) {
	lru, err := simplelru.NewLRU(cap /*no onEvict policy*/, nil)
	if err != nil {
		return nil, err
	}
	return &DataSource{
		lru:            lru,
		fetcher:        fetcher,
		defaultDataset: defaultDataset,
		chartOpts:      chartOpts,
	}, nil
}

// SupportedDataSeriesQueries returns the DataSeriesRequest query names
// supported by DataSource.
func (ds *DataSource) SupportedDataSeriesQueries() []string {
	return []string{
		scatterQuery,
		axisLabelsQuery,
		recordsQuery,
	}
}

// Dataset returns the named dataset from the LRU if it's present there.  If
// it isn't, it is fetched and added to the LRU before being returned.  An
// empty name selects the default dataset.  Failures wrap ErrFetch and are
// not cached, so a later call fetches again.
func (ds *DataSource) Dataset(ctx context.Context, name string) (*census.Dataset, error) {
	if name == "" {
		name = ds.defaultDataset
	}
	ds.mu.Lock()
	cached, ok := ds.lru.Get(name)
	ds.mu.Unlock()
	if ok {
		metrics.CacheHitsTotal.Inc()
		return cached.(*census.Dataset), nil
	}
	dataset, err := ds.fetcher.Fetch(ctx, name)
	if err != nil {
		metrics.FetchFailuresTotal.Inc()
		return nil, fmt.Errorf("%w %q: %w", ErrFetch, name, err)
	}
	ds.mu.Lock()
	ds.lru.Add(name, dataset)
	ds.mu.Unlock()
	return dataset, nil
}

// Controller fetches the selected dataset and returns a controller built
// for the selection.
func (ds *DataSource) Controller(ctx context.Context, sel Selection) (*chart.Controller, error) {
	dataset, err := ds.Dataset(ctx, sel.Dataset)
	if err != nil {
		return nil, err
	}
	c := chart.NewController(dataset, ds.chartOpts...)
	for _, axisSel := range []struct {
		axis measure.Axis
		id   string
	}{{measure.X, sel.X}, {measure.Y, sel.Y}} {
		if axisSel.id == "" {
			continue
		}
		if _, err := c.Select(axisSel.axis, axisSel.id); err != nil {
			return nil, err
		}
	}
	width := sel.ViewportWidth
	if width == 0 {
		width = DefaultViewportWidth
	}
	if err := c.Build(width); err != nil {
		return nil, err
	}
	return c, nil
}

// View returns the surface dimensions of a chart built for the given viewport
// width, whether or not any dataset can be fetched.
func (ds *DataSource) View(viewportWidth float64) (chart.ViewDimensions, error) {
	if viewportWidth == 0 {
		viewportWidth = DefaultViewportWidth
	}
	return chart.NewController(nil, ds.chartOpts...).View(viewportWidth)
}

func optionalString(filters map[string]*util.V, key string) (string, error) {
	v, ok := filters[key]
	if !ok {
		return "", nil
	}
	s, err := util.ExpectStringValue(v)
	if err != nil {
		return "", fmt.Errorf("filter option '%s' must be a string", key)
	}
	return s, nil
}

// selectionFromGlobalFilters returns the Selection described by a
// DataRequest's global filters.
func selectionFromGlobalFilters(filters map[string]*util.V) (Selection, error) {
	var sel Selection
	var err error
	if sel.Dataset, err = optionalString(filters, datasetKey); err != nil {
		return sel, err
	}
	if sel.X, err = optionalString(filters, xMeasureKey); err != nil {
		return sel, err
	}
	if sel.Y, err = optionalString(filters, yMeasureKey); err != nil {
		return sel, err
	}
	if v, ok := filters[viewportWidthKey]; ok {
		// Browsers may report fractional widths.
		if width, err := util.ExpectIntegerValue(v); err == nil {
			sel.ViewportWidth = float64(width)
		} else if sel.ViewportWidth, err = util.ExpectDoubleValue(v); err != nil {
			return sel, fmt.Errorf("filter option '%s' must be a number", viewportWidthKey)
		}
	}
	return sel, nil
}

// HandleDataSeriesRequests handles the provided set of DataSeriesRequests, with
// the provided global filters.  It assembles its responses in the provided
// DataResponseBuilder.
func (ds *DataSource) HandleDataSeriesRequests(ctx context.Context, globalFilters map[string]*util.V, drb *util.DataResponseBuilder, reqs []*util.DataSeriesRequest) error {
	// Log how long it takes to handle each DataRequest.
	start := time.Now()
	queryNames := make([]string, 0, len(reqs))
	for _, req := range reqs {
		queryNames = append(queryNames, req.QueryName)
		metrics.QueriesTotal.WithLabelValues(req.QueryName).Inc()
	}
	defer func() {
		metrics.QueryDurationMs.Observe(float64(time.Since(start).Milliseconds()))
		slog.Debug("handled queries",
			"queries", strings.Join(queryNames, ", "),
			"duration", time.Since(start))
	}()
	sel, err := selectionFromGlobalFilters(globalFilters)
	if err != nil {
		return err
	}
	// Build the chart just once, for all DataSeriesRequests.
	c, err := ds.Controller(ctx, sel)
	if err != nil {
		return err
	}
	ch := c.Chart()
	for _, req := range reqs {
		series := drb.DataSeries(req)
		var err error
		switch req.QueryName {
		case scatterQuery:
			err = handleScatterQuery(ch, series)
		case axisLabelsQuery:
			err = handleAxisLabelsQuery(ch, series)
		case recordsQuery:
			err = handleRecordsQuery(ch, series)
		default:
			err = fmt.Errorf("unsupported data query")
		}
		if err != nil {
			return fmt.Errorf("error handling data query %s: %w", req.QueryName, err)
		}
	}
	return nil
}
