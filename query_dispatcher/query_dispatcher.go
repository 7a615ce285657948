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

// Package querydispatcher provides QueryDispatcher, which routes the series
// requests of a DataRequest to the data sources that answer them.
package querydispatcher

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ilhamster/healthviz/util"
	"golang.org/x/sync/errgroup"
)

// ErrUnsupportedQuery is returned for a series request no data source
// answers.
var ErrUnsupportedQuery = errors.New("unsupported data query")

// dataSource answers a set of named data series queries.  dataSource
// instances must support concurrent HandleDataSeriesRequests calls.
type dataSource interface {
	// SupportedDataSeriesQueries returns the DataSeriesRequest.QueryNames
	// this dataSource handles.  Query names should be unique across data
	// sources, e.g., by a shared prefix.
	SupportedDataSeriesQueries() []string
	// HandleDataSeriesRequests handles a set of DataSeriesRequests with the
	// supplied global filters, adding one DataSeries per request to drb.  Any
	// returned error fails the entire DataRequest.
	HandleDataSeriesRequests(ctx context.Context, globalFilters map[string]*util.V, drb *util.DataResponseBuilder, reqs []*util.DataSeriesRequest) error
}

// QueryDispatcher multiplexes data sources.
type QueryDispatcher struct {
	dataSources []dataSource
	// Maps data series query names to indices (in dataSources) of the
	// dataSources that handle those queries.
	dataSeriesQueryHandlers map[string]int
}

// New returns a *QueryDispatcher wrapping the provided dataSources.  Two
// data sources may not handle the same query.
func New(dss ...dataSource) (*QueryDispatcher, error) {
	qd := &QueryDispatcher{
		dataSeriesQueryHandlers: map[string]int{},
	}
	for dsIdx, ds := range dss {
		qd.dataSources = append(qd.dataSources, ds)
		for _, queryName := range ds.SupportedDataSeriesQueries() {
			if _, ok := qd.dataSeriesQueryHandlers[queryName]; ok {
				return nil, fmt.Errorf(
					"multiple dataSources handle data query `%s`", queryName)
			}
			qd.dataSeriesQueryHandlers[queryName] = dsIdx
		}
	}
	return qd, nil
}

// SupportedQueries returns every query name the receiver dispatches, in
// sorted order.
func (qd *QueryDispatcher) SupportedQueries() []string {
	ret := make([]string, 0, len(qd.dataSeriesQueryHandlers))
	for queryName := range qd.dataSeriesQueryHandlers {
		ret = append(ret, queryName)
	}
	sort.Strings(ret)
	return ret
}

// HandleDataRequest distributes the provided DataRequest's DataSeriesRequests
// to their data sources, which run concurrently, then assembles their
// results into a single Data.  Series appear in request order.
func (qd *QueryDispatcher) HandleDataRequest(ctx context.Context, req *util.DataRequest) (*util.Data, error) {
	drb := util.NewDataResponseBuilder()
	// A mapping from dataSource index to the requests that source handles.
	groupedReqs := map[int][]*util.DataSeriesRequest{}
	order := map[string]int{}
	for idx, seriesReq := range req.SeriesRequests {
		dsIdx, ok := qd.dataSeriesQueryHandlers[seriesReq.QueryName]
		if !ok {
			return nil, fmt.Errorf("%w `%s`", ErrUnsupportedQuery, seriesReq.QueryName)
		}
		groupedReqs[dsIdx] = append(groupedReqs[dsIdx], seriesReq)
		if _, ok := order[seriesReq.SeriesName]; !ok {
			order[seriesReq.SeriesName] = idx
		}
	}
	errg, ctx := errgroup.WithContext(ctx)
	for dsIdx, seriesReqs := range groupedReqs {
		ds := qd.dataSources[dsIdx]
		errg.Go(func() error {
			return ds.HandleDataSeriesRequests(ctx, req.GlobalFilters, drb, seriesReqs)
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	data, err := drb.Data()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(data.DataSeries, func(a, b int) bool {
		return order[data.DataSeries[a].SeriesName] < order[data.DataSeries[b].SeriesName]
	})
	return data, nil
}
