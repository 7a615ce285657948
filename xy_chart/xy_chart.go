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

// Package xychart facilitates the construction of xy-chart data.
// Given a dedicated chartRoot util.DataBuilder representing the root node of
// the chart, and which must not be used for any other purpose, a new XYChart
// instance may be created via
//
//	chart := New(chartRoot, xAxis, yAxis, ...properties)
//
// Additional properties may also be added to the chart via
//
//	chart.With(properties...)
//
// Then, a new data series within the chart may be added via
//
//	series := chart.AddSeries(category)
//
// with the provided *category.Category describing the series.  Points may be
// added to the series via
//
//	series.WithPoint(x, y, properties...)
//
// Each point carries both its raw values and its pixel position along each
// axis.
//
// The structure of an xy chart in a response, with each level representing a
// DataSeries or nested Datum is:
//
//	xychart
//	  properties:
//	    * <decorators>
//	  children:
//	    * axes
//	    * repeated series
//
//	axes
//	  children:
//	    * x axis
//	    * y axis
//
//	axis
//	  properties:
//	    * axis definition
//	    * <render settings>
//
//	series
//	  properties:
//	    * category definition
//	    * <decorators>
//	  children:
//	    repeated points
//
//	point
//	  properties:
//	    * xAxisName: DoubleValue
//	    * xAxisName_px: DoubleValue
//	    * yAxisName: DoubleValue
//	    * yAxisName_px: DoubleValue
//	    * <decorators>
package xychart

import (
	"github.com/ilhamster/healthviz/category"
	continuousaxis "github.com/ilhamster/healthviz/continuous_axis"
	"github.com/ilhamster/healthviz/util"
)

// XYChart represents an xy-chart embedded in a response.
type XYChart struct {
	xAxis, yAxis *continuousaxis.Axis
	db           util.DataBuilder
}

// AxisOption annotates an axis definition, for instance with render
// settings.
type AxisOption = util.PropertyUpdate

// New constructs a new xy chart.
func New(
	db util.DataBuilder,
	xAxis, yAxis *continuousaxis.Axis,
	properties ...util.PropertyUpdate,
) *XYChart {
	return NewWithAxisOptions(db, xAxis, nil, yAxis, nil, properties...)
}

// NewWithAxisOptions is like New, but also annotates each axis definition
// with the corresponding options.
func NewWithAxisOptions(
	db util.DataBuilder,
	xAxis *continuousaxis.Axis, xOpts []AxisOption,
	yAxis *continuousaxis.Axis, yOpts []AxisOption,
	properties ...util.PropertyUpdate,
) *XYChart {
	ret := &XYChart{
		xAxis: xAxis,
		yAxis: yAxis,
		db:    db.With(properties...),
	}
	axes := ret.db.Child() // Axis definitions
	axes.Child().With(xAxis.Define()).With(xOpts...)
	axes.Child().With(yAxis.Define()).With(yOpts...)
	return ret
}

// With annotates the receiving xy-chart with the provided properties.
func (xyc *XYChart) With(properties ...util.PropertyUpdate) *XYChart {
	xyc.db.With(properties...)
	return xyc
}

// AddSeries defines a series within the receiving XYChart, tagged with the
// specified Category.  It returns a Series that can accept points with
// WithPoint.
func (xyc *XYChart) AddSeries(category *category.Category, properties ...util.PropertyUpdate) *Series {
	db := xyc.db.Child().With(category.Define()).With(properties...)
	return &Series{
		xyc: xyc,
		db:  db,
	}
}

// Series helps define a series within a XYChart.
type Series struct {
	xyc *XYChart
	db  util.DataBuilder
}

// With annotates the receiving Series with the provided properties.
func (s *Series) With(properties ...util.PropertyUpdate) *Series {
	s.db.With(properties...)
	return s
}

// WithPoint adds a data point to the receiving Series, with the
// specified x and y values and arbitrary other properties.
func (s *Series) WithPoint(x, y float64, properties ...util.PropertyUpdate) *Series {
	s.db.Child().With(
		s.xyc.xAxis.Value(x),
		s.xyc.xAxis.Position(x),
		s.xyc.yAxis.Value(y),
		s.xyc.yAxis.Position(y),
	).With(properties...)
	return s
}
