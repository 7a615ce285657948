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

// Package continuousaxis provides decorator helpers for defining continuous
// axes.  An axis has a category naming it, a linear scale mapping its
// domain onto a pixel range, and a set of ticks along that domain.
package continuousaxis

import (
	"github.com/ilhamster/healthviz/category"
	"github.com/ilhamster/healthviz/scale"
	"github.com/ilhamster/healthviz/util"
)

const (
	axisTypeKey       = "axis_type"
	axisMinKey        = "axis_min"
	axisMaxKey        = "axis_max"
	axisRangeStartKey = "axis_range_start_px"
	axisRangeEndKey   = "axis_range_end_px"
	axisTicksKey      = "axis_ticks"
	axisTickLabelsKey = "axis_tick_labels"

	doubleAxisType = "double"

	positionSuffix = "_px"

	xAxisRenderLabelHeightPxKey   = "x_axis_render_label_height_px"
	xAxisRenderMarkersHeightPxKey = "x_axis_render_markers_height_px"
	yAxisRenderLabelWidthPxKey    = "y_axis_render_label_width_px"
	yAxisRenderMarkersWidthPxKey  = "y_axis_render_markers_width_px"
)

// XAxisRenderSettings configures the rendering of an X axis.
type XAxisRenderSettings struct {
	LabelHeightPx   int64
	MarkersHeightPx int64
}

// Apply annotates with the receiving XAxisRenderSettings.
func (x XAxisRenderSettings) Apply() util.PropertyUpdate {
	return util.Chain(
		util.IntegerProperty(xAxisRenderLabelHeightPxKey, x.LabelHeightPx),
		util.IntegerProperty(xAxisRenderMarkersHeightPxKey, x.MarkersHeightPx),
	)
}

// YAxisRenderSettings configures the rendering of a Y axis.
type YAxisRenderSettings struct {
	LabelWidthPx   int64
	MarkersWidthPx int64
}

// Apply annotates with the receiving YAxisRenderSettings.
func (y YAxisRenderSettings) Apply() util.PropertyUpdate {
	return util.Chain(
		util.IntegerProperty(yAxisRenderLabelWidthPxKey, y.LabelWidthPx),
		util.IntegerProperty(yAxisRenderMarkersWidthPxKey, y.MarkersWidthPx),
	)
}

// Axis is a continuous axis over float64 values.
type Axis struct {
	cat        *category.Category
	scale      *scale.Linear
	ticks      []float64
	tickLabels []string
}

// NewDoubleAxis returns a new Axis with the specified category, scale and
// approximate tick count.  A non-positive tickCount yields no ticks.
func NewDoubleAxis(cat *category.Category, s *scale.Linear, tickCount int) *Axis {
	ticks := s.Ticks(tickCount)
	format := s.TickFormat(tickCount)
	labels := make([]string, len(ticks))
	for idx, tick := range ticks {
		labels[idx] = format(tick)
	}
	return &Axis{
		cat:        cat,
		scale:      s,
		ticks:      ticks,
		tickLabels: labels,
	}
}

// Define annotates with a definition of the receiver.
func (a *Axis) Define() util.PropertyUpdate {
	d0, d1 := a.scale.Domain()
	r0, r1 := a.scale.Range()
	return util.Chain(
		a.cat.Define(),
		util.StringProperty(axisTypeKey, doubleAxisType),
		util.DoubleProperty(axisMinKey, d0),
		util.DoubleProperty(axisMaxKey, d1),
		util.DoubleProperty(axisRangeStartKey, r0),
		util.DoubleProperty(axisRangeEndKey, r1),
		util.DoublesProperty(axisTicksKey, a.ticks...),
		util.StringsProperty(axisTickLabelsKey, a.tickLabels...),
	)
}

// Value annotates with v as a value along the receiver.
func (a *Axis) Value(v float64) util.PropertyUpdate {
	return util.DoubleProperty(a.cat.ID(), v)
}

// Position annotates with the pixel position of v along the receiver.
func (a *Axis) Position(v float64) util.PropertyUpdate {
	return util.DoubleProperty(a.PositionKey(), a.scale.Map(v))
}

// PositionKey returns the property key under which Position stores pixel
// positions.
func (a *Axis) PositionKey() string {
	return a.cat.ID() + positionSuffix
}

// CategoryID returns the category ID of the receiving Axis.
func (a *Axis) CategoryID() string {
	return a.cat.ID()
}

// Category returns the receiver's category.
func (a *Axis) Category() *category.Category {
	return a.cat
}

// Scale returns the receiver's scale.
func (a *Axis) Scale() *scale.Linear {
	return a.scale
}

// Ticks returns the receiver's tick values.
func (a *Axis) Ticks() []float64 {
	return a.ticks
}

// TickLabels returns the receiver's formatted tick labels, parallel to
// Ticks.
func (a *Axis) TickLabels() []string {
	return a.tickLabels
}
