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

package datasource

import (
	"github.com/ilhamster/healthviz/category"
	"github.com/ilhamster/healthviz/chart"
	continuousaxis "github.com/ilhamster/healthviz/continuous_axis"
	"github.com/ilhamster/healthviz/label"
	"github.com/ilhamster/healthviz/measure"
	"github.com/ilhamster/healthviz/payload"
	"github.com/ilhamster/healthviz/style"
	"github.com/ilhamster/healthviz/table"
	"github.com/ilhamster/healthviz/util"
	xychart "github.com/ilhamster/healthviz/xy_chart"
)

const (
	abbrKey    = "abbr"
	stateKey   = "state"
	axisKey    = "axis"
	measureKey = "measure"
	activeKey  = "active"
	tooltipKey = "tooltip"

	surfaceWidthKey  = "surface_width_px"
	surfaceHeightKey = "surface_height_px"
	marginsKey       = "margins_px"
	transitionMsKey  = "transition_ms"
	tooltipPayload   = "tooltip"
	stateFormat      = "$(state) ($(abbr))"
	markerRadiusPx   = 10
	markerTextSizePx = 10
)

var (
	recordsCat = category.New("records", "Records", "One point per surveyed state")

	xAxisRenderSettings = continuousaxis.XAxisRenderSettings{
		LabelHeightPx:   20,
		MarkersHeightPx: 6,
	}
	yAxisRenderSettings = continuousaxis.YAxisRenderSettings{
		LabelWidthPx:   20,
		MarkersWidthPx: 6,
	}

	markerStyle = style.New().
			With("r", style.Px(markerRadiusPx)).
			With("stroke-width", "1").
			With("font-size", style.Px(markerTextSizePx))

	abbrCol  = table.Column(category.New(abbrKey, "Abbr", "The state's abbreviation"))
	stateCol = table.Column(category.New(stateKey, "State", "The state's name"))

	renderSettings = &table.RenderSettings{
		RowHeightPx: 20,
		FontSizePx:  14,
	}
)

// measureCols holds a table column per measure, in measure.All order.
var measureCols = func() []*table.ColumnUpdate {
	ret := []*table.ColumnUpdate{}
	for _, m := range measure.All() {
		ret = append(ret, table.Column(m.Category()))
	}
	return ret
}()

func tooltipLines(t chart.Tooltip) []string {
	return append([]string{t.Title}, t.Lines...)
}

func handleScatterQuery(ch *chart.Chart, series util.DataBuilder) error {
	view := ch.View
	xyc := xychart.NewWithAxisOptions(series,
		ch.X.Axis, []xychart.AxisOption{xAxisRenderSettings.Apply()},
		ch.Y.Axis, []xychart.AxisOption{yAxisRenderSettings.Apply()},
		util.DoubleProperty(surfaceWidthKey, view.Width),
		util.DoubleProperty(surfaceHeightKey, view.Height),
		util.DoublesProperty(marginsKey,
			view.Margins.Top, view.Margins.Right, view.Margins.Bottom, view.Margins.Left),
		util.IntegerProperty(transitionMsKey, ch.Transition.Milliseconds()),
	)
	points := xyc.AddSeries(recordsCat, ch.Palette.Marker(), markerStyle.Define())
	for _, p := range ch.Points {
		points.WithPoint(
			p.Record.Value(ch.X.Measure),
			p.Record.Value(ch.Y.Measure),
			util.StringProperty(abbrKey, p.Record.Abbr),
			label.Text(p.Record.Abbr),
			util.StringsProperty(tooltipKey, tooltipLines(p.Tooltip)...),
		)
	}
	return nil
}

func handleAxisLabelsQuery(ch *chart.Chart, series util.DataBuilder) error {
	for _, ax := range []*chart.Axis{ch.X, ch.Y} {
		for _, l := range ax.Labels {
			series.Child().With(
				l.Measure.Category().Tag(),
				util.StringProperty(axisKey, l.Axis.String()),
				util.StringProperty(measureKey, l.Measure.ID),
				label.Text(l.Text),
				util.BooleanProperty(activeKey, l.Active),
				ch.Palette.Label(l.Active),
			)
		}
	}
	return nil
}

func handleRecordsQuery(ch *chart.Chart, series util.DataBuilder) error {
	cols := append([]*table.ColumnUpdate{abbrCol, stateCol}, measureCols...)
	t := table.New(series, renderSettings, cols...)
	for _, p := range ch.Points {
		cells := []table.CellUpdate{
			table.Cell(abbrCol, util.String(p.Record.Abbr)),
			table.FormattedCell(stateCol, stateFormat,
				util.StringProperty(stateKey, p.Record.Name),
				util.StringProperty(abbrKey, p.Record.Abbr),
			),
		}
		for idx, m := range measure.All() {
			cells = append(cells, table.Cell(measureCols[idx], util.Double(p.Record.Value(m))))
		}
		row := t.Row(cells...).With(
			util.StringProperty(abbrKey, p.Record.Abbr),
		)
		payload.New(row, tooltipPayload).With(
			util.StringsProperty(tooltipKey, tooltipLines(p.Tooltip)...),
		)
	}
	return nil
}
