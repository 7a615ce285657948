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

package render

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ilhamster/healthviz/chart"
	hvcolor "github.com/ilhamster/healthviz/color"
)

// Static image formats supported by WritePlot.
const (
	PNG       = "png"
	SVGFormat = "svg"
)

func ticks(ax *chart.Axis) plot.ConstantTicks {
	labels := ax.TickLabels()
	ret := make(plot.ConstantTicks, len(ax.Ticks()))
	for idx, tick := range ax.Ticks() {
		ret[idx] = plot.Tick{Value: tick, Label: labels[idx]}
	}
	return ret
}

// Plot returns a static rendition of ch.
func Plot(ch *chart.Chart) (*plot.Plot, error) {
	fill, err := hvcolor.Parse(ch.Palette.MarkerFill)
	if err != nil {
		return nil, err
	}
	stroke, err := hvcolor.Parse(ch.Palette.MarkerText)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.X.Label.Text = ch.X.Measure.Label
	p.Y.Label.Text = ch.Y.Measure.Label
	p.X.Min, p.X.Max = ch.X.Scale().Domain()
	p.Y.Min, p.Y.Max = ch.Y.Scale().Domain()
	p.X.Tick.Marker = ticks(ch.X)
	p.Y.Tick.Marker = ticks(ch.Y)

	xys := make(plotter.XYs, len(ch.Points))
	abbrs := make([]string, len(ch.Points))
	for idx, pt := range ch.Points {
		xys[idx].X = pt.Record.Value(ch.X.Measure)
		xys[idx].Y = pt.Record.Value(ch.Y.Measure)
		abbrs[idx] = pt.Record.Abbr
	}
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("failed to plot points: %w", err)
	}
	scatter.GlyphStyle = draw.GlyphStyle{
		Color:  fill,
		Radius: vg.Points(markerRadius * 0.6),
		Shape:  draw.CircleGlyph{},
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: abbrs})
	if err != nil {
		return nil, fmt.Errorf("failed to label points: %w", err)
	}
	for idx := range labels.TextStyle {
		labels.TextStyle[idx].Color = stroke
		labels.TextStyle[idx].XAlign = draw.XCenter
		labels.TextStyle[idx].YAlign = draw.YCenter
		labels.TextStyle[idx].Font.Size = vg.Points(5)
	}
	p.Add(scatter, labels)
	return p, nil
}

// WriterFunc writes a chart to w in some format.
type WriterFunc func(w io.Writer, ch *chart.Chart) error

// WritePlotFunc returns a WriterFunc writing static renditions in format.
func WritePlotFunc(format string) WriterFunc {
	return func(w io.Writer, ch *chart.Chart) error {
		return WritePlot(w, ch, format)
	}
}

// WritePlot writes a static rendition of ch, sized like its surface, in the
// given format: PNG or SVGFormat.
func WritePlot(w io.Writer, ch *chart.Chart, format string) error {
	if format != PNG && format != SVGFormat {
		return fmt.Errorf("unsupported image format %q", format)
	}
	p, err := Plot(ch)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(vg.Points(ch.View.Width), vg.Points(ch.View.Height), format)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", format, err)
	}
	_, err = wt.WriteTo(w)
	return err
}
