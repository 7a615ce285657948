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

// Package render draws built charts: as an interactive SVG surface for the
// browser, as a static image, and as a spreadsheet.
package render

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ilhamster/healthviz/chart"
	"github.com/ilhamster/healthviz/style"
)

const (
	svgNamespace = "http://www.w3.org/2000/svg"

	markerRadius     = 10
	markerTextSize   = "10px"
	markerTextOffset = 3
	tickSize         = 6
	tickPadding      = 3
	labelSpacing     = 20
	labelFontSize    = "14px"
)

// svgWriter writes SVG markup, holding the first write error.
type svgWriter struct {
	w   *bufio.Writer
	err error
}

func (sw *svgWriter) printf(format string, args ...any) {
	if sw.err != nil {
		return
	}
	_, sw.err = fmt.Fprintf(sw.w, format, args...)
}

// text writes s escaped for character data or attribute values.
func (sw *svgWriter) text(s string) {
	if sw.err != nil {
		return
	}
	sw.err = xml.EscapeText(sw.w, []byte(s))
}

// attr writes ` name="value"`.
func (sw *svgWriter) attr(name, value string) {
	sw.printf(` %s="`, name)
	sw.text(value)
	sw.printf(`"`)
}

func (sw *svgWriter) flush() error {
	if sw.err != nil {
		return sw.err
	}
	return sw.w.Flush()
}

func fixed(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func translate(x, y float64) string {
	return "translate(" + fixed(x) + "," + fixed(y) + ")"
}

func (sw *svgWriter) open(view chart.ViewDimensions, class string, transitionMs int64) {
	sw.printf(`<svg xmlns="%s"`, svgNamespace)
	sw.attr("width", fixed(view.Width))
	sw.attr("height", fixed(view.Height))
	sw.attr("viewBox", "0 0 "+fixed(view.Width)+" "+fixed(view.Height))
	sw.attr("class", class)
	sw.attr("data-transition-ms", strconv.FormatInt(transitionMs, 10))
	sw.printf(">")
}

// EmptySVG writes a surface sized for view but holding no chart.
func EmptySVG(w io.Writer, view chart.ViewDimensions) error {
	sw := &svgWriter{w: bufio.NewWriter(w)}
	sw.open(view, "healthviz empty", 0)
	sw.printf("</svg>\n")
	return sw.flush()
}

// SVG writes ch as a standalone SVG document.  Markers are positioned with a
// CSS transform so that the browser can transition them between charts;
// markers and labels carry data- attributes identifying them.
func SVG(w io.Writer, ch *chart.Chart) error {
	sw := &svgWriter{w: bufio.NewWriter(w)}
	view := ch.View
	sw.open(view, "healthviz", ch.Transition.Milliseconds())
	sw.printf(`<g class="chart"`)
	sw.attr("transform", translate(view.Margins.Left, view.Margins.Top))
	sw.printf(">")
	sw.xAxis(ch)
	sw.yAxis(ch)
	sw.markers(ch)
	sw.xLabels(ch)
	sw.yLabels(ch)
	sw.printf("</g></svg>\n")
	return sw.flush()
}

func (sw *svgWriter) xAxis(ch *chart.Chart) {
	ax := ch.X
	r0, r1 := ax.Scale().Range()
	sw.printf(`<g class="axis x-axis" data-measure="%s"`, ax.Measure.ID)
	sw.attr("transform", translate(0, ch.View.InteriorHeight))
	sw.printf(` fill="none" font-size="10" text-anchor="middle">`)
	sw.printf(`<path class="domain" stroke="currentColor" d="M%s,%dV0H%sV%d"/>`,
		fixed(r0), tickSize, fixed(r1), tickSize)
	labels := ax.TickLabels()
	for idx, tick := range ax.Ticks() {
		sw.printf(`<g class="tick"`)
		sw.attr("transform", translate(ax.Scale().Map(tick), 0))
		sw.printf(`><line stroke="currentColor" y2="%d"/>`, tickSize)
		sw.printf(`<text fill="currentColor" y="%d" dy="0.71em">`, tickSize+tickPadding)
		sw.text(labels[idx])
		sw.printf(`</text></g>`)
	}
	sw.printf(`</g>`)
}

func (sw *svgWriter) yAxis(ch *chart.Chart) {
	ax := ch.Y
	r0, r1 := ax.Scale().Range()
	sw.printf(`<g class="axis y-axis" data-measure="%s"`, ax.Measure.ID)
	sw.printf(` fill="none" font-size="10" text-anchor="end">`)
	sw.printf(`<path class="domain" stroke="currentColor" d="M-%d,%sH0V%sH-%d"/>`,
		tickSize, fixed(r0), fixed(r1), tickSize)
	labels := ax.TickLabels()
	for idx, tick := range ax.Ticks() {
		sw.printf(`<g class="tick"`)
		sw.attr("transform", translate(0, ax.Scale().Map(tick)))
		sw.printf(`><line stroke="currentColor" x2="-%d"/>`, tickSize)
		sw.printf(`<text fill="currentColor" x="-%d" dy="0.32em">`, tickSize+tickPadding)
		sw.text(labels[idx])
		sw.printf(`</text></g>`)
	}
	sw.printf(`</g>`)
}

func (sw *svgWriter) markers(ch *chart.Chart) {
	p := ch.Palette
	sw.printf(`<g class="markers">`)
	for _, pt := range ch.Points {
		sw.printf(`<g class="marker"`)
		sw.attr("data-abbr", pt.Record.Abbr)
		sw.attr("data-tooltip", pt.Tooltip.String())
		sw.attr("style", style.New().
			With("transform", "translate("+style.Px(pt.X)+","+style.Px(pt.Y)+")").
			String())
		sw.printf(`><title>`)
		sw.text(pt.Tooltip.String())
		sw.printf(`</title>`)
		sw.printf(`<circle cx="0" cy="-%d" r="%d" stroke-width="1"`, markerTextOffset, markerRadius)
		sw.attr("fill", p.MarkerFill)
		sw.attr("stroke", p.MarkerStroke)
		sw.printf(`/><text class="stateText" text-anchor="middle"`)
		sw.attr("font-size", markerTextSize)
		sw.attr("fill", p.MarkerText)
		sw.printf(">")
		sw.text(pt.Record.Abbr)
		sw.printf(`</text></g>`)
	}
	sw.printf(`</g>`)
}

func labelClass(l chart.Label) string {
	if l.Active {
		return "axis-label active"
	}
	return "axis-label inactive"
}

func (sw *svgWriter) label(ch *chart.Chart, l chart.Label, x, y float64, transform string) {
	sw.printf(`<text`)
	sw.attr("class", labelClass(l))
	sw.attr("data-axis", l.Axis.String())
	sw.attr("data-measure", l.Measure.ID)
	sw.attr("x", fixed(x))
	sw.attr("y", fixed(y))
	if transform != "" {
		sw.attr("transform", transform)
	}
	sw.attr("text-anchor", "middle")
	sw.attr("font-size", labelFontSize)
	sw.attr("fill", ch.Palette.LabelColor(l.Active))
	sw.printf(">")
	sw.text(l.Text)
	sw.printf(`</text>`)
}

func (sw *svgWriter) xLabels(ch *chart.Chart) {
	sw.printf(`<g class="labels x-labels">`)
	for idx, l := range ch.X.Labels {
		sw.label(ch, l,
			ch.View.InteriorWidth/2,
			ch.View.InteriorHeight+float64(labelSpacing*(idx+2)),
			"")
	}
	sw.printf(`</g>`)
}

func (sw *svgWriter) yLabels(ch *chart.Chart) {
	sw.printf(`<g class="labels y-labels">`)
	for idx, l := range ch.Y.Labels {
		sw.label(ch, l,
			-ch.View.InteriorHeight/2,
			-ch.View.Margins.Left+float64(labelSpacing*(idx+1)),
			"rotate(-90)")
	}
	sw.printf(`</g>`)
}
