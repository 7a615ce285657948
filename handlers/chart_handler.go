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

package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ilhamster/healthviz/chart"
	datasource "github.com/ilhamster/healthviz/data_source"
	"github.com/ilhamster/healthviz/measure"
	"github.com/ilhamster/healthviz/metrics"
	querydispatcher "github.com/ilhamster/healthviz/query_dispatcher"
	"github.com/ilhamster/healthviz/render"
)

const (
	chartMethod     = "/chart.svg"
	exportPNGMethod = "/export.png"
	exportSVGMethod = "/export.svg"
	exportXLSMethod = "/export.xlsx"

	widthParam   = "width"
	xParam       = "x"
	yParam       = "y"
	datasetParam = "dataset"
	// switchParam names the axis whose label was clicked, if any.
	switchParam = "switch"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var errBadParameter = errors.New("bad parameter")

// statusOf maps a request failure to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadParameter),
		errors.Is(err, measure.ErrUnknown),
		errors.Is(err, chart.ErrNotPermitted),
		errors.Is(err, chart.ErrBadViewport),
		errors.Is(err, querydispatcher.ErrUnsupportedQuery):
		return http.StatusBadRequest
	case errors.Is(err, datasource.ErrFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// selectionOf returns the chart selection named by a request's query
// parameters.
func selectionOf(q url.Values) (datasource.Selection, error) {
	sel := datasource.Selection{
		Dataset: q.Get(datasetParam),
		X:       q.Get(xParam),
		Y:       q.Get(yParam),
	}
	if w := q.Get(widthParam); w != "" {
		width, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return sel, fmt.Errorf("%w: %s %q", errBadParameter, widthParam, w)
		}
		if width <= 0 {
			return sel, fmt.Errorf("%w: %s %v must be positive", errBadParameter, widthParam, width)
		}
		sel.ViewportWidth = width
	}
	return sel, nil
}

// chartHandler serves the rendered chart and its exports.
type chartHandler struct {
	ds       *datasource.DataSource
	wrappers []WrapFunc
}

// NewChartHandler returns a Handler rendering charts from the provided
// DataSource.
func NewChartHandler(ds *datasource.DataSource) QueryHandler {
	return &chartHandler{ds: ds}
}

func (ch *chartHandler) Wrap(wrappers ...WrapFunc) Handler {
	ch.wrappers = append(ch.wrappers, wrappers...)
	return ch
}

// HandlersByPath returns a mapping of HTTP request path to HTTP handler for
// this Handler.
func (ch *chartHandler) HandlersByPath() map[string]func(http.ResponseWriter, *http.Request) {
	return map[string]func(http.ResponseWriter, *http.Request){
		chartMethod:     wrap(ch.getChartHandler, ch.wrappers),
		exportPNGMethod: wrap(ch.exportHandler(render.PNG, "image/png", render.WritePlotFunc(render.PNG)), ch.wrappers),
		exportSVGMethod: wrap(ch.exportHandler(render.SVGFormat, "image/svg+xml", render.WritePlotFunc(render.SVGFormat)), ch.wrappers),
		exportXLSMethod: wrap(ch.exportHandler("xlsx", xlsxContentType, render.WriteWorkbook), ch.wrappers),
	}
}

// build returns the chart selected by req along with the selection.
func (ch *chartHandler) build(req *http.Request) (*chart.Chart, datasource.Selection, error) {
	q := req.URL.Query()
	sel, err := selectionOf(q)
	if err != nil {
		return nil, sel, err
	}
	c, err := ch.ds.Controller(req.Context(), sel)
	if err != nil {
		return nil, sel, err
	}
	if axisName := q.Get(switchParam); axisName != "" {
		axis, err := measure.ParseAxis(axisName)
		if err != nil {
			return nil, sel, fmt.Errorf("%w: %s: %w", errBadParameter, switchParam, err)
		}
		metrics.AxisSwitchesTotal.WithLabelValues(axis.String(), c.State().Get(axis).ID).Inc()
	}
	return c.Chart(), sel, nil
}

func (ch *chartHandler) getChartHandler(w http.ResponseWriter, req *http.Request) {
	built, sel, err := ch.build(req)
	if err != nil {
		status := statusOf(err)
		slog.Error("chart request failed", "status", status, "err", err)
		if status != http.StatusBadGateway {
			http.Error(w, err.Error(), status)
			return
		}
		// The client keeps an empty surface when the data can't be fetched.
		view, viewErr := ch.ds.View(sel.ViewportWidth)
		if viewErr != nil {
			http.Error(w, err.Error(), status)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(status)
		if err := render.EmptySVG(w, view); err != nil {
			slog.Error("failed to write empty chart", "err", err)
		}
		return
	}
	var buf bytes.Buffer
	if err := render.SVG(&buf, built); err != nil {
		slog.Error("failed to render chart", "err", err)
		http.Error(w, "Failed to render chart: "+err.Error(), http.StatusInternalServerError)
		return
	}
	metrics.ChartRendersTotal.WithLabelValues("svg").Inc()
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	buf.WriteTo(w)
}

// exportHandler returns a handler writing the selected chart with write.
func (ch *chartHandler) exportHandler(format, contentType string, write render.WriterFunc) HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		built, _, err := ch.build(req)
		if err != nil {
			status := statusOf(err)
			slog.Error("export request failed", "format", format, "status", status, "err", err)
			http.Error(w, err.Error(), status)
			return
		}
		var buf bytes.Buffer
		if err := write(&buf, built); err != nil {
			slog.Error("failed to export chart", "format", format, "err", err)
			http.Error(w, "Failed to export chart: "+err.Error(), http.StatusInternalServerError)
			return
		}
		metrics.ChartRendersTotal.WithLabelValues(format).Inc()
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q",
			fmt.Sprintf("healthviz-%s-%s.%s", built.X.Measure.ID, built.Y.Measure.ID, format)))
		buf.WriteTo(w)
	}
}
