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

// Package chart implements the scatter chart controller.  A Controller owns
// the selected X and Y measures and, once built for a viewport width, the
// chart's dimensions, scales, points and axis labels.  Switching an axis'
// measure recomputes only that axis.
//
// A Controller is not safe for concurrent use.
package chart

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ilhamster/healthviz/census"
	"github.com/ilhamster/healthviz/color"
	continuousaxis "github.com/ilhamster/healthviz/continuous_axis"
	"github.com/ilhamster/healthviz/label"
	"github.com/ilhamster/healthviz/measure"
	"github.com/ilhamster/healthviz/scale"
)

var (
	// ErrNotPermitted is returned when a measure is selected for an axis it
	// does not belong to.
	ErrNotPermitted = errors.New("measure not permitted on axis")
	// ErrBadViewport is returned for a negative or non-finite viewport width.
	ErrBadViewport = errors.New("invalid viewport width")
)

const (
	// DefaultTransition is how long points take to move after an axis switch.
	DefaultTransition = 1000 * time.Millisecond
	// DefaultMinSurfaceWidth is the narrowest surface a chart is built with.
	DefaultMinSurfaceWidth = 300
	// DefaultXTicks and DefaultYTicks are the approximate axis tick counts.
	DefaultXTicks = 10
	DefaultYTicks = 6

	xHeadroomLow  = 0.9
	xHeadroomHigh = 1.1
	yHeadroom     = 1.1

	tooltipLineFormat = "$(name): $(value)"
)

// Margins separates the chart interior from the surface edges, in pixels.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargins leaves room below and left of the interior for the axes and
// their three stacked labels.
var DefaultMargins = Margins{Top: 20, Right: 40, Bottom: 100, Left: 100}

// ViewDimensions are the surface and interior sizes derived from a viewport
// width.
type ViewDimensions struct {
	ViewportWidth float64
	// Width and Height are the surface size.
	Width, Height float64
	// InteriorWidth and InteriorHeight are the surface size less margins.
	InteriorWidth, InteriorHeight float64
	Margins                       Margins
}

// NewViewDimensions returns the dimensions of a chart in a viewport of the
// given width: the surface is half the viewport wide, but no narrower than
// minWidth, and 9/16 as tall as it is wide.
func NewViewDimensions(viewportWidth float64, margins Margins, minWidth float64) (ViewDimensions, error) {
	if math.IsNaN(viewportWidth) || math.IsInf(viewportWidth, 0) || viewportWidth < 0 {
		return ViewDimensions{}, fmt.Errorf("%w: %v", ErrBadViewport, viewportWidth)
	}
	width := max(viewportWidth/2, minWidth)
	height := width * 9 / 16
	return ViewDimensions{
		ViewportWidth:  viewportWidth,
		Width:          width,
		Height:         height,
		InteriorWidth:  max(width-margins.Left-margins.Right, 0),
		InteriorHeight: max(height-margins.Top-margins.Bottom, 0),
		Margins:        margins,
	}, nil
}

// State is the selected measure of each axis.
type State struct {
	X, Y *measure.Measure
}

// DefaultState selects each axis' default measure.
func DefaultState() State {
	return State{
		X: measure.Default(measure.X),
		Y: measure.Default(measure.Y),
	}
}

// Get returns the measure selected for a.
func (s State) Get(a measure.Axis) *measure.Measure {
	if a == measure.X {
		return s.X
	}
	return s.Y
}

func (s *State) set(a measure.Axis, m *measure.Measure) {
	if a == measure.X {
		s.X = m
	} else {
		s.Y = m
	}
}

// Label is one clickable axis label.
type Label struct {
	Axis    measure.Axis
	Measure *measure.Measure
	Text    string
	Active  bool
}

// Axis is a built chart axis: its measure, its scale and ticks, and its
// label group.
type Axis struct {
	*continuousaxis.Axis
	Which   measure.Axis
	Measure *measure.Measure
	Labels  []Label
}

// Tooltip is the hover text of a point.
type Tooltip struct {
	Title string
	Lines []string
}

func (t Tooltip) String() string {
	ret := t.Title
	for _, line := range t.Lines {
		ret += "\n" + line
	}
	return ret
}

// Point is one record placed in the chart interior.
type Point struct {
	Record *census.Record
	// X and Y are pixel offsets from the interior's top-left corner.
	X, Y    float64
	Tooltip Tooltip
}

// Chart is a fully built scatter chart.
type Chart struct {
	View       ViewDimensions
	X, Y       *Axis
	Points     []Point
	Transition time.Duration
	Palette    color.Palette
}

// Axis returns the receiver's axis a.
func (c *Chart) Axis(a measure.Axis) *Axis {
	if a == measure.X {
		return c.X
	}
	return c.Y
}

// SurfacePosition returns p's position relative to the surface origin.
func (c *Chart) SurfacePosition(p Point) (x, y float64) {
	return p.X + c.View.Margins.Left, p.Y + c.View.Margins.Top
}

type options struct {
	margins    Margins
	minWidth   float64
	transition time.Duration
	palette    color.Palette
	xTicks     int
	yTicks     int
}

// Option configures a Controller.
type Option func(*options)

// WithMargins sets the chart margins.
func WithMargins(m Margins) Option {
	return func(o *options) {
		o.margins = m
	}
}

// WithMinSurfaceWidth sets the narrowest surface width.
func WithMinSurfaceWidth(w float64) Option {
	return func(o *options) {
		o.minWidth = w
	}
}

// WithTransition sets the axis switch transition duration.
func WithTransition(d time.Duration) Option {
	return func(o *options) {
		o.transition = d
	}
}

// WithPalette sets the chart colors.
func WithPalette(p color.Palette) Option {
	return func(o *options) {
		o.palette = p.WithDefaults()
	}
}

// WithTickCounts sets the approximate tick count of each axis.
func WithTickCounts(x, y int) Option {
	return func(o *options) {
		o.xTicks, o.yTicks = x, y
	}
}

// Controller builds a scatter chart of a dataset and responds to resizes and
// axis switches.  The HTTP server keeps no Controller between requests: it
// builds a fresh one per request and selects measures before Build.  Select
// after Build rebuilds only the switched axis.
type Controller struct {
	ds    *census.Dataset
	opts  options
	state State
	chart *Chart
}

// NewController returns a Controller over ds with the default selection.
// No chart exists until Build is called.
func NewController(ds *census.Dataset, opts ...Option) *Controller {
	o := options{
		margins:    DefaultMargins,
		minWidth:   DefaultMinSurfaceWidth,
		transition: DefaultTransition,
		palette:    color.DefaultPalette,
		xTicks:     DefaultXTicks,
		yTicks:     DefaultYTicks,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller{
		ds:    ds,
		opts:  o,
		state: DefaultState(),
	}
}

// State returns the receiver's current selection.
func (c *Controller) State() State {
	return c.state
}

// Chart returns the most recently built chart, or nil if none has been
// built.
func (c *Controller) Chart() *Chart {
	return c.chart
}

// View returns the surface dimensions the receiver would build for the
// given viewport width.
func (c *Controller) View(viewportWidth float64) (ViewDimensions, error) {
	return NewViewDimensions(viewportWidth, c.opts.margins, c.opts.minWidth)
}

// Build discards any existing chart and builds a new one for the given
// viewport width.  On error, the receiver holds no chart.
func (c *Controller) Build(viewportWidth float64) error {
	c.chart = nil
	view, err := c.View(viewportWidth)
	if err != nil {
		return err
	}
	x, err := c.newAxis(measure.X, c.state.X, view)
	if err != nil {
		return err
	}
	y, err := c.newAxis(measure.Y, c.state.Y, view)
	if err != nil {
		return err
	}
	ch := &Chart{
		View:       view,
		X:          x,
		Y:          y,
		Points:     make([]Point, 0, c.ds.Len()),
		Transition: c.opts.transition,
		Palette:    c.opts.palette,
	}
	for _, r := range c.ds.Records {
		ch.Points = append(ch.Points, Point{
			Record:  r,
			X:       x.Scale().Map(r.Value(x.Measure)),
			Y:       y.Scale().Map(r.Value(y.Measure)),
			Tooltip: c.tooltip(r),
		})
	}
	c.chart = ch
	return nil
}

// Resize rebuilds the chart for a new viewport width, keeping the current
// selection.
func (c *Controller) Resize(viewportWidth float64) error {
	return c.Build(viewportWidth)
}

// SelectX selects m as the X axis measure.  It reports whether the
// selection changed; selecting the current measure is a no-op.  Selecting a
// measure that does not belong to the X axis yields ErrNotPermitted and
// leaves the receiver unchanged.  If a chart has been built, only its X
// scale and point X positions are recomputed.
func (c *Controller) SelectX(m *measure.Measure) (bool, error) {
	return c.selectMeasure(measure.X, m)
}

// SelectY is SelectX's counterpart for the Y axis.
func (c *Controller) SelectY(m *measure.Measure) (bool, error) {
	return c.selectMeasure(measure.Y, m)
}

// Select selects the measure with the given ID on axis a.
func (c *Controller) Select(a measure.Axis, id string) (bool, error) {
	m, err := measure.Lookup(id)
	if err != nil {
		return false, err
	}
	return c.selectMeasure(a, m)
}

func (c *Controller) selectMeasure(a measure.Axis, m *measure.Measure) (bool, error) {
	if !m.Permitted(a) {
		return false, fmt.Errorf("%w: %s on the %s axis", ErrNotPermitted, m, a)
	}
	if c.state.Get(a) == m {
		return false, nil
	}
	if c.chart == nil {
		c.state.set(a, m)
		return true, nil
	}
	axis, err := c.newAxis(a, m, c.chart.View)
	if err != nil {
		return false, err
	}
	c.state.set(a, m)
	if a == measure.X {
		c.chart.X = axis
	} else {
		c.chart.Y = axis
	}
	for idx := range c.chart.Points {
		p := &c.chart.Points[idx]
		px := axis.Scale().Map(p.Record.Value(m))
		if a == measure.X {
			p.X = px
		} else {
			p.Y = px
		}
		p.Tooltip = c.tooltip(p.Record)
	}
	return true, nil
}

// Domain returns the headroom-widened domain of m over ds.
func Domain(ds *census.Dataset, m *measure.Measure) (d0, d1 float64, err error) {
	lo, hi, err := ds.Extent(m)
	if err != nil {
		return 0, 0, fmt.Errorf("can't scale %s: %w", m, err)
	}
	if m.Axis == measure.X {
		return lo * xHeadroomLow, hi * xHeadroomHigh, nil
	}
	return 0, hi * yHeadroom, nil
}

func (c *Controller) newAxis(a measure.Axis, m *measure.Measure, view ViewDimensions) (*Axis, error) {
	d0, d1, err := Domain(c.ds, m)
	if err != nil {
		return nil, err
	}
	var s *scale.Linear
	tickCount := c.opts.xTicks
	if a == measure.X {
		s = scale.NewLinear(d0, d1, 0, view.InteriorWidth)
	} else {
		s = scale.NewLinear(d0, d1, view.InteriorHeight, 0)
		tickCount = c.opts.yTicks
	}
	ret := &Axis{
		Axis:    continuousaxis.NewDoubleAxis(m.Category(), s, tickCount),
		Which:   a,
		Measure: m,
	}
	for _, candidate := range measure.ForAxis(a) {
		ret.Labels = append(ret.Labels, Label{
			Axis:    a,
			Measure: candidate,
			Text:    candidate.Label,
			Active:  candidate == m,
		})
	}
	return ret, nil
}

func (c *Controller) tooltip(r *census.Record) Tooltip {
	line := func(m *measure.Measure) string {
		return label.Expand(tooltipLineFormat, map[string]string{
			"name":  m.Name,
			"value": m.Format(r.Value(m)),
		})
	}
	return Tooltip{
		Title: r.Abbr,
		Lines: []string{line(c.state.X), line(c.state.Y)},
	}
}
