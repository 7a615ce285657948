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

package chart

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/ilhamster/healthviz/census"
	"github.com/ilhamster/healthviz/measure"
)

func record(abbr string, poverty, age, income, healthcare, obesity, smokes float64) *census.Record {
	return census.NewRecord(abbr, "", map[*measure.Measure]float64{
		measure.Poverty:    poverty,
		measure.Age:        age,
		measure.Income:     income,
		measure.Healthcare: healthcare,
		measure.Obesity:    obesity,
		measure.Smokes:     smokes,
	})
}

func testDataset() *census.Dataset {
	return census.New(
		record("AL", 19.3, 38.6, 42830, 13.9, 33.5, 21.1),
		record("AK", 11.2, 33.3, 71583, 15, 29.7, 19.9),
		record("AZ", 18.2, 36.9, 50068, 14.4, 26.6, 16.3),
		record("AR", 18.9, 37.8, 41262, 16.3, 35.9, 22.3),
		record("CA", 16.4, 36.2, 61933, 14.8, 24.7, 12.2),
	)
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestViewDimensions(t *testing.T) {
	for _, test := range []struct {
		description   string
		viewportWidth float64
		want          ViewDimensions
		wantErr       bool
	}{{
		description:   "wide",
		viewportWidth: 1600,
		want: ViewDimensions{
			ViewportWidth: 1600,
			Width:         800, Height: 450,
			InteriorWidth: 660, InteriorHeight: 330,
			Margins: DefaultMargins,
		},
	}, {
		description:   "clamped",
		viewportWidth: 320,
		want: ViewDimensions{
			ViewportWidth: 320,
			Width:         300, Height: 168.75,
			InteriorWidth: 160, InteriorHeight: 48.75,
			Margins: DefaultMargins,
		},
	}, {
		description:   "negative",
		viewportWidth: -1,
		wantErr:       true,
	}, {
		description:   "NaN",
		viewportWidth: math.NaN(),
		wantErr:       true,
	}} {
		t.Run(test.description, func(t *testing.T) {
			got, err := NewViewDimensions(test.viewportWidth, DefaultMargins, DefaultMinSurfaceWidth)
			if (err != nil) != test.wantErr {
				t.Fatalf("NewViewDimensions() yielded error %v, wantErr %t", err, test.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrBadViewport) {
					t.Errorf("NewViewDimensions() yielded %v, want ErrBadViewport", err)
				}
				return
			}
			if diff := cmp.Diff(test.want, got, approx); diff != "" {
				t.Errorf("NewViewDimensions() diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPointsInsideInterior(t *testing.T) {
	for _, x := range measure.ForAxis(measure.X) {
		for _, y := range measure.ForAxis(measure.Y) {
			c := NewController(testDataset())
			if _, err := c.SelectX(x); err != nil {
				t.Fatal(err)
			}
			if _, err := c.SelectY(y); err != nil {
				t.Fatal(err)
			}
			if err := c.Build(1280); err != nil {
				t.Fatalf("Build() yielded unexpected error %s", err)
			}
			ch := c.Chart()
			if len(ch.Points) != 5 {
				t.Fatalf("got %d points, want 5", len(ch.Points))
			}
			for _, p := range ch.Points {
				if p.X < 0 || p.X > ch.View.InteriorWidth || p.Y < 0 || p.Y > ch.View.InteriorHeight {
					t.Errorf("%s/%s: %s at (%v, %v) lies outside the %vx%v interior",
						x, y, p.Record.Abbr, p.X, p.Y, ch.View.InteriorWidth, ch.View.InteriorHeight)
				}
			}
		}
	}
}

func TestScaleDomains(t *testing.T) {
	c := NewController(testDataset())
	if err := c.Build(1600); err != nil {
		t.Fatal(err)
	}
	ch := c.Chart()
	d0, d1 := ch.X.Scale().Domain()
	r0, r1 := ch.X.Scale().Range()
	if diff := cmp.Diff([]float64{11.2 * 0.9, 19.3 * 1.1, 0, 660}, []float64{d0, d1, r0, r1}, approx); diff != "" {
		t.Errorf("X scale diff (-want +got):\n%s", diff)
	}
	d0, d1 = ch.Y.Scale().Domain()
	r0, r1 = ch.Y.Scale().Range()
	if diff := cmp.Diff([]float64{0, 16.3 * 1.1, 330, 0}, []float64{d0, d1, r0, r1}, approx); diff != "" {
		t.Errorf("Y scale diff (-want +got):\n%s", diff)
	}
	if got := len(ch.Y.Ticks()); got < 4 || got > 10 {
		t.Errorf("Y axis has %d ticks, want about 6", got)
	}
	if ch.Transition != time.Second {
		t.Errorf("Transition is %v, want 1s", ch.Transition)
	}
}

func positions(ch *Chart, a measure.Axis) []float64 {
	ret := make([]float64, len(ch.Points))
	for idx, p := range ch.Points {
		if a == measure.X {
			ret[idx] = p.X
		} else {
			ret[idx] = p.Y
		}
	}
	return ret
}

func domain(ax *Axis) []float64 {
	d0, d1 := ax.Scale().Domain()
	return []float64{d0, d1}
}

func TestSwitchLeavesOtherAxis(t *testing.T) {
	for _, test := range []struct {
		description string
		switched    measure.Axis
		to          *measure.Measure
	}{{
		description: "switch X to age",
		switched:    measure.X,
		to:          measure.Age,
	}, {
		description: "switch X to income",
		switched:    measure.X,
		to:          measure.Income,
	}, {
		description: "switch Y to obesity",
		switched:    measure.Y,
		to:          measure.Obesity,
	}, {
		description: "switch Y to smokes",
		switched:    measure.Y,
		to:          measure.Smokes,
	}} {
		t.Run(test.description, func(t *testing.T) {
			other := measure.Y
			if test.switched == measure.Y {
				other = measure.X
			}
			c := NewController(testDataset())
			if err := c.Build(1600); err != nil {
				t.Fatal(err)
			}
			otherAxis := c.Chart().Axis(other)
			otherBefore := positions(c.Chart(), other)
			switchedBefore := positions(c.Chart(), test.switched)

			var changed bool
			var err error
			if test.switched == measure.X {
				changed, err = c.SelectX(test.to)
			} else {
				changed, err = c.SelectY(test.to)
			}
			if err != nil || !changed {
				t.Fatalf("select yielded %t, %v; want true, nil", changed, err)
			}
			ch := c.Chart()
			if ch.Axis(other) != otherAxis {
				t.Errorf("the %s axis was rebuilt", other)
			}
			if diff := cmp.Diff(otherBefore, positions(ch, other)); diff != "" {
				t.Errorf("%s positions moved (-before +after):\n%s", other, diff)
			}
			if cmp.Equal(switchedBefore, positions(ch, test.switched)) {
				t.Errorf("%s positions did not move", test.switched)
			}
			if ch.Axis(test.switched).Measure != test.to || c.State().Get(test.switched) != test.to {
				t.Errorf("%s axis measure is %s, want %s", test.switched, ch.Axis(test.switched).Measure, test.to)
			}
			want, _, err := Domain(testDataset(), test.to)
			if err != nil {
				t.Fatal(err)
			}
			if got := domain(ch.Axis(test.switched))[0]; math.Abs(got-want) > 1e-9 {
				t.Errorf("%s domain starts at %v, want %v", test.switched, got, want)
			}
		})
	}
}

func activeLabels(ax *Axis) []string {
	ret := []string{}
	for _, l := range ax.Labels {
		if l.Active {
			ret = append(ret, l.Measure.ID)
		}
	}
	return ret
}

func TestExactlyOneActiveLabel(t *testing.T) {
	c := NewController(testDataset())
	if err := c.Build(1024); err != nil {
		t.Fatal(err)
	}
	check := func(wantX, wantY string) {
		t.Helper()
		ch := c.Chart()
		if diff := cmp.Diff([]string{wantX}, activeLabels(ch.X)); diff != "" {
			t.Errorf("active X labels diff (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{wantY}, activeLabels(ch.Y)); diff != "" {
			t.Errorf("active Y labels diff (-want +got):\n%s", diff)
		}
		if len(ch.X.Labels) != 3 || len(ch.Y.Labels) != 3 {
			t.Errorf("got %d X and %d Y labels, want 3 each", len(ch.X.Labels), len(ch.Y.Labels))
		}
	}
	check("poverty", "healthcare")
	c.SelectX(measure.Income)
	check("income", "healthcare")
	c.SelectY(measure.Smokes)
	check("income", "smokes")
	c.SelectX(measure.Income)
	check("income", "smokes")
	c.SelectY(measure.Poverty)
	check("income", "smokes")
	c.Resize(640)
	check("income", "smokes")
}

func TestSelectErrors(t *testing.T) {
	c := NewController(testDataset())
	if err := c.Build(1024); err != nil {
		t.Fatal(err)
	}
	before := positions(c.Chart(), measure.X)
	for _, test := range []struct {
		description string
		sel         func() (bool, error)
		wantErr     error
	}{{
		description: "Y measure on X",
		sel:         func() (bool, error) { return c.SelectX(measure.Healthcare) },
		wantErr:     ErrNotPermitted,
	}, {
		description: "X measure on Y",
		sel:         func() (bool, error) { return c.SelectY(measure.Age) },
		wantErr:     ErrNotPermitted,
	}, {
		description: "nil measure",
		sel:         func() (bool, error) { return c.SelectX(nil) },
		wantErr:     ErrNotPermitted,
	}, {
		description: "unknown ID",
		sel:         func() (bool, error) { return c.Select(measure.X, "height") },
		wantErr:     measure.ErrUnknown,
	}, {
		description: "current selection",
		sel:         func() (bool, error) { return c.SelectX(measure.Poverty) },
	}, {
		description: "current selection by ID",
		sel:         func() (bool, error) { return c.Select(measure.Y, "healthcare") },
	}} {
		t.Run(test.description, func(t *testing.T) {
			changed, err := test.sel()
			if changed {
				t.Errorf("selection changed")
			}
			if !errors.Is(err, test.wantErr) {
				t.Errorf("selection yielded error %v, want %v", err, test.wantErr)
			}
			if c.State() != DefaultState() {
				t.Errorf("state changed to %v", c.State())
			}
			if diff := cmp.Diff(before, positions(c.Chart(), measure.X)); diff != "" {
				t.Errorf("X positions moved (-before +after):\n%s", diff)
			}
		})
	}
}

func TestSelectBeforeBuild(t *testing.T) {
	c := NewController(testDataset())
	changed, err := c.SelectY(measure.Obesity)
	if err != nil || !changed {
		t.Fatalf("SelectY() yielded %t, %v; want true, nil", changed, err)
	}
	if c.Chart() != nil {
		t.Fatalf("selection built a chart")
	}
	if err := c.Build(1024); err != nil {
		t.Fatal(err)
	}
	if c.Chart().Y.Measure != measure.Obesity {
		t.Errorf("built Y axis shows %s, want obesity", c.Chart().Y.Measure)
	}
}

func TestResize(t *testing.T) {
	c := NewController(testDataset())
	if err := c.Build(1600); err != nil {
		t.Fatal(err)
	}
	first := c.Chart()
	for _, vw := range []float64{800, 1920, 1000} {
		if err := c.Resize(vw); err != nil {
			t.Fatalf("Resize(%v) yielded unexpected error %s", vw, err)
		}
		ch := c.Chart()
		if ch == first {
			t.Errorf("Resize(%v) did not rebuild the chart", vw)
		}
		if ch.View.Width != vw/2 || ch.View.Height != vw/2*9/16 {
			t.Errorf("Resize(%v) built a %vx%v surface, want %vx%v",
				vw, ch.View.Width, ch.View.Height, vw/2, vw/2*9/16)
		}
		_, r1 := ch.X.Scale().Range()
		if r1 != ch.View.InteriorWidth {
			t.Errorf("Resize(%v) X range ends at %v, want %v", vw, r1, ch.View.InteriorWidth)
		}
	}
	if err := c.Resize(math.Inf(1)); !errors.Is(err, ErrBadViewport) {
		t.Errorf("Resize(+Inf) yielded %v, want ErrBadViewport", err)
	}
	if c.Chart() != nil {
		t.Errorf("failed Resize left a chart behind")
	}
}

func TestSingleRecord(t *testing.T) {
	c := NewController(census.New(record("XX", 15.1, 40, 50000, 9.1, 30, 20)))
	if err := c.Build(1600); err != nil {
		t.Fatal(err)
	}
	ch := c.Chart()
	// The domain minimum, 15.1*0.9, lands on the left margin.
	left, _ := ch.SurfacePosition(Point{X: ch.X.Scale().Map(15.1 * 0.9)})
	if math.Abs(left-DefaultMargins.Left) > 1e-9 {
		t.Errorf("X domain minimum lies at %v, want the left margin %v", left, DefaultMargins.Left)
	}
	// The record itself is centered in the symmetric [0.9v, 1.1v] domain.
	x, y := ch.SurfacePosition(ch.Points[0])
	wantX := DefaultMargins.Left + ch.View.InteriorWidth/2
	wantY := DefaultMargins.Top + ch.View.InteriorHeight*(1-9.1/(9.1*1.1))
	if math.Abs(x-wantX) > 1e-9 || math.Abs(y-wantY) > 1e-9 {
		t.Errorf("single record lies at (%v, %v), want (%v, %v)", x, y, wantX, wantY)
	}
}

func TestEmptyDataset(t *testing.T) {
	for _, ds := range []*census.Dataset{nil, census.New()} {
		c := NewController(ds)
		if err := c.Build(1024); !errors.Is(err, census.ErrEmpty) {
			t.Errorf("Build() yielded %v, want ErrEmpty", err)
		}
		if c.Chart() != nil {
			t.Errorf("Build() over no records produced a chart")
		}
	}
}

func TestTooltips(t *testing.T) {
	c := NewController(testDataset())
	if err := c.Build(1024); err != nil {
		t.Fatal(err)
	}
	want := Tooltip{Title: "AL", Lines: []string{"In Poverty: 19.3%", "Lacks Healthcare: 13.9%"}}
	if diff := cmp.Diff(want, c.Chart().Points[0].Tooltip); diff != "" {
		t.Errorf("tooltip diff (-want +got):\n%s", diff)
	}
	c.SelectX(measure.Income)
	want = Tooltip{Title: "AL", Lines: []string{"Household Income: $42,830", "Lacks Healthcare: 13.9%"}}
	if diff := cmp.Diff(want, c.Chart().Points[0].Tooltip); diff != "" {
		t.Errorf("tooltip after switch diff (-want +got):\n%s", diff)
	}
	if got, want := want.String(), "AL\nHousehold Income: $42,830\nLacks Healthcare: 13.9%"; got != want {
		t.Errorf("Tooltip.String() = %q, want %q", got, want)
	}
}

func TestOptions(t *testing.T) {
	margins := Margins{Top: 50, Right: 50, Bottom: 50, Left: 50}
	c := NewController(testDataset(),
		WithMargins(margins),
		WithMinSurfaceWidth(500),
		WithTransition(250*time.Millisecond),
		WithTickCounts(0, 0),
	)
	if err := c.Build(600); err != nil {
		t.Fatal(err)
	}
	ch := c.Chart()
	if ch.View.Width != 500 || ch.View.InteriorWidth != 400 || ch.View.Margins != margins {
		t.Errorf("got view %+v", ch.View)
	}
	if ch.Transition != 250*time.Millisecond {
		t.Errorf("Transition is %v, want 250ms", ch.Transition)
	}
	if len(ch.X.Ticks()) != 0 || len(ch.Y.Ticks()) != 0 {
		t.Errorf("got ticks with zero tick counts")
	}
}
