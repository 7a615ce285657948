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

// Package measure enumerates the survey measures that can be bound to a
// chart axis.  Each axis has a fixed set of three permitted measures; the
// first of each set is that axis' default.
package measure

import (
	"errors"
	"fmt"

	"github.com/ilhamster/healthviz/category"
	"github.com/ilhamster/healthviz/scale"
)

// ErrUnknown is returned when a measure name matches no known measure.
var ErrUnknown = errors.New("unknown measure")

// Axis identifies a chart axis.
type Axis int

// The chart axes.
const (
	X Axis = iota
	Y
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// ParseAxis returns the Axis named "x" or "y".
func ParseAxis(name string) (Axis, error) {
	switch name {
	case "x":
		return X, nil
	case "y":
		return Y, nil
	}
	return 0, fmt.Errorf("unknown axis %q", name)
}

// Unit describes how a measure's values are printed.
type Unit int

// Measure units.
const (
	Percent Unit = iota
	Years
	Dollars
)

// Measure is one numeric column of the survey data.
type Measure struct {
	// ID is the measure's CSV column name, and its identifier in requests.
	ID string
	// Axis is the axis this measure may be bound to.
	Axis Axis
	// Label is the axis label text.
	Label string
	// Name is the short name used in tooltips.
	Name        string
	Description string
	Unit        Unit
	// Decimals is the number of fraction digits shown in tooltips.
	Decimals int
}

// The six measures.
var (
	Poverty = &Measure{
		ID: "poverty", Axis: X, Label: "In Poverty (%)", Name: "In Poverty",
		Description: "Share of residents living below the poverty line",
		Unit:        Percent, Decimals: 1,
	}
	Age = &Measure{
		ID: "age", Axis: X, Label: "Age (Median)", Name: "Age",
		Description: "Median age of residents",
		Unit:        Years, Decimals: 1,
	}
	Income = &Measure{
		ID: "income", Axis: X, Label: "Household Income (Median)", Name: "Household Income",
		Description: "Median household income",
		Unit:        Dollars, Decimals: 0,
	}
	Healthcare = &Measure{
		ID: "healthcare", Axis: Y, Label: "Lacks Healthcare (%)", Name: "Lacks Healthcare",
		Description: "Share of residents without healthcare coverage",
		Unit:        Percent, Decimals: 1,
	}
	Obesity = &Measure{
		ID: "obesity", Axis: Y, Label: "Obese (%)", Name: "Obese",
		Description: "Share of adults who are obese",
		Unit:        Percent, Decimals: 1,
	}
	Smokes = &Measure{
		ID: "smokes", Axis: Y, Label: "Smokes (%)", Name: "Smokes",
		Description: "Share of adults who smoke",
		Unit:        Percent, Decimals: 1,
	}
)

var (
	all       = []*Measure{Poverty, Age, Income, Healthcare, Obesity, Smokes}
	byAxis    = map[Axis][]*Measure{X: {Poverty, Age, Income}, Y: {Healthcare, Obesity, Smokes}}
	byID      = map[string]*Measure{}
	byMeasure = map[*Measure]*category.Category{}
)

func init() {
	for _, m := range all {
		byID[m.ID] = m
		byMeasure[m] = category.New(m.ID, m.Label, m.Description)
	}
}

// All returns every measure, X measures first.
func All() []*Measure {
	return append([]*Measure(nil), all...)
}

// ForAxis returns the permitted measures of the given axis, in label order.
func ForAxis(a Axis) []*Measure {
	return append([]*Measure(nil), byAxis[a]...)
}

// Default returns the default measure of the given axis.
func Default(a Axis) *Measure {
	return byAxis[a][0]
}

// Lookup returns the measure with the given ID.
func Lookup(id string) (*Measure, error) {
	m, ok := byID[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknown, id)
	}
	return m, nil
}

// Permitted reports whether the receiver may be bound to axis a.
func (m *Measure) Permitted(a Axis) bool {
	return m != nil && m.Axis == a
}

// Category returns the category describing the receiver.
func (m *Measure) Category() *category.Category {
	return byMeasure[m]
}

// Format prints v in the receiver's unit, e.g. "19.3%", "38.6", "$44,000".
func (m *Measure) Format(v float64) string {
	n := scale.FormatNumber(v, m.Decimals)
	switch m.Unit {
	case Percent:
		return n + "%"
	case Dollars:
		return "$" + n
	}
	return n
}

func (m *Measure) String() string {
	return m.ID
}
