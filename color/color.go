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

// Package color supports coloring renderable items.
//
// A Datum may carry up to three colors: a primary color, the dominant fill
// of the item; a secondary color, for accents such as the highlighted state
// of an axis label; and a stroke color, for text and outlines.  Each is an
// HTML color string: a name, or an RGB, RGBA, HSL, HSLA or hex specifier.
//
//	marker.With(
//	  color.Primary("#96C7DE"),
//	  color.Stroke("white"),
//	)
//
// Palette bundles the colors a scatter chart uses so that the response
// builders and the SVG renderer agree on them.
package color

import (
	"fmt"

	"github.com/ilhamster/healthviz/util"
)

const (
	primaryColorKey   = "primary_color"
	secondaryColorKey = "secondary_color"
	strokeColorKey    = "stroke_color"
)

// Primary annotates a Datum with the specified primary color.
func Primary(colorValue string) util.PropertyUpdate {
	return util.StringProperty(primaryColorKey, colorValue)
}

// Secondary annotates a Datum with the specified secondary color.
func Secondary(colorValue string) util.PropertyUpdate {
	return util.StringProperty(secondaryColorKey, colorValue)
}

// Stroke annotates a Datum with the specified stroke color.
func Stroke(colorValue string) util.PropertyUpdate {
	return util.StringProperty(strokeColorKey, colorValue)
}

// Palette is the set of colors used to draw a scatter chart.
type Palette struct {
	MarkerFill    string `yaml:"marker_fill"`
	MarkerStroke  string `yaml:"marker_stroke"`
	MarkerText    string `yaml:"marker_text"`
	ActiveLabel   string `yaml:"active_label"`
	InactiveLabel string `yaml:"inactive_label"`
}

// DefaultPalette is a light blue marker with white outline and text, and
// black (active) or grey (inactive) axis labels.
var DefaultPalette = Palette{
	MarkerFill:    "#96C7DE",
	MarkerStroke:  "white",
	MarkerText:    "white",
	ActiveLabel:   "black",
	InactiveLabel: "#AAAAAA",
}

// Marker annotates a Datum with the receiver's marker colors.
func (p Palette) Marker() util.PropertyUpdate {
	return util.Chain(
		Primary(p.MarkerFill),
		Stroke(p.MarkerStroke),
	)
}

// Label annotates a Datum with the receiver's label color for the given
// active state.
func (p Palette) Label(active bool) util.PropertyUpdate {
	return util.Chain(
		util.IfElse(active, Stroke(p.ActiveLabel), Stroke(p.InactiveLabel)),
		util.If(active, Secondary(p.ActiveLabel)),
	)
}

// LabelColor returns the text color of an active or inactive label.
func (p Palette) LabelColor(active bool) string {
	if active {
		return p.ActiveLabel
	}
	return p.InactiveLabel
}

// WithDefaults returns the receiver with any unset color taken from
// DefaultPalette.
func (p Palette) WithDefaults() Palette {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&p.MarkerFill, DefaultPalette.MarkerFill)
	fill(&p.MarkerStroke, DefaultPalette.MarkerStroke)
	fill(&p.MarkerText, DefaultPalette.MarkerText)
	fill(&p.ActiveLabel, DefaultPalette.ActiveLabel)
	fill(&p.InactiveLabel, DefaultPalette.InactiveLabel)
	return p
}

// Validate reports the first of the receiver's colors that Parse rejects.
func (p Palette) Validate() error {
	for _, c := range []struct {
		name, value string
	}{
		{"marker_fill", p.MarkerFill},
		{"marker_stroke", p.MarkerStroke},
		{"marker_text", p.MarkerText},
		{"active_label", p.ActiveLabel},
		{"inactive_label", p.InactiveLabel},
	} {
		if _, err := Parse(c.value); err != nil {
			return fmt.Errorf("palette %s: %w", c.name, err)
		}
	}
	return nil
}
