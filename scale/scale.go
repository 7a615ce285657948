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

// Package scale provides linear scales mapping a continuous data domain onto
// a pixel range, with nicely-rounded tick values and tick labels.
//
//	x := scale.NewLinear(0, 20, 0, 640)
//	x.Map(10)        // 320
//	x.Ticks(10)      // 0, 2, 4, ..., 20
//	x.TickFormat(10) // "0", "2", ..., "20"
//
// Ranges may be inverted (e.g. [height, 0] for a y axis growing upward).
package scale

import (
	"math"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Linear is a linear mapping from a domain [D0, D1] onto a range [R0, R1].
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear returns a Linear mapping the domain [d0, d1] onto the range
// [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) *Linear {
	return &Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain returns the receiver's domain extents.
func (l *Linear) Domain() (float64, float64) {
	return l.d0, l.d1
}

// Range returns the receiver's range extents.
func (l *Linear) Range() (float64, float64) {
	return l.r0, l.r1
}

// Map maps v from the domain into the range.  Values outside the domain are
// extrapolated.  A degenerate domain maps everything to the range midpoint.
func (l *Linear) Map(v float64) float64 {
	if l.d0 == l.d1 {
		return (l.r0 + l.r1) / 2
	}
	t := (v - l.d0) / (l.d1 - l.d0)
	return l.r0 + t*(l.r1-l.r0)
}

// Invert maps px from the range back into the domain.  A degenerate range
// maps everything to the domain midpoint.
func (l *Linear) Invert(px float64) float64 {
	if l.r0 == l.r1 {
		return (l.d0 + l.d1) / 2
	}
	t := (px - l.r0) / (l.r1 - l.r0)
	return l.d0 + t*(l.d1-l.d0)
}

// Contains reports whether px lies within the receiver's range, inclusive.
func (l *Linear) Contains(px float64) bool {
	lo, hi := min(l.r0, l.r1), max(l.r0, l.r1)
	return px >= lo && px <= hi
}

// Thresholds for choosing 1, 2, 5 or 10 as a tick step multiplier.
var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickSpec describes count-ish evenly spaced ticks as the integers [i1, i2]
// scaled by inc; a negative inc means dividing by -inc, which keeps
// fractional ticks exact.
type tickSpec struct {
	i1, i2, inc float64
}

func round(v float64) float64 {
	return math.Floor(v + 0.5)
}

func newTickSpec(start, stop, count float64) tickSpec {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	errMag := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case errMag >= e10:
		factor = 10
	case errMag >= e5:
		factor = 5
	case errMag >= e2:
		factor = 2
	}
	var ts tickSpec
	if power < 0 {
		inc := math.Pow(10, -power) / factor
		ts.i1, ts.i2 = round(start*inc), round(stop*inc)
		if ts.i1/inc < start {
			ts.i1++
		}
		if ts.i2/inc > stop {
			ts.i2--
		}
		ts.inc = -inc
	} else {
		inc := math.Pow(10, power) * factor
		ts.i1, ts.i2 = round(start/inc), round(stop/inc)
		if ts.i1*inc < start {
			ts.i1++
		}
		if ts.i2*inc > stop {
			ts.i2--
		}
		ts.inc = inc
	}
	if ts.i2 < ts.i1 && 0.5 <= count && count < 2 {
		return newTickSpec(start, stop, count*2)
	}
	return ts
}

// precision returns the number of fraction digits needed to print ticks
// spaced per the receiver.
func (ts tickSpec) precision() int {
	if ts.inc >= 0 {
		return 0
	}
	return max(0, int(math.Ceil(math.Log10(-ts.inc)-1e-9)))
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Ticks returns approximately count nicely-rounded values spanning the
// receiver's domain, at steps of 1, 2 or 5 times a power of ten, in domain
// order.
func (l *Linear) Ticks(count int) []float64 {
	start, stop := l.d0, l.d1
	if count <= 0 || !finite(start, stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	ts := newTickSpec(start, stop, float64(count))
	if ts.i2 < ts.i1 {
		return nil
	}
	ticks := make([]float64, int(ts.i2-ts.i1)+1)
	for i := range ticks {
		if ts.inc < 0 {
			ticks[i] = (ts.i1 + float64(i)) / -ts.inc
		} else {
			ticks[i] = (ts.i1 + float64(i)) * ts.inc
		}
	}
	if reverse {
		slices.Reverse(ticks)
	}
	return ticks
}

var printer = message.NewPrinter(language.English)

// TickFormat returns a formatter for the receiver's Ticks(count), printing
// values with digit grouping and as many fraction digits as the tick step
// requires.
func (l *Linear) TickFormat(count int) func(float64) string {
	prec := 0
	start, stop := min(l.d0, l.d1), max(l.d0, l.d1)
	if count > 0 && start != stop && finite(start, stop) {
		prec = newTickSpec(start, stop, float64(count)).precision()
	}
	return func(v float64) string {
		return FormatNumber(v, prec)
	}
}

// FormatNumber prints v with English digit grouping and exactly decimals
// fraction digits.
func FormatNumber(v float64, decimals int) string {
	if v == 0 {
		v = 0 // no negative zero
	}
	return printer.Sprint(number.Decimal(v, number.Scale(decimals)))
}
