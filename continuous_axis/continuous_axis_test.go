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

package continuousaxis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ilhamster/healthviz/category"
	"github.com/ilhamster/healthviz/scale"
	testutil "github.com/ilhamster/healthviz/test_util"
	"github.com/ilhamster/healthviz/util"
)

func TestAxis(t *testing.T) {
	cat := category.New("poverty", "In Poverty (%)", "Share of residents in poverty")
	for _, test := range []struct {
		description    string
		axis           *Axis
		wantUpdates    []util.PropertyUpdate
		wantValues     map[float64]util.PropertyUpdate
		wantPositions  map[float64]util.PropertyUpdate
		wantTickLabels []string
	}{{
		description: "horizontal",
		axis:        NewDoubleAxis(cat, scale.NewLinear(0, 10, 0, 200), 5),
		wantUpdates: []util.PropertyUpdate{
			cat.Define(),
			util.StringProperty(axisTypeKey, doubleAxisType),
			util.DoubleProperty(axisMinKey, 0),
			util.DoubleProperty(axisMaxKey, 10),
			util.DoubleProperty(axisRangeStartKey, 0),
			util.DoubleProperty(axisRangeEndKey, 200),
			util.DoublesProperty(axisTicksKey, 0, 2, 4, 6, 8, 10),
			util.StringsProperty(axisTickLabelsKey, "0", "2", "4", "6", "8", "10"),
		},
		wantValues: map[float64]util.PropertyUpdate{
			5: util.DoubleProperty("poverty", 5),
		},
		wantPositions: map[float64]util.PropertyUpdate{
			5: util.DoubleProperty("poverty_px", 100),
			8: util.DoubleProperty("poverty_px", 160),
		},
		wantTickLabels: []string{"0", "2", "4", "6", "8", "10"},
	}, {
		description: "vertical, no ticks",
		axis:        NewDoubleAxis(cat, scale.NewLinear(0, 20, 100, 0), 0),
		wantUpdates: []util.PropertyUpdate{
			cat.Define(),
			util.StringProperty(axisTypeKey, doubleAxisType),
			util.DoubleProperty(axisMinKey, 0),
			util.DoubleProperty(axisMaxKey, 20),
			util.DoubleProperty(axisRangeStartKey, 100),
			util.DoubleProperty(axisRangeEndKey, 0),
			util.DoublesProperty(axisTicksKey),
			util.StringsProperty(axisTickLabelsKey),
		},
		wantPositions: map[float64]util.PropertyUpdate{
			5: util.DoubleProperty("poverty_px", 75),
		},
		wantTickLabels: []string{},
	}} {
		t.Run(test.description, func(t *testing.T) {
			if msg, failed := testutil.NewUpdateComparator().
				WithTestUpdates(test.axis.Define()).
				WithWantUpdates(test.wantUpdates...).
				Compare(t); failed {
				t.Fatal(msg)
			}
			for val, want := range test.wantValues {
				if msg, failed := testutil.NewUpdateComparator().
					WithTestUpdates(test.axis.Value(val)).
					WithWantUpdates(want).
					Compare(t); failed {
					t.Fatalf("Unexpected value for '%v': %s", val, msg)
				}
			}
			for val, want := range test.wantPositions {
				if msg, failed := testutil.NewUpdateComparator().
					WithTestUpdates(test.axis.Position(val)).
					WithWantUpdates(want).
					Compare(t); failed {
					t.Fatalf("Unexpected position for '%v': %s", val, msg)
				}
			}
			if diff := cmp.Diff(test.wantTickLabels, test.axis.TickLabels()); diff != "" {
				t.Errorf("TickLabels() diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderSettings(t *testing.T) {
	if msg, failed := testutil.NewUpdateComparator().
		WithTestUpdates(
			XAxisRenderSettings{LabelHeightPx: 20, MarkersHeightPx: 6}.Apply(),
			YAxisRenderSettings{LabelWidthPx: 40, MarkersWidthPx: 6}.Apply(),
		).
		WithWantUpdates(
			util.IntegerProperty(xAxisRenderLabelHeightPxKey, 20),
			util.IntegerProperty(xAxisRenderMarkersHeightPxKey, 6),
			util.IntegerProperty(yAxisRenderLabelWidthPxKey, 40),
			util.IntegerProperty(yAxisRenderMarkersWidthPxKey, 6),
		).
		Compare(t); failed {
		t.Fatal(msg)
	}
}
