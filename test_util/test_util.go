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

// Package testutil provides helpers for testing response construction.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ilhamster/healthviz/util"
)

// UpdateComparator checks that a 'got' set of PropertyUpdates yields the same
// transformation as a 'want' set.
type UpdateComparator struct {
	got  []util.PropertyUpdate
	want []util.PropertyUpdate
}

// NewUpdateComparator returns a new, empty UpdateComparator.
func NewUpdateComparator() *UpdateComparator {
	return &UpdateComparator{}
}

// WithTestUpdates specifies the receiver's PropertyUpdates under test.
func (uc *UpdateComparator) WithTestUpdates(got ...util.PropertyUpdate) *UpdateComparator {
	uc.got = got
	return uc
}

// WithWantUpdates specifies the PropertyUpdates the test updates should
// match.
func (uc *UpdateComparator) WithWantUpdates(want ...util.PropertyUpdate) *UpdateComparator {
	uc.want = want
	return uc
}

// Compare applies both update sets to sibling datums and diffs their
// prettyprinted forms.  It returns a difference message and whether the two
// differ.  String-table ordering is ignored.
func (uc *UpdateComparator) Compare(t *testing.T) (string, bool) {
	t.Helper()
	drb := util.NewDataResponseBuilder()
	resp := drb.DataSeries(&util.DataSeriesRequest{})
	resp.Child().With(uc.got...)
	resp.Child().With(uc.want...)
	data, err := drb.Data()
	if err != nil {
		t.Fatalf("failed to build comparison data: %s", err)
	}
	children := data.DataSeries[0].Root.Children
	diff := cmp.Diff(
		children[1].PrettyPrint("", data.StringTable),
		children[0].PrettyPrint("", data.StringTable))
	if diff != "" {
		return fmt.Sprintf("Got series %s, diff (-want +got):\n%s",
			data.DataSeries[0].PrettyPrint("", data.StringTable), diff), true
	}
	return "", false
}

// TestDataBuilder assembles expected responses fluently in tests.
type TestDataBuilder interface {
	With(updates ...util.PropertyUpdate) TestDataBuilder
	Child() TestDataBuilder
	AndChild() TestDataBuilder
	Parent() TestDataBuilder
}

type testDataBuilder struct {
	db     util.DataBuilder
	parent *testDataBuilder
}

// With applies the provided PropertyUpdates to the receiver in order.
func (tdb *testDataBuilder) With(updates ...util.PropertyUpdate) TestDataBuilder {
	tdb.db.With(updates...)
	return tdb
}

// Child adds a child to the receiver and returns it.
func (tdb *testDataBuilder) Child() TestDataBuilder {
	return &testDataBuilder{
		db:     tdb.db.Child(),
		parent: tdb,
	}
}

// AndChild adds a sibling of the receiver and returns it.  If the receiver
// has no parent, it adds a child instead.
func (tdb *testDataBuilder) AndChild() TestDataBuilder {
	if tdb.parent == nil {
		return tdb.Child()
	}
	return tdb.parent.Child()
}

// Parent returns the receiver's parent, or the receiver if it has none.
func (tdb *testDataBuilder) Parent() TestDataBuilder {
	if tdb.parent == nil {
		return tdb
	}
	return tdb.parent
}

func dataOf(d any) (*util.Data, error) {
	switch v := d.(type) {
	case *util.DataResponseBuilder:
		return v.Data()
	case *util.Data:
		return v, nil
	default:
		return nil, fmt.Errorf("argument must be a *util.DataResponseBuilder or a *util.Data")
	}
}

// CompareDataResponses compares got and want, each a
// *util.DataResponseBuilder or *util.Data, reporting any difference on t.
// Problems building either side are returned.
func CompareDataResponses(t *testing.T, got any, want any) error {
	t.Helper()
	gotData, err := dataOf(got)
	if err != nil {
		return err
	}
	wantData, err := dataOf(want)
	if err != nil {
		return err
	}
	if diff := cmp.Diff(wantData.PrettyPrint(), gotData.PrettyPrint()); diff != "" {
		t.Errorf("Got data %s, diff (-want, +got) %s", gotData.PrettyPrint(), diff)
	}
	return nil
}

func build(t *testing.T, buildIf any) *util.DataResponseBuilder {
	t.Helper()
	drb := util.NewDataResponseBuilder()
	switch buildFn := buildIf.(type) {
	case func(util.DataBuilder):
		buildFn(drb.DataSeries(&util.DataSeriesRequest{}))
	case func(TestDataBuilder):
		buildFn(&testDataBuilder{
			db: drb.DataSeries(&util.DataSeriesRequest{}),
		})
	default:
		t.Fatalf("expected func(util.DataBuilder) or func(testutil.TestDataBuilder), got %T", buildIf)
	}
	return drb
}

// CompareResponses compares the response built by buildGot, usually the code
// under test, with the one built by buildWant.  Each must be a
// func(util.DataBuilder) or a func(TestDataBuilder).
func CompareResponses(t *testing.T, buildGot any, buildWant any) error {
	t.Helper()
	return CompareDataResponses(t, build(t, buildGot), build(t, buildWant))
}
