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

package category

import (
	"testing"

	testutil "github.com/ilhamster/healthviz/test_util"
	"github.com/ilhamster/healthviz/util"
)

func TestCategoryDefinitionAndTagging(t *testing.T) {
	for _, test := range []struct {
		description     string
		buildCategories func(db util.DataBuilder)
		buildExplicit   func(db testutil.TestDataBuilder)
	}{{
		description: "multicategory",
		buildCategories: func(db util.DataBuilder) {
			poverty := New("poverty", "In Poverty (%)", "Share of residents below the poverty line")
			obesity := New("obesity", "Obese (%)", "Share of adults who are obese")
			smokes := New("smokes", "Smokes (%)", "Share of adults who smoke")
			catgroup := db.Child()
			catgroup.Child().With(poverty.Define())
			catgroup.Child().With(obesity.Define())
			catgroup.Child().With(smokes.Define())
			db.Child().With(util.StringProperty("abbr", "AL"), poverty.Tag())
			db.Child().With(util.StringProperty("abbr", "AK"), poverty.Tag(), obesity.Tag())
			db.Child().With(util.StringProperty("abbr", "AZ"), smokes.Tag())
		},
		buildExplicit: func(db testutil.TestDataBuilder) {
			db.Child().
				Child().With(
				util.StringProperty(categoryDefinedIDKey, "poverty"),
				util.StringProperty(categoryDisplayNameKey, "In Poverty (%)"),
				util.StringProperty(categoryDescriptionKey, "Share of residents below the poverty line"),
			).AndChild().With(
				util.StringProperty(categoryDefinedIDKey, "obesity"),
				util.StringProperty(categoryDisplayNameKey, "Obese (%)"),
				util.StringProperty(categoryDescriptionKey, "Share of adults who are obese"),
			).AndChild().With(
				util.StringProperty(categoryDefinedIDKey, "smokes"),
				util.StringProperty(categoryDisplayNameKey, "Smokes (%)"),
				util.StringProperty(categoryDescriptionKey, "Share of adults who smoke"),
			).Parent().Parent().Child().With(
				util.StringsProperty(categoryIDsKey, "poverty"),
				util.StringProperty("abbr", "AL"),
			).AndChild().With(
				util.StringsProperty(categoryIDsKey, "poverty", "obesity"),
				util.StringProperty("abbr", "AK"),
			).AndChild().With(
				util.StringsProperty(categoryIDsKey, "smokes"),
				util.StringProperty("abbr", "AZ"),
			)
		},
	}, {
		description: "successive tags extend",
		buildCategories: func(db util.DataBuilder) {
			x := New("x_axis", "X", "Horizontal axis")
			y := New("y_axis", "Y", "Vertical axis")
			db.With(x.Tag(), y.Tag())
		},
		buildExplicit: func(db testutil.TestDataBuilder) {
			db.With(util.StringsProperty(categoryIDsKey, "x_axis", "y_axis"))
		},
	}} {
		t.Run(test.description, func(t *testing.T) {
			if err := testutil.CompareResponses(t, test.buildCategories, test.buildExplicit); err != nil {
				t.Fatalf("encountered unexpected error building the categories: %s", err)
			}
		})
	}
}
