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

// Package label supports labeling renderable items.  Label formats embed
// property references as $(key); for example
//
//	"$(abbr): $(poverty)%"
//
// Expand substitutes those references server-side; Format attaches the
// unexpanded format to a Datum for the client to fill in.
package label

import (
	"regexp"

	"github.com/ilhamster/healthviz/util"
)

const (
	// labelFormatKey specifies the label format string used to label items.
	labelFormatKey = "label_format"
	// labelTextKey holds an already-expanded label.
	labelTextKey = "label_text"
)

var refPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// Format returns a PropertyUpdate that labels with the provided label format.
func Format(labelFormat string) util.PropertyUpdate {
	return util.StringProperty(labelFormatKey, labelFormat)
}

// Text returns a PropertyUpdate that labels with the provided literal text.
func Text(text string) util.PropertyUpdate {
	return util.StringProperty(labelTextKey, text)
}

// Expand replaces each $(key) reference in labelFormat with values[key].
// References to keys missing from values are left in place.
func Expand(labelFormat string, values map[string]string) string {
	return refPattern.ReplaceAllStringFunc(labelFormat, func(ref string) string {
		key := refPattern.FindStringSubmatch(ref)[1]
		if v, ok := values[key]; ok {
			return v
		}
		return ref
	})
}

// Refs returns the keys referenced by labelFormat, in order of appearance.
func Refs(labelFormat string) []string {
	matches := refPattern.FindAllStringSubmatch(labelFormat, -1)
	ret := make([]string, len(matches))
	for idx, m := range matches {
		ret[idx] = m[1]
	}
	return ret
}
