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

// Package style supports specifying SVG and CSS styling.
//
// A Style maps attribute names to values, both strings, using the names and
// value syntax of SVG presentation attributes and CSS properties (see
// https://developer.mozilla.org/en-US/docs/Web/SVG/Attribute).  A Style can
// be attached to a response Datum with Define, or written inline into
// markup with String.
package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ilhamster/healthviz/util"
)

const (
	keyPrefix = "style_"
)

// Style defines a set of styles that can be attached to a Datum.
type Style struct {
	attrs map[string]string
}

// New returns a new, empty Style.
func New() *Style {
	return &Style{
		attrs: map[string]string{},
	}
}

// With sets the specified attribute and value in the receiver.
func (s *Style) With(attrType string, attrVal string) *Style {
	s.attrs[attrType] = attrVal
	return s
}

// Get returns the value of the specified attribute, and whether it was set.
func (s *Style) Get(attrType string) (string, bool) {
	v, ok := s.attrs[attrType]
	return v, ok
}

// Define returns a PropertyUpdate defining the receiver into a Datum.
func (s *Style) Define() util.PropertyUpdate {
	ret := make([]util.PropertyUpdate, 0, len(s.attrs))
	for _, attr := range s.names() {
		ret = append(ret, util.StringProperty(keyPrefix+attr, s.attrs[attr]))
	}
	return util.Chain(ret...)
}

// String renders the receiver as an inline CSS declaration list, with
// attributes in name order.
func (s *Style) String() string {
	decls := make([]string, 0, len(s.attrs))
	for _, attr := range s.names() {
		decls = append(decls, attr+":"+s.attrs[attr])
	}
	return strings.Join(decls, ";")
}

func (s *Style) names() []string {
	names := make([]string, 0, len(s.attrs))
	for attr := range s.attrs {
		names = append(names, attr)
	}
	sort.Strings(names)
	return names
}

// Px formats the provided value as a pixel specifier.
func Px(valPx float64) string {
	return fmt.Sprintf("%.2fpx", valPx)
}
