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

// Package util defines the response model shared by healthviz data sources
// and the browser client:
//
// V, a typed value, with {type}Value constructors (type={String,
// StringIndex, Strings, StringIndices, Integer, Integers, Double, Doubles,
// Boolean}) and Expect{type}Value accessors that fail on a type mismatch;
//
// Datum and Data, the nested property trees sent to the client in a compact
// JSON encoding;
//
// DataResponseBuilder and DataBuilder, for assembling responses
// programmatically with PropertyUpdates.
package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

type valueType int

// Enumerated value types.
const (
	unsetValue valueType = iota
	StringValueType
	StringIndexValueType
	StringsValueType
	StringIndicesValueType
	IntegerValueType
	IntegersValueType
	DoubleValueType
	DoublesValueType
	BooleanValueType
)

// V represents a value in a healthviz request or response.
type V struct {
	V any
	T valueType
}

// PrettyPrint returns the receiver, deterministically prettyprinted.
// String-index-type values prettyprint the same as the corresponding
// literal-string-type values.  Only for use in tests.
func (v *V) PrettyPrint(st []string) string {
	var ret string
	var err error
	switch v.T {
	case unsetValue:
		ret = "unset"
	case StringValueType:
		ret, err = ExpectStringValue(v)
		ret = "'" + ret + "'"
	case StringIndexValueType:
		var strIdx int64
		strIdx, err = expectStringIndexValue(v)
		if err == nil {
			ret = "'" + st[strIdx] + "'"
		}
	case StringsValueType:
		var strs []string
		strs, err = expectStringsValue(v)
		ret = "[ '" + strings.Join(strs, "', '") + "' ]"
	case StringIndicesValueType:
		var strIdxs []int64
		strIdxs, err = expectStringIndicesValue(v)
		if err == nil {
			strs := make([]string, len(strIdxs))
			for idx, strIdx := range strIdxs {
				strs[idx] = st[strIdx]
			}
			ret = "[ '" + strings.Join(strs, "', '") + "' ]"
		}
	case IntegerValueType:
		var i int64
		i, err = ExpectIntegerValue(v)
		ret = strconv.FormatInt(i, 10)
	case IntegersValueType:
		var ints []int64
		ints, err = expectIntegersValue(v)
		strs := make([]string, len(ints))
		for idx, i := range ints {
			strs[idx] = strconv.FormatInt(i, 10)
		}
		ret = "[ " + strings.Join(strs, ", ") + " ]"
	case DoubleValueType:
		var d float64
		d, err = ExpectDoubleValue(v)
		ret = fmt.Sprintf("%.6f", d)
	case DoublesValueType:
		var dbls []float64
		dbls, err = expectDoublesValue(v)
		strs := make([]string, len(dbls))
		for idx, d := range dbls {
			strs[idx] = fmt.Sprintf("%.6f", d)
		}
		ret = "[ " + strings.Join(strs, ", ") + " ]"
	case BooleanValueType:
		var b bool
		b, err = expectBooleanValue(v)
		ret = strconv.FormatBool(b)
	}
	if err != nil {
		return "error: " + err.Error()
	}
	return ret
}

// MarshalJSON encodes a V as the compact JS object `V`:
//
//	type V = [number,                 ; from valueType, above
//	  null     |                      ; if unset
//	  string   |                      ; if string
//	  number   |                      ; if integer, string index, or double
//	  boolean  |                      ; if boolean
//	  string[] |                      ; if strings
//	  number[]                        ; if integers, string indices, or doubles
//	]
//
// Non-finite doubles have no JSON representation and are rejected.
func (v *V) MarshalJSON() ([]byte, error) {
	switch v.T {
	case DoubleValueType:
		if d, ok := v.V.(float64); ok && !finite(d) {
			return nil, fmt.Errorf("can't encode non-finite double %v", d)
		}
	case DoublesValueType:
		if dbls, ok := v.V.([]float64); ok {
			for _, d := range dbls {
				if !finite(d) {
					return nil, fmt.Errorf("can't encode non-finite double %v", d)
				}
			}
		}
	}
	return json.Marshal([2]any{v.T, v.V})
}

func finite(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0)
}

func (v *V) fromAny(got []any) error {
	if len(got) != 2 {
		return fmt.Errorf("value is improperly formed")
	}
	num, ok := got[0].(json.Number)
	if !ok {
		return fmt.Errorf("value type must be a number")
	}
	t, err := num.Int64()
	if err != nil {
		return err
	}
	v.T = valueType(t)
	tv := got[1]
	switch v.T {
	case StringValueType:
		str, ok := tv.(string)
		if !ok {
			return fmt.Errorf("expected a string value")
		}
		v.V = str
	case StringIndexValueType, IntegerValueType:
		num, ok := tv.(json.Number)
		if !ok {
			return fmt.Errorf("expected a numeric value")
		}
		if v.V, err = num.Int64(); err != nil {
			return err
		}
	case DoubleValueType:
		num, ok := tv.(json.Number)
		if !ok {
			return fmt.Errorf("expected a numeric value")
		}
		if v.V, err = num.Float64(); err != nil {
			return err
		}
	case BooleanValueType:
		b, ok := tv.(bool)
		if !ok {
			return fmt.Errorf("expected a boolean value")
		}
		v.V = b
	case StringsValueType:
		strIfs, ok := tv.([]any)
		if !ok {
			return fmt.Errorf("expected a string array value")
		}
		strs := make([]string, len(strIfs))
		for idx, strIf := range strIfs {
			s, ok := strIf.(string)
			if !ok {
				return fmt.Errorf("expected a string array value")
			}
			str, err := url.QueryUnescape(s)
			if err != nil {
				return err
			}
			strs[idx] = str
		}
		v.V = strs
	case StringIndicesValueType, IntegersValueType:
		nums, ok := tv.([]any)
		if !ok {
			return fmt.Errorf("expected a numeric array value")
		}
		ints := make([]int64, len(nums))
		for idx, num := range nums {
			n, ok := num.(json.Number)
			if !ok {
				return fmt.Errorf("expected a numeric array value")
			}
			if ints[idx], err = n.Int64(); err != nil {
				return err
			}
		}
		v.V = ints
	case DoublesValueType:
		nums, ok := tv.([]any)
		if !ok {
			return fmt.Errorf("expected a numeric array value")
		}
		dbls := make([]float64, len(nums))
		for idx, num := range nums {
			n, ok := num.(json.Number)
			if !ok {
				return fmt.Errorf("expected a numeric array value")
			}
			if dbls[idx], err = n.Float64(); err != nil {
				return err
			}
		}
		v.V = dbls
	default:
		v.V = tv
	}
	return nil
}

// UnmarshalJSON unmarshals the provided JSON bytes into the receiving V.
func (v *V) UnmarshalJSON(data []byte) error {
	var got []any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&got); err != nil {
		return err
	}
	return v.fromAny(got)
}

// Quick builders for Value types.

// StringValue returns a new Value wrapping the provided string.
func StringValue(str string) *V {
	return &V{V: str, T: StringValueType}
}

// StringIndexValue returns a new Value wrapping the provided string index.
func StringIndexValue(strIdx int64) *V {
	return &V{V: strIdx, T: StringIndexValueType}
}

// StringsValue returns a new Value wrapping the provided strings.
func StringsValue(strs ...string) *V {
	return &V{V: strs, T: StringsValueType}
}

// StringIndicesValue returns a new Value wrapping the provided string
// indices.
func StringIndicesValue(strIdxs ...int64) *V {
	return &V{V: strIdxs, T: StringIndicesValueType}
}

// IntegerValue returns a new Value wrapping the provided int64.
func IntegerValue(i int64) *V {
	return &V{V: i, T: IntegerValueType}
}

// IntValue is an alias of IntegerValue.
var IntValue = IntegerValue

// IntegersValue returns a new Value wrapping the provided int64s.
func IntegersValue(ints ...int64) *V {
	return &V{V: ints, T: IntegersValueType}
}

// DoubleValue returns a new Value wrapping the provided float64.
func DoubleValue(f float64) *V {
	return &V{V: f, T: DoubleValueType}
}

// DoublesValue returns a new Value wrapping the provided float64s.
func DoublesValue(fs ...float64) *V {
	return &V{V: fs, T: DoublesValueType}
}

// BooleanValue returns a new Value wrapping the provided bool.
func BooleanValue(b bool) *V {
	return &V{V: b, T: BooleanValueType}
}

// ExpectStringValue expects the provided Value to be a string, returning
// that string or an error if it isn't.
func ExpectStringValue(val *V) (string, error) {
	if val.T != StringValueType {
		return "", fmt.Errorf("expected value type 'str'")
	}
	return url.QueryUnescape(val.V.(string))
}

func expectStringIndexValue(val *V) (int64, error) {
	if val.T != StringIndexValueType {
		return 0, fmt.Errorf("expected value type 'str_idx'")
	}
	return val.V.(int64), nil
}

// expectStringsValue expects the provided Value to be a Strings, returning
// that Strings' contained string slice, or an error if it isn't.
func expectStringsValue(val *V) ([]string, error) {
	if val.T != StringsValueType {
		return nil, fmt.Errorf("expected value type 'strs'")
	}
	return val.V.([]string), nil
}

func expectStringIndicesValue(val *V) ([]int64, error) {
	if val.T != StringIndicesValueType {
		return nil, fmt.Errorf("expected value type 'str_idxs'")
	}
	return val.V.([]int64), nil
}

// ExpectIntegerValue expects the provided Value to be an integer, returning
// that integer or an error if it isn't.
func ExpectIntegerValue(val *V) (int64, error) {
	if val.T != IntegerValueType {
		return 0, fmt.Errorf("expected value type 'int'")
	}
	return val.V.(int64), nil
}

// expectIntegersValue expects the provided Value to be an Integers, returning
// that Integer's contained int64 slice or an error if it isn't.
func expectIntegersValue(val *V) ([]int64, error) {
	if val.T != IntegersValueType {
		return nil, fmt.Errorf("expected value type 'ints'")
	}
	return val.V.([]int64), nil
}

// ExpectDoubleValue expects the provided Value to be a float64, returning
// that float or an error if it isn't.
func ExpectDoubleValue(val *V) (float64, error) {
	if val.T != DoubleValueType {
		return 0, fmt.Errorf("expected value type 'dbl'")
	}
	return val.V.(float64), nil
}

// expectDoublesValue expects the provided Value to be a Doubles, returning
// its float64 slice or an error if it isn't.
func expectDoublesValue(val *V) ([]float64, error) {
	if val.T != DoublesValueType {
		return nil, fmt.Errorf("expected value type 'dbls'")
	}
	return val.V.([]float64), nil
}

// expectBooleanValue expects the provided Value to be a bool.
func expectBooleanValue(val *V) (bool, error) {
	if val.T != BooleanValueType {
		return false, fmt.Errorf("expected value type 'bool'")
	}
	return val.V.(bool), nil
}
