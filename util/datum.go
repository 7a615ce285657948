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

package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Datum represents a single node in a healthviz data series response.
type Datum struct {
	Properties map[int64]*V
	Children   []*Datum
}

// PrettyPrint returns the receiver deterministically prettyprinted.
// Only for use in tests.
func (d *Datum) PrettyPrint(indent string, st []string) string {
	ret := []string{}
	// Emit properties in increasing alphabetic order.
	keys := make([]int64, 0, len(d.Properties))
	for k := range d.Properties {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		return st[keys[a]] < st[keys[b]]
	})
	for _, k := range keys {
		ret = append(ret,
			fmt.Sprintf("%sProp '%s': %s", indent, st[k], d.Properties[k].PrettyPrint(st)),
		)
	}
	for _, child := range d.Children {
		ret = append(ret,
			fmt.Sprintf("%sChild:", indent),
			child.PrettyPrint(indent+"  ", st),
		)
	}
	return strings.Join(ret, "\n")
}

// MarshalJSON encodes a Datum as the compact JS object `Datum`:
//
//	type KV = [number, V]
//	type Datum = [
//	  KV[],                        ; its Properties, by increasing key
//	  Datum[],                     ; its Children
//	]
func (d *Datum) MarshalJSON() ([]byte, error) {
	keys := make([]int64, 0, len(d.Properties))
	for k := range d.Properties {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		return keys[a] < keys[b]
	})
	props := make([]any, len(keys))
	for idx, k := range keys {
		props[idx] = []any{k, d.Properties[k]}
	}
	children := make([]any, len(d.Children))
	for idx, child := range d.Children {
		children[idx] = child
	}
	return json.Marshal([]any{props, children})
}

func (d *Datum) fromAny(sd []any) error {
	if len(sd) != 2 {
		return fmt.Errorf("datum is improperly formed")
	}
	props, ok := sd[0].([]any)
	if !ok {
		return fmt.Errorf("datum properties are improperly formed")
	}
	children, ok := sd[1].([]any)
	if !ok {
		return fmt.Errorf("datum children are improperly formed")
	}
	d.Properties = make(map[int64]*V, len(props))
	d.Children = make([]*Datum, len(children))
	for _, prop := range props {
		kv, ok := prop.([]any)
		if !ok || len(kv) != 2 {
			return fmt.Errorf("datum property is improperly formed")
		}
		num, ok := kv[0].(json.Number)
		if !ok {
			return fmt.Errorf("datum property key must be a number")
		}
		k, err := num.Int64()
		if err != nil {
			return err
		}
		val, ok := kv[1].([]any)
		if !ok {
			return fmt.Errorf("datum property value is improperly formed")
		}
		v := &V{}
		if err := v.fromAny(val); err != nil {
			return err
		}
		d.Properties[k] = v
	}
	for idx, c := range children {
		cd, ok := c.([]any)
		if !ok {
			return fmt.Errorf("datum child is improperly formed")
		}
		child := &Datum{}
		if err := child.fromAny(cd); err != nil {
			return err
		}
		d.Children[idx] = child
	}
	return nil
}

// UnmarshalJSON unmarshals the provided JSON bytes into the receiving Datum.
func (d *Datum) UnmarshalJSON(data []byte) error {
	sd := []any{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&sd); err != nil {
		return err
	}
	return d.fromAny(sd)
}

// DataSeriesRequest is a request for a specific data series from a client.
type DataSeriesRequest struct {
	QueryName  string
	SeriesName string
	Options    map[string]*V
}

// DataSeries represents a complete data series response.
type DataSeries struct {
	SeriesName string
	Root       *Datum
}

// PrettyPrint returns the receiver deterministically prettyprinted.
// Only for use in tests.
func (ds *DataSeries) PrettyPrint(indent string, st []string) string {
	return strings.Join([]string{
		fmt.Sprintf("%sSeries %s", indent, ds.SeriesName),
		indent + "  " + "Root:",
		ds.Root.PrettyPrint(indent+"    ", st),
	}, "\n")
}

// DataRequest is a request for one or more data series from a client.
type DataRequest struct {
	GlobalFilters  map[string]*V
	SeriesRequests []*DataSeriesRequest
}

// DataRequestFromJSON attempts to construct a DataRequest from the provided
// JSON.
func DataRequestFromJSON(j []byte) (*DataRequest, error) {
	ret := &DataRequest{}
	err := json.Unmarshal(j, ret)
	return ret, err
}

// Data represents a complete data response.
type Data struct {
	StringTable []string
	DataSeries  []*DataSeries
}

// PrettyPrint returns the receiver deterministically prettyprinted.  Series
// are emitted in name order, since concurrently-handled series may be added
// in any order.  Only for use in tests.
func (d *Data) PrettyPrint() string {
	series := make([]*DataSeries, len(d.DataSeries))
	copy(series, d.DataSeries)
	sort.SliceStable(series, func(a, b int) bool {
		return series[a].SeriesName < series[b].SeriesName
	})
	ret := []string{"Data:"}
	for _, s := range series {
		ret = append(ret, s.PrettyPrint("  ", d.StringTable))
	}
	return strings.Join(ret, "\n")
}

// stringTable associates strings with unique integers.  It is thread-safe.
type stringTable struct {
	stringsToIndices map[string]int64
	stringsByIndex   []string
	mu               sync.RWMutex
}

func newStringTable(strs ...string) *stringTable {
	ret := &stringTable{
		stringsToIndices: map[string]int64{},
	}
	for _, str := range strs {
		ret.stringIndex(str)
	}
	return ret
}

func (st *stringTable) lookupStringIndex(str string) (int64, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	idx, ok := st.stringsToIndices[str]
	return idx, ok
}

// stringIndex returns the index of the provided string, adding it if
// necessary.
func (st *stringTable) stringIndex(str string) int64 {
	if idx, ok := st.lookupStringIndex(str); ok {
		return idx
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	// Another writer may have inserted it between the lookup and the lock.
	if idx, ok := st.stringsToIndices[str]; ok {
		return idx
	}
	idx := int64(len(st.stringsByIndex))
	st.stringsByIndex = append(st.stringsByIndex, str)
	st.stringsToIndices[str] = idx
	return idx
}

func (st *stringTable) strings() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	ret := make([]string, len(st.stringsByIndex))
	copy(ret, st.stringsByIndex)
	return ret
}

// buildErrors accumulates errors raised while building a response.
type buildErrors struct {
	errs []error
	mu   sync.Mutex
}

func (errs *buildErrors) add(err error) {
	errs.mu.Lock()
	defer errs.mu.Unlock()
	errs.errs = append(errs.errs, err)
}

func (errs *buildErrors) hasError() bool {
	errs.mu.Lock()
	defer errs.mu.Unlock()
	return len(errs.errs) > 0
}

func (errs *buildErrors) toError() error {
	errs.mu.Lock()
	defer errs.mu.Unlock()
	if len(errs.errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs.errs))
	for idx, err := range errs.errs {
		msgs[idx] = err.Error()
	}
	return fmt.Errorf("%s", strings.Join(msgs, ", "))
}
