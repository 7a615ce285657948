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
	"sync"
)

// DataResponseBuilder streamlines assembling responses to DataRequests.
type DataResponseBuilder struct {
	st   *stringTable
	errs *buildErrors
	d    *Data
	mu   sync.Mutex
}

// NewDataResponseBuilder returns a new, empty DataResponseBuilder.
func NewDataResponseBuilder() *DataResponseBuilder {
	return &DataResponseBuilder{
		st:   newStringTable(),
		errs: &buildErrors{},
		d: &Data{
			StringTable: []string{},
			DataSeries:  []*DataSeries{},
		},
	}
}

// DataBuilder is implemented by types that can assemble responses.
type DataBuilder interface {
	With(updates ...PropertyUpdate) DataBuilder
	Child() DataBuilder
}

// DataSeries returns a new DataBuilder for assembling the response to the
// provided DataSeriesRequest.  DataSeries is safe for concurrent use.
func (drb *DataResponseBuilder) DataSeries(req *DataSeriesRequest) DataBuilder {
	ret := newDatumBuilder(drb.errs, drb.st)
	ds := &DataSeries{
		SeriesName: req.SeriesName,
		Root:       ret.d,
	}
	drb.mu.Lock()
	drb.d.DataSeries = append(drb.d.DataSeries, ds)
	drb.mu.Unlock()
	return ret
}

// Data completes and returns the Data under construction, or the first
// errors encountered while building it.
func (drb *DataResponseBuilder) Data() (*Data, error) {
	if drb.errs.hasError() {
		return nil, drb.errs.toError()
	}
	drb.mu.Lock()
	defer drb.mu.Unlock()
	drb.d.StringTable = drb.st.strings()
	return drb.d, nil
}

// PropertyUpdate is a function that updates a provided datumBuilder.  A nil
// PropertyUpdate does nothing.
type PropertyUpdate func(db *datumBuilder) error

// Value specifies a value for a property whose key is not yet known.
type Value func(key string) PropertyUpdate

// EmptyUpdate is a PropertyUpdate that does nothing.
var EmptyUpdate PropertyUpdate = nil

// ErrorProperty injects an error into the Data response under construction.
func ErrorProperty(err error) PropertyUpdate {
	return func(db *datumBuilder) error {
		return err
	}
}

// datumBuilder assembles a single Datum.
type datumBuilder struct {
	errs      *buildErrors
	st        *stringTable
	valsByKey map[int64]*V
	d         *Datum
}

func newDatumBuilder(errs *buildErrors, st *stringTable) *datumBuilder {
	valsByKey := map[int64]*V{}
	return &datumBuilder{
		errs:      errs,
		st:        st,
		valsByKey: valsByKey,
		d: &Datum{
			Properties: valsByKey,
			Children:   []*Datum{},
		},
	}
}

// With applies the provided PropertyUpdates to the receiver in order.  Once
// any update fails, further updates anywhere in the response are skipped.
func (db *datumBuilder) With(updates ...PropertyUpdate) DataBuilder {
	if db.errs.hasError() {
		return db
	}
	for _, update := range updates {
		if update == nil {
			continue
		}
		if err := update(db); err != nil {
			db.errs.add(err)
			break
		}
	}
	return db
}

func (db *datumBuilder) Child() DataBuilder {
	child := newDatumBuilder(db.errs, db.st)
	db.d.Children = append(db.d.Children, child.d)
	return child
}

func (db *datumBuilder) set(key string, v *V) *datumBuilder {
	db.valsByKey[db.st.stringIndex(key)] = v
	return db
}

func (db *datumBuilder) withStr(key, value string) *datumBuilder {
	keyIdx := db.st.stringIndex(key)
	db.valsByKey[keyIdx] = StringIndexValue(db.st.stringIndex(value))
	return db
}

func (db *datumBuilder) withStrs(key string, values ...string) *datumBuilder {
	valIdxs := make([]int64, 0, len(values))
	for _, val := range values {
		valIdxs = append(valIdxs, db.st.stringIndex(val))
	}
	return db.set(key, StringIndicesValue(valIdxs...))
}

// appendStrs appends values to the string slice at key, creating it if
// needed.
func (db *datumBuilder) appendStrs(key string, values ...string) *datumBuilder {
	val, ok := db.valsByKey[db.st.stringIndex(key)]
	if !ok {
		return db.withStrs(key, values...)
	}
	strIdxs, err := expectStringIndicesValue(val)
	if err != nil {
		db.errs.add(err)
		return db
	}
	for _, val := range values {
		strIdxs = append(strIdxs, db.st.stringIndex(val))
	}
	val.V = strIdxs
	return db
}

// If applies the provided PropertyUpdate if the provided predicate is true.
func If(predicate bool, du PropertyUpdate) PropertyUpdate {
	if predicate {
		return du
	}
	return EmptyUpdate
}

// IfElse applies PropertyUpdate t if the provided predicate is true, and f
// otherwise.
func IfElse(predicate bool, t, f PropertyUpdate) PropertyUpdate {
	if predicate {
		return t
	}
	return f
}

// Chain applies the provided PropertyUpdates in order.
func Chain(updates ...PropertyUpdate) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.With(updates...)
		return nil
	}
}

// Nothing produces a Value setting nothing.
var Nothing Value = func(key string) PropertyUpdate {
	return EmptyUpdate
}

// String produces a Value setting the specified string value.
func String(value string) Value {
	return func(key string) PropertyUpdate {
		return StringProperty(key, value)
	}
}

// Strings produces a Value setting the specified []string value.
func Strings(values ...string) Value {
	return func(key string) PropertyUpdate {
		return StringsProperty(key, values...)
	}
}

// Integer produces a Value setting the specified int64 value.
func Integer(value int64) Value {
	return func(key string) PropertyUpdate {
		return IntegerProperty(key, value)
	}
}

// Double produces a Value setting the specified float64 value.
func Double(value float64) Value {
	return func(key string) PropertyUpdate {
		return DoubleProperty(key, value)
	}
}

// Error produces a Value which, when invoked, errors the DataBuilder.
func Error(err error) Value {
	return func(key string) PropertyUpdate {
		return ErrorProperty(err)
	}
}

// StringProperty returns a PropertyUpdate adding the specified string property.
func StringProperty(key, value string) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.withStr(key, value)
		return nil
	}
}

// StringsProperty returns a PropertyUpdate adding the specified string slice
// property.
func StringsProperty(key string, values ...string) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.withStrs(key, values...)
		return nil
	}
}

// StringsPropertyExtended returns a PropertyUpdate extending the specified
// string slice property.
func StringsPropertyExtended(key string, values ...string) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.appendStrs(key, values...)
		return nil
	}
}

// IntegerProperty returns a PropertyUpdate adding the specified integer property.
func IntegerProperty(key string, value int64) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, IntegerValue(value))
		return nil
	}
}

// IntegersProperty returns a PropertyUpdate adding the specified integer slice
// property.
func IntegersProperty(key string, values ...int64) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, IntegersValue(values...))
		return nil
	}
}

// DoubleProperty returns a PropertyUpdate adding the specified double property.
func DoubleProperty(key string, value float64) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, DoubleValue(value))
		return nil
	}
}

// DoublesProperty returns a PropertyUpdate adding the specified double slice
// property.
func DoublesProperty(key string, values ...float64) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, DoublesValue(values...))
		return nil
	}
}

// BooleanProperty returns a PropertyUpdate adding the specified boolean
// property.
func BooleanProperty(key string, value bool) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, BooleanValue(value))
		return nil
	}
}
