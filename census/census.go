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

// Package census loads per-state survey records from CSV.
package census

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ilhamster/healthviz/measure"
)

// ErrEmpty is returned when an operation needs at least one record.
var ErrEmpty = errors.New("dataset has no records")

const (
	abbrColumn  = "abbr"
	stateColumn = "state"
)

// Record is one row of survey data.
type Record struct {
	// Abbr is the record's short identifier, e.g. "AL".
	Abbr string
	// Name is the record's display name, which may be empty.
	Name   string
	values map[*measure.Measure]float64
}

// NewRecord returns a Record with the provided values.  Measures missing
// from values are zero.
func NewRecord(abbr, name string, values map[*measure.Measure]float64) *Record {
	r := &Record{
		Abbr:   abbr,
		Name:   name,
		values: make(map[*measure.Measure]float64, len(values)),
	}
	for m, v := range values {
		r.values[m] = v
	}
	return r
}

// Value returns the receiver's value for the given measure.
func (r *Record) Value(m *measure.Measure) float64 {
	return r.values[m]
}

// Dataset is an ordered collection of Records.
type Dataset struct {
	Records []*Record
}

// New returns a Dataset of the provided records.
func New(records ...*Record) *Dataset {
	return &Dataset{Records: records}
}

// Len returns the number of records in the receiver.
func (ds *Dataset) Len() int {
	if ds == nil {
		return 0
	}
	return len(ds.Records)
}

// Extent returns the minimum and maximum value of m across the receiver.
func (ds *Dataset) Extent(m *measure.Measure) (min, max float64, err error) {
	if ds.Len() == 0 {
		return 0, 0, ErrEmpty
	}
	min, max = math.Inf(1), math.Inf(-1)
	for _, r := range ds.Records {
		v := r.Value(m)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, nil
}

// RowError describes a malformed CSV cell.
type RowError struct {
	// Row is the 1-based line number of the offending row, counting the
	// header as row 1.
	Row    int
	Column string
	Err    error
}

func (re *RowError) Error() string {
	return fmt.Sprintf("row %d, column %q: %s", re.Row, re.Column, re.Err)
}

func (re *RowError) Unwrap() error {
	return re.Err
}

// Load parses a Dataset from CSV.  The first row must be a header naming at
// least the abbr column and every measure column; a state column is
// optional and other columns are ignored.
func Load(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header: %w", ErrEmpty)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols := map[string]int{}
	for idx, name := range header {
		cols[strings.TrimSpace(name)] = idx
	}
	required := []string{abbrColumn}
	for _, m := range measure.All() {
		required = append(required, m.ID)
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	stateIdx, hasState := cols[stateColumn]
	ds := &Dataset{}
	for row := 2; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row, err)
		}
		abbr := strings.TrimSpace(fields[cols[abbrColumn]])
		if abbr == "" {
			return nil, &RowError{row, abbrColumn, errors.New("empty identifier")}
		}
		rec := &Record{
			Abbr:   abbr,
			values: make(map[*measure.Measure]float64, len(required)-1),
		}
		if hasState {
			rec.Name = strings.TrimSpace(fields[stateIdx])
		}
		for _, m := range measure.All() {
			v, err := parseMeasure(fields[cols[m.ID]])
			if err != nil {
				return nil, &RowError{row, m.ID, err}
			}
			rec.values[m] = v
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

func parseMeasure(field string) (float64, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return 0, errors.New("missing value")
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed number %q", field)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite number %q", field)
	}
	return v, nil
}

// LoadFile loads a Dataset from the CSV file at path.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ds, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}
