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

package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ilhamster/healthviz/chart"
	"github.com/ilhamster/healthviz/measure"
)

const (
	defaultSheet   = "Sheet1"
	recordsSheet   = "Records"
	positionsSheet = "Positions"
	measuresSheet  = "Measures"
)

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// Workbook returns a spreadsheet of ch: a sheet of every record's measures, a
// sheet of each record's current selection and surface position, and a sheet
// describing the measures.  The caller must Close the returned file.
func Workbook(ch *chart.Chart) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := fillWorkbook(f, ch); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func fillWorkbook(f *excelize.File, ch *chart.Chart) error {
	if err := f.SetSheetName(defaultSheet, recordsSheet); err != nil {
		return err
	}
	for _, sheet := range []string{positionsSheet, measuresSheet} {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	header := []any{"Abbr", "State"}
	for _, m := range measure.All() {
		header = append(header, m.Label)
	}
	if err := setRow(f, recordsSheet, 1, header); err != nil {
		return err
	}
	for idx, pt := range ch.Points {
		row := []any{pt.Record.Abbr, pt.Record.Name}
		for _, m := range measure.All() {
			row = append(row, pt.Record.Value(m))
		}
		if err := setRow(f, recordsSheet, idx+2, row); err != nil {
			return fmt.Errorf("failed to write %s: %w", pt.Record.Abbr, err)
		}
	}

	header = []any{"Abbr", ch.X.Measure.Label, ch.Y.Measure.Label, "X (px)", "Y (px)"}
	if err := setRow(f, positionsSheet, 1, header); err != nil {
		return err
	}
	for idx, pt := range ch.Points {
		x, y := ch.SurfacePosition(pt)
		row := []any{
			pt.Record.Abbr,
			pt.Record.Value(ch.X.Measure),
			pt.Record.Value(ch.Y.Measure),
			x, y,
		}
		if err := setRow(f, positionsSheet, idx+2, row); err != nil {
			return fmt.Errorf("failed to write %s: %w", pt.Record.Abbr, err)
		}
	}

	if err := setRow(f, measuresSheet, 1, []any{"ID", "Label", "Axis", "Description"}); err != nil {
		return err
	}
	for idx, m := range measure.All() {
		cat := m.Category()
		row := []any{cat.ID(), cat.DisplayName(), m.Axis.String(), cat.Description()}
		if err := setRow(f, measuresSheet, idx+2, row); err != nil {
			return fmt.Errorf("failed to write %s: %w", m.ID, err)
		}
	}

	for _, sheet := range []string{recordsSheet, positionsSheet, measuresSheet} {
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "B", "H", 24); err != nil {
			return err
		}
	}
	return nil
}

// WriteWorkbook writes Workbook(ch) to w as XLSX.
func WriteWorkbook(w io.Writer, ch *chart.Chart) error {
	f, err := Workbook(ch)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}
