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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const testCSV = `id,state,abbr,poverty,age,income,healthcare,obesity,smokes
1,Alabama,AL,19.3,38.6,42830,13.9,33.5,21.1
2,Alaska,AK,11.2,33.3,71583,15,29.7,19.9
`

func run(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(data, []byte(testCSV), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HEALTHVIZ_DATA", "")
	t.Setenv("LOG_LEVEL", "error")

	svgPath := filepath.Join(dir, "chart.svg")
	if err := run(t, "render", "--data", data, "--x", "age", "-o", svgPath); err != nil {
		t.Fatalf("render yielded unexpected error %s", err)
	}
	svg, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), `data-measure="age"`) || strings.Count(string(svg), `class="marker"`) != 2 {
		t.Errorf("render wrote unexpected SVG %s", svg)
	}

	pngPath := filepath.Join(dir, "chart.png")
	if err := run(t, "render", "--data", data, "--format", "png", "-o", pngPath); err != nil {
		t.Fatalf("render --format png yielded unexpected error %s", err)
	}
	png, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("render --format png didn't write a PNG")
	}

	xlsxPath := filepath.Join(dir, "chart.xlsx")
	if err := run(t, "export", "--data", data, "--y", "smokes", "-o", xlsxPath); err != nil {
		t.Fatalf("export yielded unexpected error %s", err)
	}
	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		t.Fatalf("export wrote an unreadable workbook: %s", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Records")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Errorf("export wrote %d record rows, want 3", len(rows))
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(data, []byte(testCSV), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOG_LEVEL", "error")
	for _, args := range [][]string{
		{"render", "--data", data, "--format", "gif"},
		{"render", "--data", data, "--y", "poverty"},
		{"render", "--data", filepath.Join(dir, "missing.csv")},
		{"export", "--data", data, "--width", "-1"},
	} {
		if err := run(t, args...); err == nil {
			t.Errorf("%v succeeded, wanted error", args)
		}
	}
}
