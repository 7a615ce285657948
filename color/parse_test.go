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

package color

import (
	"errors"
	imgcolor "image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	for _, test := range []struct {
		spec    string
		want    imgcolor.NRGBA
		wantErr bool
	}{
		{spec: "#96C7DE", want: imgcolor.NRGBA{R: 0x96, G: 0xc7, B: 0xde, A: 0xff}},
		{spec: "#fff", want: imgcolor.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{spec: "#96C7DE80", want: imgcolor.NRGBA{R: 0x96, G: 0xc7, B: 0xde, A: 0x80}},
		{spec: "White", want: imgcolor.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{spec: "steelblue", want: imgcolor.NRGBA{R: 70, G: 130, B: 180, A: 0xff}},
		{spec: " lightblue ", want: imgcolor.NRGBA{R: 173, G: 216, B: 230, A: 0xff}},
		{spec: "transparent", want: imgcolor.NRGBA{}},
		{spec: "rgb(150,199,222)", want: imgcolor.NRGBA{R: 150, G: 199, B: 222, A: 0xff}},
		{spec: "rgba(0, 0, 0, 0.5)", want: imgcolor.NRGBA{A: 128}},
		{spec: "rgb(100% 0% 0% / 50%)", want: imgcolor.NRGBA{R: 0xff, A: 128}},
		{spec: "hsl(120, 100%, 25%)", want: imgcolor.NRGBA{G: 128, A: 0xff}},
		{spec: "hsla(0deg, 0%, 100%, 1)", want: imgcolor.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{spec: "#12345", wantErr: true},
		{spec: "#ggg", wantErr: true},
		{spec: "notacolor", wantErr: true},
		{spec: "rgb(1,2)", wantErr: true},
		{spec: "hsl(0, 50, 50%)", wantErr: true},
		{spec: "cmyk(0,0,0,0)", wantErr: true},
		{spec: "", wantErr: true},
	} {
		t.Run(test.spec, func(t *testing.T) {
			got, err := Parse(test.spec)
			if (err != nil) != test.wantErr {
				t.Fatalf("Parse(%q) yielded error %v, wantErr %t", test.spec, err, test.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrBadColor) {
					t.Errorf("Parse(%q) yielded error %v, wanted ErrBadColor", test.spec, err)
				}
				return
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Parse(%q) diff (-want +got):\n%s", test.spec, diff)
			}
		})
	}
}

func TestPaletteValidate(t *testing.T) {
	for _, test := range []struct {
		description string
		palette     Palette
		wantErr     bool
	}{{
		description: "default",
		palette:     DefaultPalette,
	}, {
		description: "named and functional colors",
		palette: Palette{
			MarkerFill:    "steelblue",
			MarkerStroke:  "rgb(255, 255, 255)",
			MarkerText:    "hsl(0, 0%, 100%)",
			ActiveLabel:   "black",
			InactiveLabel: "#aaa",
		}.WithDefaults(),
	}, {
		description: "unparseable inactive label",
		palette:     Palette{InactiveLabel: "greyish"}.WithDefaults(),
		wantErr:     true,
	}, {
		description: "empty color",
		palette:     Palette{},
		wantErr:     true,
	}} {
		t.Run(test.description, func(t *testing.T) {
			err := test.palette.Validate()
			if (err != nil) != test.wantErr {
				t.Errorf("Validate() yielded error %v, wantErr %t", err, test.wantErr)
			}
		})
	}
}
