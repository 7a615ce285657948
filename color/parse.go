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
	"fmt"
	imgcolor "image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ErrBadColor is wrapped by every Parse failure.
var ErrBadColor = errors.New("unsupported color")

// Parse resolves an HTML color string: a CSS color name, a #rgb, #rgba,
// #rrggbb or #rrggbbaa hex specifier, or an rgb(), rgba(), hsl() or hsla()
// function.
func Parse(s string) (imgcolor.NRGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[spec]; ok {
		return imgcolor.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	if spec == "transparent" {
		return imgcolor.NRGBA{}, nil
	}
	var c imgcolor.NRGBA
	var err error
	if hex, ok := strings.CutPrefix(spec, "#"); ok {
		c, err = parseHex(hex)
	} else if name, args, ok := cutFunction(spec); ok {
		c, err = parseFunction(name, args)
	} else {
		err = errors.New("unknown name")
	}
	if err != nil {
		return imgcolor.NRGBA{}, fmt.Errorf("%w %q: %s", ErrBadColor, s, err)
	}
	return c, nil
}

func parseHex(hex string) (imgcolor.NRGBA, error) {
	if len(hex) == 3 || len(hex) == 4 {
		long := make([]byte, 0, 2*len(hex))
		for i := 0; i < len(hex); i++ {
			long = append(long, hex[i], hex[i])
		}
		hex = string(long)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return imgcolor.NRGBA{}, errors.New("wrong hex length")
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return imgcolor.NRGBA{}, errors.New("malformed hex")
	}
	return imgcolor.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// cutFunction splits "name(a, b, c)" into its name and arguments.
func cutFunction(spec string) (name string, args []string, ok bool) {
	name, rest, ok := strings.Cut(spec, "(")
	if !ok || !strings.HasSuffix(rest, ")") {
		return "", nil, false
	}
	rest = strings.TrimSuffix(rest, ")")
	// Both the comma and the space-separated "r g b / a" forms are accepted.
	rest = strings.NewReplacer(",", " ", "/", " ").Replace(rest)
	return strings.TrimSpace(name), strings.Fields(rest), true
}

func parseFunction(name string, args []string) (imgcolor.NRGBA, error) {
	switch name {
	case "rgb", "rgba", "hsl", "hsla":
	default:
		return imgcolor.NRGBA{}, fmt.Errorf("unknown function %s()", name)
	}
	if len(args) != 3 && len(args) != 4 {
		return imgcolor.NRGBA{}, fmt.Errorf("%s() takes 3 or 4 arguments, got %d", name, len(args))
	}
	hasAlpha := len(args) == 4
	alpha := 1.0
	if hasAlpha {
		a, err := fraction(args[3], 1)
		if err != nil {
			return imgcolor.NRGBA{}, err
		}
		alpha = a
	}
	var r, g, b float64
	if strings.HasPrefix(name, "rgb") {
		var err error
		if r, err = fraction(args[0], 255); err != nil {
			return imgcolor.NRGBA{}, err
		}
		if g, err = fraction(args[1], 255); err != nil {
			return imgcolor.NRGBA{}, err
		}
		if b, err = fraction(args[2], 255); err != nil {
			return imgcolor.NRGBA{}, err
		}
	} else {
		h, err := number(strings.TrimSuffix(args[0], "deg"))
		if err != nil {
			return imgcolor.NRGBA{}, err
		}
		s, err := percent(args[1])
		if err != nil {
			return imgcolor.NRGBA{}, err
		}
		l, err := percent(args[2])
		if err != nil {
			return imgcolor.NRGBA{}, err
		}
		r, g, b = hslToRGB(h, s, l)
	}
	return imgcolor.NRGBA{R: channel(r), G: channel(g), B: channel(b), A: channel(alpha)}, nil
}

func number(arg string) (float64, error) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("malformed number %q", arg)
	}
	return v, nil
}

// fraction parses a percentage, or a number out of scale, as a value in
// [0, 1].
func fraction(arg string, scale float64) (float64, error) {
	if strings.HasSuffix(arg, "%") {
		return percent(arg)
	}
	v, err := number(arg)
	if err != nil {
		return 0, err
	}
	return clamp(v / scale), nil
}

func percent(arg string) (float64, error) {
	p, ok := strings.CutSuffix(arg, "%")
	if !ok {
		return 0, fmt.Errorf("%q is not a percentage", arg)
	}
	v, err := number(p)
	if err != nil {
		return 0, err
	}
	return clamp(v / 100), nil
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func channel(v float64) uint8 {
	return uint8(math.Round(clamp(v) * 255))
}

// hslToRGB converts a hue in degrees, and saturation and lightness in
// [0, 1], to RGB channels in [0, 1].
func hslToRGB(h, s, l float64) (r, g, b float64) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}
