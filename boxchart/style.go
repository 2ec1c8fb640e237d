package boxchart

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot/vg"
)

// Theme is the look of an exported chart. Colors are given as "#rrggbb",
// "#rrggbbaa" or one of the BuiltinColors.
type Theme struct {
	Fill    string
	Alpha   float64 // scales the opacity of the fill
	Line    string
	Median  string
	Outlier string

	BoxWidth  vg.Length
	LineWidth vg.Length
}

var DefaultTheme = Theme{
	Fill:      "#01b8aa",
	Alpha:     1,
	Line:      "gray20",
	Median:    "black",
	Outlier:   "gray20",
	BoxWidth:  vg.Points(24),
	LineWidth: vg.Points(1),
}

var BuiltinColors = map[string]color.NRGBA{
	"red":     {0xff, 0x00, 0x00, 0xff},
	"green":   {0x00, 0xff, 0x00, 0xff},
	"blue":    {0x00, 0x00, 0xff, 0xff},
	"cyan":    {0x00, 0xff, 0xff, 0xff},
	"magenta": {0xff, 0x00, 0xff, 0xff},
	"yellow":  {0xff, 0xff, 0x00, 0xff},
	"white":   {0xff, 0xff, 0xff, 0xff},
	"gray20":  {0x33, 0x33, 0x33, 0xff},
	"gray40":  {0x66, 0x66, 0x66, 0xff},
	"gray":    {0x7f, 0x7f, 0x7f, 0xff},
	"gray60":  {0x99, 0x99, 0x99, 0xff},
	"gray80":  {0xcc, 0xcc, 0xcc, 0xff},
	"black":   {0x00, 0x00, 0x00, 0xff},
}

// ParseColor reads a hex or named color. The alpha of "#rrggbbaa" is
// not premultiplied.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if col, ok := BuiltinColors[strings.ToLower(s)]; ok {
		return col, nil
	}
	if !strings.HasPrefix(s, "#") || (len(s) != 7 && len(s) != 9) {
		return color.NRGBA{}, fmt.Errorf("boxchart: bad color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("boxchart: bad color %q", s)
	}
	if len(s) == 7 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// SetAlpha scales the opacity of c by a in [0,1].
func SetAlpha(c color.Color, a float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	a = math.Max(0, math.Min(1, a))
	n.A = uint8(math.Round(float64(n.A) * a))
	return n
}

// colors resolves all colors of the theme.
func (t Theme) colors() (fill, line, median, outlier color.Color, err error) {
	var c [4]color.NRGBA
	for i, s := range []string{t.Fill, t.Line, t.Median, t.Outlier} {
		if c[i], err = ParseColor(s); err != nil {
			return nil, nil, nil, nil, err
		}
	}
	return SetAlpha(c[0], t.Alpha), c[1], c[2], c[3], nil
}
