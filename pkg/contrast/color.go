package contrast

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/screenlint/screenlint/pkg/errors"
)

// RGB is a color triple in the sRGB space, one byte per channel.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// String renders the color as a "(r, g, b)" triple.
func (c RGB) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.R, c.G, c.B)
}

// MarshalJSON encodes the color as a [r, g, b] array.
func (c RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]int{int(c.R), int(c.G), int(c.B)})
}

// UnmarshalJSON decodes a [r, g, b] array.
func (c *RGB) UnmarshalJSON(data []byte) error {
	var vals []int
	if err := json.Unmarshal(data, &vals); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode color")
	}
	if len(vals) != 3 {
		return errors.New(errors.ErrCodeInvalidFormat, "color must have 3 channels, got %d", len(vals))
	}
	for _, v := range vals {
		if v < 0 || v > 255 {
			return errors.New(errors.ErrCodeInvalidFormat, "channel value %d out of range", v)
		}
	}
	*c = RGB{R: uint8(vals[0]), G: uint8(vals[1]), B: uint8(vals[2])}
	return nil
}

// MarshalYAML encodes the color as a [r, g, b] sequence.
func (c RGB) MarshalYAML() (any, error) {
	return []int{int(c.R), int(c.G), int(c.B)}, nil
}

// FormatColors renders colors as a bracketed tuple list, e.g.
// "[(0, 96, 0), (255, 255, 255)]".
func FormatColors(colors []RGB) string {
	parts := make([]string, len(colors))
	for i, c := range colors {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Luminance computes the WCAG 2.1 relative luminance of a color.
//
// Each channel is normalized to [0,1] and linearized with the piecewise
// sRGB transfer curve, then the channels are combined with the standard
// weights. Black is 0, white is 1.
func Luminance(c RGB) float64 {
	r := linearize(float64(c.R) / 255)
	g := linearize(float64(c.G) / 255)
	b := linearize(float64(c.B) / 255)
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func linearize(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// Ratio computes the WCAG contrast ratio between two colors:
// (L_lighter + 0.05) / (L_darker + 0.05). The result is symmetric in
// its arguments and falls in [1, 21].
func Ratio(a, b RGB) float64 {
	la, lb := Luminance(a), Luminance(b)
	lighter, darker := la, lb
	if lb > la {
		lighter, darker = lb, la
	}
	return (lighter + 0.05) / (darker + 0.05)
}

// hue returns the color's hue on the halved 0-180 degree scale.
// Achromatic colors report hue 0.
func hue(c RGB) float64 {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	v := math.Max(r, math.Max(g, b))
	d := v - math.Min(r, math.Min(g, b))
	if d == 0 {
		return 0
	}
	var deg float64
	switch v {
	case r:
		deg = 60 * (g - b) / d
	case g:
		deg = 120 + 60*(b-r)/d
	default:
		deg = 240 + 60*(r-g)/d
	}
	if deg < 0 {
		deg += 360
	}
	return deg / 2
}

// distance returns the Euclidean distance between two colors in RGB
// space.
func distance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}
