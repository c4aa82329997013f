package layout

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/screenlint/screenlint/pkg/errors"
)

// Bounds is an element's on-screen rectangle in pixel coordinates,
// matching the "[left,top][right,bottom]" hierarchy dump format.
type Bounds struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// ParseBounds parses the serialized "[left,top][right,bottom]" form.
// Coordinates may be negative (elements scrolled off-screen).
func ParseBounds(raw string) (Bounds, error) {
	pairs := strings.Split(strings.Trim(raw, "[]"), "][")
	if len(pairs) != 2 {
		return Bounds{}, errors.New(errors.ErrCodeInvalidBounds, "malformed bounds %q", raw)
	}
	var vals [4]int
	for i, pair := range pairs {
		coords := strings.Split(pair, ",")
		if len(coords) != 2 {
			return Bounds{}, errors.New(errors.ErrCodeInvalidBounds, "malformed bounds %q", raw)
		}
		for j, coord := range coords {
			v, err := strconv.Atoi(strings.TrimSpace(coord))
			if err != nil {
				return Bounds{}, errors.Wrap(errors.ErrCodeInvalidBounds, err, "malformed bounds %q", raw)
			}
			vals[i*2+j] = v
		}
	}
	return Bounds{Left: vals[0], Top: vals[1], Right: vals[2], Bottom: vals[3]}, nil
}

// Width returns the horizontal extent. Inverted rectangles yield
// negative values.
func (b Bounds) Width() int { return b.Right - b.Left }

// Height returns the vertical extent. Inverted rectangles yield
// negative values.
func (b Bounds) Height() int { return b.Bottom - b.Top }

// IsZero reports whether b is the zero rectangle, the stand-in for
// missing or unparseable bounds.
func (b Bounds) IsZero() bool { return b == Bounds{} }

// String renders the canonical "[left,top][right,bottom]" form.
func (b Bounds) String() string {
	return fmt.Sprintf("[%d,%d][%d,%d]", b.Left, b.Top, b.Right, b.Bottom)
}

// MarshalJSON encodes bounds as a [left, top, right, bottom] array.
func (b Bounds) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{b.Left, b.Top, b.Right, b.Bottom})
}

// UnmarshalJSON decodes a [left, top, right, bottom] array.
func (b *Bounds) UnmarshalJSON(data []byte) error {
	var vals []int
	if err := json.Unmarshal(data, &vals); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidBounds, err, "decode bounds")
	}
	if len(vals) != 4 {
		return errors.New(errors.ErrCodeInvalidBounds, "bounds must have 4 coordinates, got %d", len(vals))
	}
	*b = Bounds{Left: vals[0], Top: vals[1], Right: vals[2], Bottom: vals[3]}
	return nil
}

// MarshalYAML encodes bounds as a [left, top, right, bottom] sequence.
func (b Bounds) MarshalYAML() (any, error) {
	return []int{b.Left, b.Top, b.Right, b.Bottom}, nil
}

// Element is one node of a parsed view hierarchy. String attributes
// missing from the source node are empty strings.
type Element struct {
	ElementType string // XML tag, e.g. "android.widget.Button"
	Bounds      Bounds
	ContentDesc string
	Text        string
	Clickable   bool
	Focused     bool
	Enabled     bool
	ResourceID  string
	ClassName   string

	// Parent is the index of the parent element within the parsed
	// slice, or -1 for the document root.
	Parent int
}
