package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/screenlint/screenlint/pkg/detect"
	"github.com/screenlint/screenlint/pkg/errors"
	"github.com/screenlint/screenlint/pkg/layout"
)

// DefaultMarkDir is where marked screenshots are written unless a
// caller chooses another directory.
const DefaultMarkDir = "marked-output"

const outlineThickness = 4

// categoryColors maps issue categories to their marker colors.
// Unknown categories fall back to green.
var categoryColors = map[string]color.RGBA{
	detect.CategoryContentDescription: {B: 255, A: 255},
	detect.CategoryTouchTarget:        {R: 255, A: 255},
	detect.CategoryColorContrast:      {R: 238, G: 130, B: 238, A: 255},
	detect.CategoryHeadingHierarchy:   {R: 255, G: 165, A: 255},
}

var defaultMarkColor = color.RGBA{G: 255, A: 255}

// Box is one rectangle to outline on a marked screenshot.
type Box struct {
	Bounds layout.Bounds
	Label  string
}

// CategoryBoxes collects the boxes of one issue category.
type CategoryBoxes struct {
	Category string
	Boxes    []Box
}

// MarkFileName names the marked image for one category, for example
// "login_Touch_Target_Size.png".
func MarkFileName(imageName, category string) string {
	return fmt.Sprintf("%s_%s.png", imageName, strings.ReplaceAll(category, " ", "_"))
}

// Mark draws outlines around each category's boxes on separate copies
// of img and returns the encoded PNGs keyed by MarkFileName. Colors
// follow the category, labels are drawn above each box.
func Mark(img image.Image, imageName string, groups []CategoryBoxes) (map[string][]byte, error) {
	marked := make(map[string][]byte, len(groups))
	for _, group := range groups {
		c, ok := categoryColors[group.Category]
		if !ok {
			c = defaultMarkColor
		}
		canvas := cloneRGBA(img)
		for _, box := range group.Boxes {
			drawBox(canvas, box, c)
		}
		data, err := EncodePNG(canvas)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "encode marked image for %q", group.Category)
		}
		marked[MarkFileName(imageName, group.Category)] = data
	}
	return marked, nil
}

// WriteAll stores marked images under dir, creating it when missing.
func WriteAll(dir string, marked map[string][]byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create mark directory %q", dir)
	}
	for name, data := range marked {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "write marked image %q", path)
		}
	}
	return nil
}

func cloneRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, img, b.Min, draw.Src)
	return dst
}

// drawBox outlines the box with four edge bands and writes its label
// above the top-left corner.
func drawBox(dst *image.RGBA, box Box, c color.RGBA) {
	r := image.Rect(box.Bounds.Left, box.Bounds.Top, box.Bounds.Right, box.Bounds.Bottom)
	if r.Empty() {
		return
	}
	t := outlineThickness
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), c)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), c)

	if box.Label != "" {
		drawLabel(dst, box.Label, r.Min.X, r.Min.Y, c)
	}
}

func fillRect(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// drawLabel renders text just above (x, y) in white with a colored
// outline so it stays readable on any background.
func drawLabel(dst *image.RGBA, text string, x, y int, outline color.RGBA) {
	// Face7x13 glyphs are 7px wide with a 13px line height.
	baseline := y - 6
	if baseline < 11 {
		baseline = y + 15
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawString(dst, text, x+dx, baseline+dy, outline)
		}
	}
	drawString(dst, text, x, baseline, color.RGBA{R: 255, G: 255, B: 255, A: 255})
}

func drawString(dst *image.RGBA, text string, x, y int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(text)
}
