package contrast

import (
	"image"
	"image/color"
	"math"
	"sort"
)

// WCAG 2.1 minimum contrast ratios.
const (
	MinRatioNormalText = 4.5
	MinRatioLargeText  = 3.0

	// LargeTextMinPixels approximates the 18pt large-text boundary in
	// rendered pixels: regions at least this tall use the relaxed
	// large-text threshold.
	LargeTextMinPixels = 24
)

// Severity labels for contrast findings.
const (
	SeverityHigh   = "High"
	SeverityMedium = "Medium"
)

// A ratio below this fraction of the required minimum is High severity.
const highSeverityFraction = 0.75

// Suggestion tuning: palette colors within this hue distance (on the
// 0-180 scale) of the original foreground are considered similar, and
// at most maxSuggestions of them are returned.
const (
	hueSimilarity  = 30.0
	maxSuggestions = 5
)

// Issue describes one insufficient-contrast finding.
type Issue struct {
	// Location is the (x, y) top-left corner of the analyzed region in
	// source-image coordinates.
	Location [2]int `json:"location" yaml:"location"`
	// Foreground and Background are the region's dominant color pair.
	Foreground RGB `json:"foreground" yaml:"foreground"`
	Background RGB `json:"background" yaml:"background"`
	// Ratio is the measured contrast ratio between them.
	Ratio float64 `json:"contrast_ratio" yaml:"contrast_ratio"`
	// Size is the analyzed region's width and height in pixels.
	Size [2]int `json:"size" yaml:"size"`
	// Severity is High when the ratio misses the minimum by more than
	// a quarter, Medium otherwise.
	Severity string `json:"severity" yaml:"severity"`
	// Suggestions are accessible replacement colors for the
	// foreground, best first.
	Suggestions []RGB `json:"suggested_colors" yaml:"suggested_colors"`
}

// Engine analyzes pixel regions for WCAG contrast failures and
// suggests accessible replacement colors.
type Engine struct {
	palette []RGB
}

// NewEngine builds an engine and its suggestion palette.
func NewEngine() *Engine {
	return &Engine{palette: buildPalette()}
}

// buildPalette enumerates the 32-step RGB lattice and keeps colors
// that reach the normal-text ratio against a black or white anchor,
// deduplicated in first-seen order.
func buildPalette() []RGB {
	anchors := []RGB{{0, 0, 0}, {255, 255, 255}}
	seen := make(map[RGB]bool)
	var palette []RGB
	for _, anchor := range anchors {
		for r := 0; r < 256; r += 32 {
			for g := 0; g < 256; g += 32 {
				for b := 0; b < 256; b += 32 {
					c := RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
					if seen[c] || Ratio(c, anchor) < MinRatioNormalText {
						continue
					}
					seen[c] = true
					palette = append(palette, c)
				}
			}
		}
	}
	return palette
}

// Suggest returns up to five palette colors that stay near the
// foreground's hue yet reach the normal-text ratio against background.
// Results are ordered by contrast ratio descending, ties broken by
// closeness to the original foreground.
func (e *Engine) Suggest(background, foreground RGB) []RGB {
	fgHue := hue(foreground)
	var candidates []RGB
	for _, c := range e.palette {
		if math.Abs(hue(c)-fgHue) >= hueSimilarity {
			continue
		}
		if Ratio(c, background) < MinRatioNormalText {
			continue
		}
		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ri, rj := Ratio(candidates[i], background), Ratio(candidates[j], background)
		if ri != rj {
			return ri > rj
		}
		return distance(candidates[i], foreground) < distance(candidates[j], foreground)
	})
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	return candidates
}

// Region is a rectangular pixel sample taken from a screenshot.
type Region struct {
	X      int // top-left corner in source-image coordinates
	Y      int
	Width  int
	Height int
	Pixels []RGB // row-major, length Width*Height
}

// Empty reports whether the region holds no pixels.
func (r Region) Empty() bool { return len(r.Pixels) == 0 }

// RegionFromImage samples the pixels of rect from img. The rectangle
// is clamped to the image bounds; an empty intersection yields an
// empty region.
func RegionFromImage(img image.Image, rect image.Rectangle) Region {
	r := rect.Intersect(img.Bounds())
	if r.Empty() {
		return Region{}
	}
	reg := Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
	reg.Pixels = make([]RGB, 0, reg.Width*reg.Height)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			reg.Pixels = append(reg.Pixels, fromColor(img.At(x, y)))
		}
	}
	return reg
}

func fromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// AnalyzeRegion checks a single region's dominant color pair against
// the WCAG thresholds. It returns an issue and true when the contrast
// falls short, or a zero issue and false otherwise. Empty regions
// never fail.
func (e *Engine) AnalyzeRegion(reg Region) (Issue, bool) {
	if reg.Empty() {
		return Issue{}, false
	}

	fg, bg := DominantPair(reg.Pixels)
	ratio := Ratio(fg, bg)

	minRequired := MinRatioNormalText
	if reg.Height >= LargeTextMinPixels {
		minRequired = MinRatioLargeText
	}
	if ratio >= minRequired {
		return Issue{}, false
	}

	severity := SeverityMedium
	if ratio < minRequired*highSeverityFraction {
		severity = SeverityHigh
	}
	return Issue{
		Location:    [2]int{reg.X, reg.Y},
		Foreground:  fg,
		Background:  bg,
		Ratio:       ratio,
		Size:        [2]int{reg.Width, reg.Height},
		Severity:    severity,
		Suggestions: e.Suggest(bg, fg),
	}, true
}

// AnalyzeImage scans a whole screenshot. With detectRegions false the
// image is treated as a single region; with true, candidate text
// regions are located first and each is analyzed independently.
func (e *Engine) AnalyzeImage(img image.Image, detectRegions bool) []Issue {
	var rects []image.Rectangle
	if detectRegions {
		rects = DetectTextRegions(img)
	} else {
		rects = []image.Rectangle{img.Bounds()}
	}

	var issues []Issue
	for _, rect := range rects {
		if issue, ok := e.AnalyzeRegion(RegionFromImage(img, rect)); ok {
			issues = append(issues, issue)
		}
	}
	return issues
}
