package detect

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/screenlint/screenlint/pkg/contrast"
	"github.com/screenlint/screenlint/pkg/layout"
	"github.com/screenlint/screenlint/pkg/observability"
)

// MinTouchTargetDP is the recommended minimum touch target edge in dp.
const MinTouchTargetDP = 44

// Touch targets whose smaller edge falls below this fraction of the
// minimum are High severity.
const touchHighFraction = 0.75

// Element types with dedicated handling.
const imageElementType = "android.widget.ImageView"

var textElementTypes = map[string]bool{
	"android.widget.TextView": true,
	"android.widget.EditText": true,
}

// Detector is one analysis pass over the parsed hierarchy and
// screenshot.
type Detector struct {
	// Name identifies the pass in logs and observability hooks.
	Name string
	Run  func(elements []layout.Element, img image.Image, engine *contrast.Engine) []Issue
}

// All returns the detector pipeline in its fixed execution order.
func All() []Detector {
	return []Detector{
		{Name: "content_descriptions", Run: func(e []layout.Element, _ image.Image, _ *contrast.Engine) []Issue {
			return ContentDescriptions(e)
		}},
		{Name: "touch_targets", Run: func(e []layout.Element, _ image.Image, _ *contrast.Engine) []Issue {
			return TouchTargets(e)
		}},
		{Name: "text_contrast", Run: TextContrast},
		{Name: "heading_hierarchy", Run: func(e []layout.Element, _ image.Image, _ *contrast.Engine) []Issue {
			return HeadingHierarchy(e)
		}},
	}
}

// Run executes every detector in order and concatenates their issues.
func Run(ctx context.Context, elements []layout.Element, img image.Image, engine *contrast.Engine) []Issue {
	hooks := observability.Analysis()
	var issues []Issue
	for _, d := range All() {
		hooks.OnDetectStart(ctx, d.Name, len(elements))
		start := time.Now()
		found := d.Run(elements, img, engine)
		hooks.OnDetectComplete(ctx, d.Name, len(found), time.Since(start), nil)
		issues = append(issues, found...)
	}
	return issues
}

// ContentDescriptions flags interactive or image elements whose
// content description is missing or too short for a screen reader to
// announce meaningfully.
func ContentDescriptions(elements []layout.Element) []Issue {
	var issues []Issue
	for _, el := range elements {
		if !el.Clickable && el.ElementType != imageElementType {
			continue
		}
		switch {
		case el.ContentDesc == "" && el.Text == "":
			issues = append(issues, Issue{
				Category: CategoryContentDescription,
				Severity: SeverityHigh,
				ElementInfo: ElementInfo{
					{Key: "type", Value: el.ElementType},
					{Key: "resource_id", Value: el.ResourceID},
					{Key: "class_name", Value: el.ClassName},
				},
				Description:   "Missing content description for interactive or image element",
				FixSuggestion: "Add a descriptive content description that explains the element's purpose",
				Bounds:        boundsOf(el),
			})
		case el.ContentDesc != "" && utf8.RuneCountInString(strings.TrimSpace(el.ContentDesc)) < 3:
			issues = append(issues, Issue{
				Category: CategoryContentDescription,
				Severity: SeverityMedium,
				ElementInfo: ElementInfo{
					{Key: "type", Value: el.ElementType},
					{Key: "content_desc", Value: el.ContentDesc},
					{Key: "resource_id", Value: el.ResourceID},
				},
				Description:   "Content description too short to be meaningful",
				FixSuggestion: "Provide a more descriptive content description",
				Bounds:        boundsOf(el),
			})
		}
	}
	return issues
}

// TouchTargets flags clickable elements smaller than the recommended
// minimum touch target on either axis.
func TouchTargets(elements []layout.Element) []Issue {
	var issues []Issue
	for _, el := range elements {
		if !el.Clickable {
			continue
		}
		w, h := el.Bounds.Width(), el.Bounds.Height()
		if w >= MinTouchTargetDP && h >= MinTouchTargetDP {
			continue
		}
		severity := SeverityMedium
		if float64(min(w, h)) < MinTouchTargetDP*touchHighFraction {
			severity = SeverityHigh
		}
		issues = append(issues, Issue{
			Category: CategoryTouchTarget,
			Severity: severity,
			ElementInfo: ElementInfo{
				{Key: "type", Value: el.ElementType},
				{Key: "resource_id", Value: el.ResourceID},
				{Key: "size", Value: fmt.Sprintf("%dx%ddp", w, h)},
			},
			Description:   fmt.Sprintf("Touch target size (%dx%ddp) smaller than recommended %ddp", w, h, MinTouchTargetDP),
			FixSuggestion: fmt.Sprintf("Increase touch target size to at least %dx%ddp", MinTouchTargetDP, MinTouchTargetDP),
			Bounds:        boundsOf(el),
		})
	}
	return issues
}

// TextContrast crops each text element out of the screenshot and
// checks the crop's dominant color pair against the WCAG thresholds.
// Elements with degenerate bounds, and crops that fall entirely
// outside the raster, are skipped.
func TextContrast(elements []layout.Element, img image.Image, engine *contrast.Engine) []Issue {
	if img == nil || engine == nil {
		return nil
	}
	var issues []Issue
	for _, el := range elements {
		if !textElementTypes[el.ElementType] {
			continue
		}
		b := el.Bounds
		if b.Right <= b.Left || b.Bottom <= b.Top {
			continue
		}
		region := contrast.RegionFromImage(img, image.Rect(b.Left, b.Top, b.Right, b.Bottom))
		found, ok := engine.AnalyzeRegion(region)
		if !ok {
			continue
		}
		issues = append(issues, Issue{
			Category: CategoryColorContrast,
			Severity: found.Severity,
			ElementInfo: ElementInfo{
				{Key: "type", Value: el.ElementType},
				{Key: "text", Value: el.Text},
				{Key: "contrast_ratio", Value: found.Ratio},
				{Key: "colors", Value: ElementInfo{
					{Key: "foreground", Value: found.Foreground},
					{Key: "background", Value: found.Background},
				}},
			},
			Description:   fmt.Sprintf("Insufficient color contrast ratio: %.2f", found.Ratio),
			FixSuggestion: fmt.Sprintf("Use suggested colors: %s", contrast.FormatColors(found.Suggestions)),
			Bounds:        boundsOf(el),
		})
	}
	return issues
}

// HeadingHierarchy checks that heading-like elements (class name
// containing "Heading" or "Title") do not skip levels in document
// order. The walk starts at level 1 and adopts each heading's
// estimated level as the new baseline, so a single report is emitted
// per skip.
func HeadingHierarchy(elements []layout.Element) []Issue {
	var issues []Issue
	current := 1
	for _, el := range elements {
		if !strings.Contains(el.ClassName, "Heading") && !strings.Contains(el.ClassName, "Title") {
			continue
		}
		estimated := estimateHeadingLevel(el)
		if estimated > current+1 {
			issues = append(issues, Issue{
				Category: CategoryHeadingHierarchy,
				Severity: SeverityMedium,
				ElementInfo: ElementInfo{
					{Key: "type", Value: el.ElementType},
					{Key: "text", Value: el.Text},
					{Key: "current_level", Value: estimated},
					{Key: "expected_level", Value: current + 1},
				},
				Description:   fmt.Sprintf("Skipped heading level: jumped from h%d to h%d", current, estimated),
				FixSuggestion: "Ensure heading levels are sequential",
				Bounds:        boundsOf(el),
			})
		}
		current = estimated
	}
	return issues
}

// estimateHeadingLevel guesses a heading's level from an explicit
// h1-h6 marker in the class name, falling back to text length buckets
// (longer text maps to a more prominent level). Headings with no text
// default to level 6.
func estimateHeadingLevel(el layout.Element) int {
	class := strings.ToLower(el.ClassName)
	for level := 1; level <= 6; level++ {
		if strings.Contains(class, fmt.Sprintf("h%d", level)) {
			return level
		}
	}
	switch n := utf8.RuneCountInString(el.Text); {
	case n == 0:
		return 6
	case n > 20:
		return 1
	case n > 16:
		return 2
	case n > 12:
		return 3
	case n > 8:
		return 4
	default:
		return 5
	}
}

func boundsOf(el layout.Element) *layout.Bounds {
	b := el.Bounds
	return &b
}
