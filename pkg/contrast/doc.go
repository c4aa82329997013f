// Package contrast implements WCAG 2.1 color-contrast analysis.
//
// The engine measures the contrast ratio between the two dominant
// colors of a pixel region and reports regions that fall short of the
// WCAG thresholds (4.5:1 for normal text, 3:1 for large text), together
// with accessible replacement colors drawn from a precomputed palette.
//
// # Color math
//
//   - [Luminance]: WCAG relative luminance of an sRGB color
//   - [Ratio]: symmetric contrast ratio in [1, 21]
//   - [DominantPair]: deterministic 2-means split of a pixel region
//     into foreground and background colors
//
// # Analyzing screenshots
//
//	eng := contrast.NewEngine()
//	issues := eng.AnalyzeImage(img, true) // auto-detect text regions
//	for _, is := range issues {
//	    fmt.Printf("%.2f:1 at (%d, %d)\n", is.Ratio, is.Location[0], is.Location[1])
//	}
//
// Region auto-detection grayscales the screenshot, applies an inverted
// local-mean adaptive threshold, and takes the bounding boxes of the
// 8-connected foreground components, padded and filtered by size.
//
// A single [Engine] is safe for concurrent use once constructed: the
// suggestion palette is built at construction and immutable afterwards.
package contrast
