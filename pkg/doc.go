// Package pkg provides the core libraries for screenlint accessibility analysis.
//
// # Overview
//
// Screenlint inspects a captured mobile screen, a screenshot plus its
// serialized view hierarchy, and reports accessibility defects. The pkg
// directory is organized into three main areas:
//
//  1. Analysis - hierarchy parsing and defect detection ([layout], [detect], [contrast], [report])
//  2. Infrastructure - inputs, caching, images, rendering ([fetch], [cache], [imaging], [render/hierarchy])
//  3. Orchestration - the shared pipeline used by every entry point ([pipeline])
//
// # Architecture
//
// The typical data flow through screenlint:
//
//	hierarchy XML + screenshot
//	         ↓
//	    [layout] package (parse elements + bounds)
//	         ↓
//	    [detect] package (run the four detectors)
//	         ↓
//	    [report] package (group issues, summarize)
//	         ↓
//	    JSON/YAML report, marked screenshots, hierarchy graphs
//
// # Quick Start
//
// Analyze a screen:
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/screenlint/screenlint/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil) // nil cache disables caching
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    XMLSource:   "window_dump.xml",
//	    ImageSource: "screen.png",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(string(result.JSON))
//
// # Main Packages
//
// ## Analysis
//
// [layout] - View hierarchy parsing. Turns serialized XML dumps into a flat
// element slice with parsed pixel bounds, parent links, and the attributes
// the detectors read (content-desc, clickable, text, class).
//
// [detect] - The four detectors: content description, touch target size,
// color contrast, and heading hierarchy. Each emits issues with a severity,
// element details, and a fix suggestion.
//
// [contrast] - WCAG color analysis: relative luminance, contrast ratios,
// dominant-pair color clustering, text region detection, and search for the
// nearest compliant replacement color.
//
// [report] - Groups issues into per-category summaries with severity counts
// and a stable JSON encoding.
//
// ## Infrastructure
//
// [fetch] - Input loading from local paths or HTTP(S) URLs with retry and
// backoff for transient failures.
//
// [cache] - Content-addressed report caching. File and Redis backends plus
// a null backend, with scoped key derivation for multi-tenant use.
//
// [imaging] - Screenshot decoding (PNG, JPEG, base64) and issue marking:
// one outlined, labeled copy of the screenshot per issue category.
//
// [render/hierarchy] - Graphviz rendering of the parsed hierarchy as DOT,
// SVG, or PNG, with per-severity node highlighting.
//
// ## Orchestration
//
// [pipeline] - The complete fetch → parse → detect → report pipeline used
// by the CLI, the HTTP server, and the MCP tools. Ensures consistent
// behavior and caching across all entry points.
//
// [errors] - Coded errors carried across package boundaries so each surface
// can map failures to exit codes or HTTP statuses.
//
// [observability] - Hook points the pipeline and HTTP layers invoke for
// cache, fetch, and detection events.
//
// [httputil] - Retry helpers with exponential backoff for transient HTTP
// failures.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Common Workflows
//
// Parse a hierarchy dump by itself:
//
//	elements, _ := layout.Parse(data, layout.Options{})
//	for _, el := range elements {
//	    fmt.Println(el.Class, el.Bounds)
//	}
//
// Scan an image for low-contrast text without a hierarchy:
//
//	img, _ := imaging.Decode(data)
//	findings := contrast.NewEngine().AnalyzeImage(img, true)
//
// Render the hierarchy with issue highlights:
//
//	issues := detect.Run(ctx, elements, img, contrast.NewEngine())
//	dot := hierarchy.ToDOT(elements, highlights)
//	svg, _ := hierarchy.RenderSVG(dot)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/contrast/...     # Specific package
//
// Tests against live backends are guarded by environment variables such as
// SCREENLINT_TEST_MONGO_URI and skip by default.
//
// [layout]: https://pkg.go.dev/github.com/screenlint/screenlint/pkg/layout
// [detect]: https://pkg.go.dev/github.com/screenlint/screenlint/pkg/detect
// [contrast]: https://pkg.go.dev/github.com/screenlint/screenlint/pkg/contrast
// [report]: https://pkg.go.dev/github.com/screenlint/screenlint/pkg/report
// [fetch]: https://pkg.go.dev/github.com/screenlint/screenlint/pkg/fetch
// [cache]: https://pkg.go.dev/github.com/screenlint/screenlint/pkg/cache
// [imaging]: https://pkg.go.dev/github.com/screenlint/screenlint/pkg/imaging
// [render/hierarchy]: https://pkg.go.dev/github.com/screenlint/screenlint/pkg/render/hierarchy
// [pipeline]: https://pkg.go.dev/github.com/screenlint/screenlint/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/screenlint/screenlint/pkg/errors
// [observability]: https://pkg.go.dev/github.com/screenlint/screenlint/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/screenlint/screenlint/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/screenlint/screenlint/pkg/buildinfo
package pkg
