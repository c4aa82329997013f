// Package pipeline provides the core analysis pipeline for Screenlint.
//
// This package implements the complete fetch → parse → detect → report
// pipeline shared by the CLI, the HTTP server, and the MCP tools. By
// centralizing this logic, every entry point analyzes screens the same
// way and report caching behaves identically everywhere.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Fetch: load the hierarchy document and screenshot (URL or file)
//  2. Parse: flatten the XML view hierarchy into elements
//  3. Detect: run the accessibility detectors over elements and pixels
//  4. Report: group findings into an ordered report and optionally
//     draw marked screenshots
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    XMLSource:   "layout.xml",
//	    ImageSource: "screen.png",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Report.TotalIssues)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/screenlint/screenlint/pkg/errors"
	"github.com/screenlint/screenlint/pkg/fetch"
	"github.com/screenlint/screenlint/pkg/report"
)

// DefaultImageName names marked-image files when no name can be
// derived from the image source.
const DefaultImageName = "screen"

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one analysis run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input sources, each either an HTTP(S) URL or a local file path.
	XMLSource   string `json:"xml_url,omitempty"`
	ImageSource string `json:"image_url,omitempty"`

	// Raw inputs. When set they take precedence over the sources.
	XML   []byte `json:"-"`
	Image []byte `json:"-"`

	// ImageName is the base name for marked-image files. Derived from
	// ImageSource when empty.
	ImageName string `json:"image_name,omitempty"`

	// DetectRegions additionally scans detected text regions of the
	// screenshot for low-contrast findings not tied to any element.
	DetectRegions bool `json:"detect_regions,omitempty"`

	// Mark renders one marked screenshot per issue category.
	Mark bool `json:"mark,omitempty"`

	// Refresh bypasses the report cache read. The fresh report is
	// still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger  *log.Logger   `json:"-"`
	Fetcher *fetch.Client `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.XML) == 0 && o.XMLSource == "" {
		return errors.New(errors.ErrCodeInvalidInput, "hierarchy input is required")
	}
	if len(o.Image) == 0 && o.ImageSource == "" {
		return errors.New(errors.ErrCodeInvalidInput, "image input is required")
	}
	if o.ImageName == "" {
		if o.ImageSource != "" {
			o.ImageName = fetch.ImageName(o.ImageSource)
		}
		if o.ImageName == "" {
			o.ImageName = DefaultImageName
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Fetcher == nil {
		o.Fetcher = fetch.New(nil, o.Logger.Debugf)
	}
	o.validated = true
	return nil
}

// =============================================================================
// Result - Pipeline Outputs
// =============================================================================

// Result contains the outputs of one pipeline run.
type Result struct {
	// Report is the assembled accessibility report.
	Report *report.Report

	// JSON is the report's canonical JSON encoding, byte-identical to
	// what the cache stores.
	JSON []byte

	// Marked contains the marked screenshots keyed by file name, one
	// per issue category. Only populated when Options.Mark is set.
	Marked map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the report came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ElementCount int
	IssueCount   int
	FetchTime    time.Duration
	ParseTime    time.Duration
	DetectTime   time.Duration
}

// CacheInfo tracks cache hits for the pipeline.
type CacheInfo struct {
	ReportHit bool // Whether the report came from cache
}
