package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/screenlint/screenlint/pkg/cache"
	"github.com/screenlint/screenlint/pkg/contrast"
	"github.com/screenlint/screenlint/pkg/detect"
	"github.com/screenlint/screenlint/pkg/errors"
	"github.com/screenlint/screenlint/pkg/imaging"
	"github.com/screenlint/screenlint/pkg/layout"
	"github.com/screenlint/screenlint/pkg/observability"
	"github.com/screenlint/screenlint/pkg/report"
)

// Runner encapsulates pipeline execution with report caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can safely share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL bounds how long cached reports stay valid. Zero means
	// cache.TTLReport.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete fetch → parse → detect → report pipeline
// with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Fetch
	fetchStart := time.Now()
	xmlData, imageData, err := loadInputs(ctx, &opts)
	if err != nil {
		return nil, err
	}
	result.Stats.FetchTime = time.Since(fetchStart)

	cacheKey := r.Keyer.ReportKey(cache.Hash(xmlData), cache.Hash(imageData), cache.ReportKeyOpts{
		DetectRegions: opts.DetectRegions,
	})

	var img image.Image

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if rep, raw, ok := r.cachedReport(ctx, cacheKey); ok {
			result.Report = rep
			result.JSON = raw
			result.Stats.IssueCount = rep.TotalIssues
			result.CacheInfo.ReportHit = true
			r.Logger.Info("report cache hit",
				"id", rep.ID,
				"issues", rep.TotalIssues)
		}
	}

	if result.Report == nil {
		img, err = imaging.Decode(imageData)
		if err != nil {
			return nil, fmt.Errorf("decode screenshot: %w", err)
		}

		rep, err := r.analyze(ctx, xmlData, img, opts, result)
		if err != nil {
			return nil, err
		}
		// A run canceled mid-detect must not reach the cache.
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeAnalysisFailed, err, "analysis interrupted")
		}
		result.Report = rep

		data, err := json.Marshal(rep)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode report")
		}
		result.JSON = data
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl()); err == nil {
			observability.Cache().OnCacheSet(ctx, "report", len(data))
		}
	}

	// Stage 4b: Mark. Boxes come from the report so marking also works
	// when the report was served from cache.
	if opts.Mark {
		if img == nil {
			img, err = imaging.Decode(imageData)
			if err != nil {
				return nil, fmt.Errorf("decode screenshot: %w", err)
			}
		}
		marked, err := imaging.Mark(img, opts.ImageName, markGroups(result.Report))
		if err != nil {
			return nil, err
		}
		result.Marked = marked
		r.Logger.Info("marked screenshots rendered", "files", len(marked))
	}

	return result, nil
}

// analyze runs parse, detect, and report assembly over raw inputs.
func (r *Runner) analyze(ctx context.Context, xmlData []byte, img image.Image, opts Options, result *Result) (*report.Report, error) {
	hooks := observability.Analysis()

	// Stage 2: Parse
	parseStart := time.Now()
	hooks.OnParseStart(ctx)
	elements, err := layout.Parse(xmlData, layout.Options{Logger: opts.Logger.Warnf})
	parseTime := time.Since(parseStart)
	hooks.OnParseComplete(ctx, len(elements), parseTime, err)
	if err != nil {
		return nil, fmt.Errorf("parse hierarchy: %w", err)
	}
	result.Stats.ParseTime = parseTime
	result.Stats.ElementCount = len(elements)
	r.Logger.Info("parsed hierarchy",
		"elements", len(elements),
		"duration", parseTime)

	// Stage 3: Detect
	detectStart := time.Now()
	engine := contrast.NewEngine()
	issues := detect.Run(ctx, elements, img, engine)
	if opts.DetectRegions {
		found := engine.AnalyzeImage(img, true)
		issues = append(issues, regionIssues(found)...)
		r.Logger.Debug("scanned text regions", "findings", len(found))
	}
	result.Stats.DetectTime = time.Since(detectStart)
	result.Stats.IssueCount = len(issues)
	r.Logger.Info("detectors finished",
		"issues", len(issues),
		"duration", result.Stats.DetectTime)

	// Stage 4: Report
	buildStart := time.Now()
	width, height := imaging.Dimensions(img)
	rep := report.Build(issues, width, height)
	hooks.OnReportBuilt(ctx, rep.TotalIssues, time.Since(buildStart))
	return rep, nil
}

// cachedReport loads and decodes a cached report. Corrupt entries are
// treated as misses so the run falls through to recompute.
func (r *Runner) cachedReport(ctx context.Context, key string) (*report.Report, []byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "report")
		return nil, nil, false
	}
	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		r.Logger.Warn("discarding corrupt cached report", "key", key, "err", err)
		observability.Cache().OnCacheMiss(ctx, "report")
		return nil, nil, false
	}
	observability.Cache().OnCacheHit(ctx, "report")
	return &rep, data, true
}

// loadInputs resolves the hierarchy and screenshot bytes, fetching
// whatever was not passed in raw.
func loadInputs(ctx context.Context, opts *Options) (xmlData, imageData []byte, err error) {
	xmlData = opts.XML
	if len(xmlData) == 0 {
		xmlData, err = opts.Fetcher.Fetch(ctx, opts.XMLSource)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch hierarchy: %w", err)
		}
	}
	imageData = opts.Image
	if len(imageData) == 0 {
		imageData, err = opts.Fetcher.Fetch(ctx, opts.ImageSource)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch screenshot: %w", err)
		}
	}
	return xmlData, imageData, nil
}

// regionIssues converts standalone contrast findings into report
// issues under the Color Contrast category.
func regionIssues(found []contrast.Issue) []detect.Issue {
	issues := make([]detect.Issue, 0, len(found))
	for _, f := range found {
		bounds := &layout.Bounds{
			Left:   f.Location[0],
			Top:    f.Location[1],
			Right:  f.Location[0] + f.Size[0],
			Bottom: f.Location[1] + f.Size[1],
		}
		issues = append(issues, detect.Issue{
			Category: detect.CategoryColorContrast,
			Severity: f.Severity,
			ElementInfo: detect.ElementInfo{
				{Key: "location", Value: fmt.Sprintf("x: %d, y: %d", f.Location[0], f.Location[1])},
				{Key: "contrast_ratio", Value: math.Round(f.Ratio*100) / 100},
				{Key: "element_size", Value: fmt.Sprintf("%dx%dpx", f.Size[0], f.Size[1])},
				{Key: "colors", Value: detect.ElementInfo{
					{Key: "foreground", Value: f.Foreground},
					{Key: "background", Value: f.Background},
				}},
			},
			Description:   fmt.Sprintf("Insufficient color contrast ratio: %.2f", f.Ratio),
			FixSuggestion: fmt.Sprintf("Use suggested colors: %s", contrast.FormatColors(f.Suggestions)),
			Bounds:        bounds,
		})
	}
	return issues
}

// markGroups gathers drawable boxes per category from a report.
func markGroups(rep *report.Report) []imaging.CategoryBoxes {
	groups := make([]imaging.CategoryBoxes, 0, len(rep.Categories))
	for _, cat := range rep.Categories {
		group := imaging.CategoryBoxes{Category: cat.Name}
		for _, issue := range cat.Issues {
			if issue.Bounds == nil || issue.Bounds.IsZero() {
				continue
			}
			group.Boxes = append(group.Boxes, imaging.Box{
				Bounds: *issue.Bounds,
				Label:  issue.Severity,
			})
		}
		if len(group.Boxes) > 0 {
			groups = append(groups, group)
		}
	}
	return groups
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLReport
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
