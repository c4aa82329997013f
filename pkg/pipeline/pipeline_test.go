package pipeline

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/screenlint/screenlint/pkg/cache"
	"github.com/screenlint/screenlint/pkg/detect"
	"github.com/screenlint/screenlint/pkg/errors"
	"github.com/screenlint/screenlint/pkg/imaging"
	"github.com/screenlint/screenlint/pkg/report"
)

const buttonHierarchy = `<hierarchy>
  <android.widget.FrameLayout bounds="[0,0][100,100]">
    <android.widget.Button bounds="[10,10][40,40]" clickable="true"/>
  </android.widget.FrameLayout>
</hierarchy>`

func whitePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	data, err := imaging.EncodePNG(img)
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return data
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		XML:       []byte(buttonHierarchy),
		Image:     whitePNG(t, 100, 100),
		ImageName: "screen",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	rep := result.Report
	if rep.TotalIssues != 2 {
		t.Fatalf("TotalIssues = %d, want 2 (missing description + small target)", rep.TotalIssues)
	}
	if rep.ImageDimensions != [2]int{100, 100} {
		t.Errorf("ImageDimensions = %v", rep.ImageDimensions)
	}
	if len(rep.Categories) != 2 ||
		rep.Categories[0].Name != detect.CategoryContentDescription ||
		rep.Categories[1].Name != detect.CategoryTouchTarget {
		t.Errorf("categories = %+v", rep.Categories)
	}
	if result.Stats.ElementCount != 3 {
		t.Errorf("ElementCount = %d, want 3", result.Stats.ElementCount)
	}
	if result.Stats.IssueCount != 2 {
		t.Errorf("IssueCount = %d", result.Stats.IssueCount)
	}
	if result.CacheInfo.ReportHit {
		t.Error("fresh run reported a cache hit")
	}

	var decoded report.Report
	if err := json.Unmarshal(result.JSON, &decoded); err != nil {
		t.Fatalf("result JSON does not decode: %v", err)
	}
	if decoded.TotalIssues != rep.TotalIssues {
		t.Errorf("decoded TotalIssues = %d", decoded.TotalIssues)
	}
}

func TestExecuteCacheRoundTrip(t *testing.T) {
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	runner := NewRunner(fileCache, nil, nil)
	defer runner.Close()

	opts := Options{XML: []byte(buttonHierarchy), Image: whitePNG(t, 100, 100)}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.CacheInfo.ReportHit {
		t.Error("first run hit the cache")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second.CacheInfo.ReportHit {
		t.Error("second run missed the cache")
	}
	if second.Report.ID != first.Report.ID {
		t.Errorf("cached report ID = %v, want %v", second.Report.ID, first.Report.ID)
	}
	if string(second.JSON) != string(first.JSON) {
		t.Error("cached JSON differs from original")
	}
}

func TestExecuteRefreshBypassesCache(t *testing.T) {
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	runner := NewRunner(fileCache, nil, nil)
	defer runner.Close()

	opts := Options{XML: []byte(buttonHierarchy), Image: whitePNG(t, 100, 100)}
	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	opts.Refresh = true
	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("refresh run: %v", err)
	}
	if second.CacheInfo.ReportHit {
		t.Error("refresh run hit the cache")
	}
	if second.Report.ID == first.Report.ID {
		t.Error("refresh run returned the cached report")
	}

	// The refreshed report replaces the cache entry.
	opts.Refresh = false
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if !third.CacheInfo.ReportHit || third.Report.ID != second.Report.ID {
		t.Errorf("cache not refreshed: hit=%v id=%v", third.CacheInfo.ReportHit, third.Report.ID)
	}
}

func TestExecuteMark(t *testing.T) {
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	runner := NewRunner(fileCache, nil, nil)
	defer runner.Close()

	opts := Options{
		XML:       []byte(buttonHierarchy),
		Image:     whitePNG(t, 100, 100),
		ImageName: "login",
		Mark:      true,
	}
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	wantFiles := []string{"login_Content_Description.png", "login_Touch_Target_Size.png"}
	for _, name := range wantFiles {
		if _, ok := result.Marked[name]; !ok {
			t.Errorf("missing marked file %q, got %v", name, markedKeys(result.Marked))
		}
	}

	// Marking must also work when the report comes from cache.
	cached, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("cached execute: %v", err)
	}
	if !cached.CacheInfo.ReportHit {
		t.Fatal("second run missed the cache")
	}
	if len(cached.Marked) != 2 {
		t.Errorf("cache-hit run produced %d marked files, want 2", len(cached.Marked))
	}
}

func TestExecuteFetchesSources(t *testing.T) {
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "layout.xml")
	imgPath := filepath.Join(dir, "shot.png")
	if err := os.WriteFile(xmlPath, []byte(buttonHierarchy), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(imgPath, whitePNG(t, 100, 100), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		XMLSource:   xmlPath,
		ImageSource: imgPath,
		Mark:        true,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Report.TotalIssues != 2 {
		t.Errorf("TotalIssues = %d", result.Report.TotalIssues)
	}
	if _, ok := result.Marked["shot_Touch_Target_Size.png"]; !ok {
		t.Errorf("image name not derived from source: %v", markedKeys(result.Marked))
	}
}

func TestExecuteDetectRegions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			img.SetRGBA(x, y, color.RGBA{180, 180, 180, 255})
		}
	}
	for y := 40; y < 56; y++ {
		for x := 50; x < 90; x++ {
			img.SetRGBA(x, y, color.RGBA{150, 150, 150, 255})
		}
	}
	pngData, err := imaging.EncodePNG(img)
	if err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		XML:           []byte(`<hierarchy><android.widget.FrameLayout bounds="[0,0][200,100]"/></hierarchy>`),
		Image:         pngData,
		DetectRegions: true,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	cat := result.Report.Category(detect.CategoryColorContrast)
	if cat == nil {
		t.Fatalf("no contrast category, report = %+v", result.Report)
	}
	if len(cat.Issues) != 1 {
		t.Fatalf("got %d contrast issues, want 1", len(cat.Issues))
	}
	issue := cat.Issues[0]
	if got := issue.ElementInfo.Get("location"); got != "x: 45, y: 35" {
		t.Errorf("location = %v", got)
	}
	if got := issue.ElementInfo.Get("element_size"); got != "50x26px" {
		t.Errorf("element_size = %v", got)
	}
	if issue.Bounds == nil || issue.Bounds.Left != 45 || issue.Bounds.Top != 35 {
		t.Errorf("bounds = %v", issue.Bounds)
	}
}

func TestExecuteValidation(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	tests := []struct {
		name string
		opts Options
	}{
		{name: "missing hierarchy", opts: Options{Image: []byte("x")}},
		{name: "missing image", opts: Options{XML: []byte("x")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runner.Execute(context.Background(), tt.opts)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v", err)
			}
		})
	}
}

func TestExecuteBadInputs(t *testing.T) {
	runner := NewRunner(nil, nil, nil)

	t.Run("bad image", func(t *testing.T) {
		_, err := runner.Execute(context.Background(), Options{
			XML:   []byte(buttonHierarchy),
			Image: []byte("junk"),
		})
		if !errors.Is(err, errors.ErrCodeInvalidImage) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("bad hierarchy", func(t *testing.T) {
		_, err := runner.Execute(context.Background(), Options{
			XML:   []byte("<hierarchy><unclosed>"),
			Image: whitePNG(t, 10, 10),
		})
		if !errors.Is(err, errors.ErrCodeInvalidHierarchy) {
			t.Errorf("error = %v", err)
		}
	})
}

func markedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
