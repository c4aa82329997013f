package contrast

import (
	"image"
	"image/color"
	"testing"
)

// testCanvas returns a white w×h image.
func testCanvas(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(img, img.Bounds(), color.RGBA{255, 255, 255, 255})
	return img
}

func TestDetectTextRegions(t *testing.T) {
	black := color.RGBA{0, 0, 0, 255}

	t.Run("single text bar", func(t *testing.T) {
		img := testCanvas(200, 100)
		fill(img, image.Rect(50, 40, 90, 56), black)

		regions := DetectTextRegions(img)
		if len(regions) != 1 {
			t.Fatalf("got %d regions, want 1: %v", len(regions), regions)
		}
		// The bar's bounding box, padded by 5px on each side.
		if want := image.Rect(45, 35, 95, 61); regions[0] != want {
			t.Errorf("region = %v, want %v", regions[0], want)
		}
	})

	t.Run("padding clamps to the image", func(t *testing.T) {
		img := testCanvas(200, 100)
		fill(img, image.Rect(0, 0, 40, 16), black)

		regions := DetectTextRegions(img)
		if len(regions) != 1 {
			t.Fatalf("got %d regions, want 1: %v", len(regions), regions)
		}
		if want := image.Rect(0, 0, 45, 21); regions[0] != want {
			t.Errorf("region = %v, want %v", regions[0], want)
		}
	})

	t.Run("small boxes are noise", func(t *testing.T) {
		img := testCanvas(200, 100)
		fill(img, image.Rect(20, 20, 30, 30), black) // exactly 10x10

		if regions := DetectTextRegions(img); len(regions) != 0 {
			t.Errorf("10x10 box survived the size filter: %v", regions)
		}
	})

	t.Run("near full-width boxes are backdrops", func(t *testing.T) {
		img := testCanvas(200, 100)
		fill(img, image.Rect(5, 70, 195, 90), black) // 190px wide, >90% of 200

		if regions := DetectTextRegions(img); len(regions) != 0 {
			t.Errorf("full-width box survived the filter: %v", regions)
		}
	})

	t.Run("blank image", func(t *testing.T) {
		if regions := DetectTextRegions(testCanvas(50, 50)); len(regions) != 0 {
			t.Errorf("blank image produced regions: %v", regions)
		}
	})

	t.Run("two separate bars", func(t *testing.T) {
		img := testCanvas(300, 200)
		fill(img, image.Rect(20, 20, 70, 40), black)
		fill(img, image.Rect(150, 120, 210, 140), black)

		regions := DetectTextRegions(img)
		if len(regions) != 2 {
			t.Fatalf("got %d regions, want 2: %v", len(regions), regions)
		}
		// Raster-scan discovery order: the upper bar first.
		if want := image.Rect(15, 15, 75, 45); regions[0] != want {
			t.Errorf("regions[0] = %v, want %v", regions[0], want)
		}
		if want := image.Rect(145, 115, 215, 145); regions[1] != want {
			t.Errorf("regions[1] = %v, want %v", regions[1], want)
		}
	})
}

func TestAdaptiveThreshold(t *testing.T) {
	// A dark pixel in a bright neighborhood is foreground; pixels in a
	// uniform neighborhood are not.
	const w, h = 21, 21
	gray := make([]uint8, w*h)
	for i := range gray {
		gray[i] = 200
	}
	gray[10*w+10] = 0

	mask := adaptiveThreshold(gray, w, h)
	if !mask[10*w+10] {
		t.Error("dark center pixel not foreground")
	}
	if mask[0] {
		t.Error("uniform corner marked foreground")
	}

	// Fully uniform plane: nothing is darker than its own mean.
	for i := range gray {
		gray[i] = 42
	}
	for i, fg := range adaptiveThreshold(gray, w, h) {
		if fg {
			t.Fatalf("uniform plane has foreground at index %d", i)
		}
	}
}
