package contrast

import (
	"reflect"
	"testing"
)

// pixelBlock returns n copies of c.
func pixelBlock(c RGB, n int) []RGB {
	pixels := make([]RGB, n)
	for i := range pixels {
		pixels[i] = c
	}
	return pixels
}

func TestDominantPair(t *testing.T) {
	dark := RGB{10, 10, 10}
	light := RGB{240, 240, 240}

	t.Run("smaller cluster is foreground", func(t *testing.T) {
		pixels := append(pixelBlock(dark, 30), pixelBlock(light, 70)...)
		fg, bg := DominantPair(pixels)
		if fg != dark {
			t.Errorf("fg = %v, want %v", fg, dark)
		}
		if bg != light {
			t.Errorf("bg = %v, want %v", bg, light)
		}

		// Majority flipped: the light pixels become the foreground.
		pixels = append(pixelBlock(dark, 70), pixelBlock(light, 30)...)
		fg, bg = DominantPair(pixels)
		if fg != light || bg != dark {
			t.Errorf("flipped majority: fg = %v bg = %v, want %v / %v", fg, bg, light, dark)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		pixels := []RGB{
			{200, 10, 10}, {210, 20, 15}, {190, 5, 12},
			{20, 20, 220}, {25, 30, 210}, {15, 10, 230}, {30, 25, 215},
		}
		fg1, bg1 := DominantPair(pixels)
		fg2, bg2 := DominantPair(pixels)
		if fg1 != fg2 || bg1 != bg2 {
			t.Errorf("two runs disagree: (%v, %v) vs (%v, %v)", fg1, bg1, fg2, bg2)
		}
	})

	t.Run("uniform region", func(t *testing.T) {
		pixels := pixelBlock(RGB{128, 0, 128}, 50)
		fg, bg := DominantPair(pixels)
		if fg != bg {
			t.Errorf("uniform region: fg = %v, bg = %v, want identical", fg, bg)
		}
		if fg != (RGB{128, 0, 128}) {
			t.Errorf("fg = %v, want the uniform color", fg)
		}
	})

	t.Run("two pixels", func(t *testing.T) {
		fg, bg := DominantPair([]RGB{{255, 255, 255}, {0, 0, 0}})
		// Equal-size clusters: the darker seed cluster wins the tie.
		if fg != (RGB{0, 0, 0}) || bg != (RGB{255, 255, 255}) {
			t.Errorf("fg = %v bg = %v, want black / white", fg, bg)
		}
	})

	t.Run("empty", func(t *testing.T) {
		fg, bg := DominantPair(nil)
		if fg != (RGB{}) || bg != (RGB{}) {
			t.Errorf("fg = %v bg = %v, want zero values", fg, bg)
		}
	})

	t.Run("noisy clusters", func(t *testing.T) {
		pixels := []RGB{
			{2, 3, 1}, {8, 4, 6}, {0, 1, 2}, {5, 5, 5},
		}
		pixels = append(pixels, pixelBlock(RGB{250, 250, 250}, 20)...)
		fg, bg := DominantPair(pixels)
		if fg.R > 20 || fg.G > 20 || fg.B > 20 {
			t.Errorf("fg = %v, want near-black mean", fg)
		}
		if bg != (RGB{250, 250, 250}) {
			t.Errorf("bg = %v, want %v", bg, RGB{250, 250, 250})
		}
	})
}

func TestDominantPairStability(t *testing.T) {
	// Shuffling pixel order must not change the result: the seeds are
	// luminance extremes, not positional picks.
	base := append(pixelBlock(RGB{40, 40, 40}, 10), pixelBlock(RGB{220, 220, 220}, 30)...)
	reversed := make([]RGB, len(base))
	for i, p := range base {
		reversed[len(base)-1-i] = p
	}

	fg1, bg1 := DominantPair(base)
	fg2, bg2 := DominantPair(reversed)
	if !reflect.DeepEqual([2]RGB{fg1, bg1}, [2]RGB{fg2, bg2}) {
		t.Errorf("order-dependent result: (%v, %v) vs (%v, %v)", fg1, bg1, fg2, bg2)
	}
}
