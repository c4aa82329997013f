package contrast

import (
	"encoding/json"
	"math"
	"testing"
)

func TestLuminance(t *testing.T) {
	tests := []struct {
		name string
		c    RGB
		want float64
	}{
		{name: "black", c: RGB{0, 0, 0}, want: 0},
		{name: "white", c: RGB{255, 255, 255}, want: 1},
		// Pure channels linearize to 1.0, so the luminance is exactly
		// the channel weight.
		{name: "red", c: RGB{R: 255}, want: 0.2126},
		{name: "green", c: RGB{G: 255}, want: 0.7152},
		{name: "blue", c: RGB{B: 255}, want: 0.0722},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Luminance(tt.c)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Luminance(%v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestRatio(t *testing.T) {
	black := RGB{0, 0, 0}
	white := RGB{255, 255, 255}

	if got := Ratio(black, white); math.Abs(got-21) > 1e-9 {
		t.Errorf("Ratio(black, white) = %v, want 21", got)
	}
	if got, rev := Ratio(black, white), Ratio(white, black); got != rev {
		t.Errorf("Ratio not symmetric: %v vs %v", got, rev)
	}
	if got := Ratio(white, white); math.Abs(got-1) > 1e-9 {
		t.Errorf("Ratio(white, white) = %v, want 1", got)
	}

	// Every ratio lies in [1, 21].
	samples := []RGB{{12, 200, 33}, {255, 0, 128}, {90, 90, 90}, {0, 0, 1}}
	for _, a := range samples {
		for _, b := range samples {
			r := Ratio(a, b)
			if r < 1 || r > 21 {
				t.Errorf("Ratio(%v, %v) = %v, outside [1, 21]", a, b, r)
			}
		}
	}
}

func TestHue(t *testing.T) {
	tests := []struct {
		name string
		c    RGB
		want float64
	}{
		{name: "red", c: RGB{R: 255}, want: 0},
		{name: "yellow", c: RGB{R: 255, G: 255}, want: 30},
		{name: "green", c: RGB{G: 255}, want: 60},
		{name: "cyan", c: RGB{G: 255, B: 255}, want: 90},
		{name: "blue", c: RGB{B: 255}, want: 120},
		{name: "magenta", c: RGB{R: 255, B: 255}, want: 150},
		{name: "gray is achromatic", c: RGB{128, 128, 128}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hue(tt.c); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("hue(%v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestRGBString(t *testing.T) {
	c := RGB{R: 238, G: 130, B: 238}
	if got, want := c.String(), "(238, 130, 238)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFormatColors(t *testing.T) {
	colors := []RGB{{0, 96, 0}, {255, 255, 255}}
	if got, want := FormatColors(colors), "[(0, 96, 0), (255, 255, 255)]"; got != want {
		t.Errorf("FormatColors = %q, want %q", got, want)
	}
	if got, want := FormatColors(nil), "[]"; got != want {
		t.Errorf("FormatColors(nil) = %q, want %q", got, want)
	}
}

func TestRGBJSON(t *testing.T) {
	c := RGB{R: 1, G: 2, B: 3}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if got, want := string(data), "[1,2,3]"; got != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}

	var back RGB
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if back != c {
		t.Errorf("round-trip = %v, want %v", back, c)
	}

	for _, bad := range []string{"[1,2]", "[1,2,3,4]", "[256,0,0]", "[-1,0,0]"} {
		var c RGB
		if err := json.Unmarshal([]byte(bad), &c); err == nil {
			t.Errorf("Unmarshal(%s) succeeded, want error", bad)
		}
	}
}
