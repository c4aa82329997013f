package contrast

import (
	"image"
	"math"
)

// Text-region detection parameters.
const (
	thresholdWindow = 11 // adaptive threshold neighborhood edge (odd)
	thresholdC      = 2  // offset below the local mean
	regionPad       = 5  // padding applied around detected boxes

	minRegionSize      = 10  // boxes this narrow or short are noise
	maxRegionWidthFrac = 0.9 // boxes wider than this image fraction are backdrops
)

// DetectTextRegions locates likely text areas in a screenshot. The
// image is grayscaled and binarized with an inverted local-mean
// adaptive threshold (pixels darker than their neighborhood become
// foreground); the bounding boxes of the 8-connected foreground
// components are padded by regionPad, clamped to the image, and
// filtered: boxes at most minRegionSize wide or tall, or at least 90%
// of the image width, are dropped.
func DetectTextRegions(img image.Image) []image.Rectangle {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	gray := grayscale(img)
	mask := adaptiveThreshold(gray, w, h)
	boxes := componentBoxes(mask, w, h)

	var regions []image.Rectangle
	for _, box := range boxes {
		bw, bh := box.Dx(), box.Dy()
		if bw <= minRegionSize || bh <= minRegionSize {
			continue
		}
		if float64(bw) >= float64(w)*maxRegionWidthFrac {
			continue
		}
		padded := image.Rect(
			box.Min.X-regionPad, box.Min.Y-regionPad,
			box.Max.X+regionPad, box.Max.Y+regionPad,
		).Intersect(image.Rect(0, 0, w, h))
		regions = append(regions, padded.Add(b.Min))
	}
	return regions
}

// grayscale flattens img into a row-major luma plane using the
// standard 0.299/0.587/0.114 weights.
func grayscale(img image.Image) []uint8 {
	b := img.Bounds()
	gray := make([]uint8, b.Dx()*b.Dy())
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			luma := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)
			gray[i] = uint8(math.Round(luma))
			i++
		}
	}
	return gray
}

// adaptiveThreshold binarizes a row-major w×h luma plane against the
// mean of a thresholdWindow square around each pixel (clamped at the
// edges), inverted: a pixel is foreground when strictly darker than
// its local mean minus thresholdC. A summed-area table keeps window
// sums O(1).
func adaptiveThreshold(gray []uint8, w, h int) []bool {
	integral := make([]int64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(gray[y*w+x])
			integral[(y+1)*(w+1)+(x+1)] = integral[y*(w+1)+(x+1)] + rowSum
		}
	}

	mask := make([]bool, w*h)
	r := thresholdWindow / 2
	for y := 0; y < h; y++ {
		y0, y1 := max(0, y-r), min(h-1, y+r)
		for x := 0; x < w; x++ {
			x0, x1 := max(0, x-r), min(w-1, x+r)
			sum := integral[(y1+1)*(w+1)+(x1+1)] -
				integral[y0*(w+1)+(x1+1)] -
				integral[(y1+1)*(w+1)+x0] +
				integral[y0*(w+1)+x0]
			area := (y1 - y0 + 1) * (x1 - x0 + 1)
			mean := float64(sum) / float64(area)
			mask[y*w+x] = float64(gray[y*w+x]) < mean-thresholdC
		}
	}
	return mask
}

// componentBoxes returns the bounding box of every 8-connected
// foreground component in a row-major w×h mask, in raster-scan
// discovery order.
func componentBoxes(mask []bool, w, h int) []image.Rectangle {
	visited := make([]bool, len(mask))
	var boxes []image.Rectangle
	var queue []int

	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}
		visited[start] = true
		queue = append(queue[:0], start)
		minX, minY := start%w, start/w
		maxX, maxY := minX, minY

		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			x, y := idx%w, idx/w
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					n := ny*w + nx
					if mask[n] && !visited[n] {
						visited[n] = true
						queue = append(queue, n)
					}
				}
			}
		}
		boxes = append(boxes, image.Rect(minX, minY, maxX+1, maxY+1))
	}
	return boxes
}
