package contrast

import "math"

// maxClusterRounds caps the Lloyd iterations of [DominantPair].
// Two-color regions converge in one or two rounds; the cap only
// matters for noisy gradients.
const maxClusterRounds = 20

// DominantPair estimates the two dominant colors of a pixel region
// with a deterministic 2-means clustering pass.
//
// The initial centroids are the darkest and brightest pixels by
// relative luminance, assignment breaks ties toward the first
// centroid, and iteration stops on convergence or after
// maxClusterRounds. The mean of the smaller cluster is returned as the
// foreground (text covers fewer pixels than its backdrop), the larger
// as the background. A uniform region returns the same color twice.
func DominantPair(pixels []RGB) (fg, bg RGB) {
	if len(pixels) == 0 {
		return RGB{}, RGB{}
	}

	dark, bright := pixels[0], pixels[0]
	ld, lb := Luminance(dark), Luminance(bright)
	for _, p := range pixels[1:] {
		switch l := Luminance(p); {
		case l < ld:
			dark, ld = p, l
		case l > lb:
			bright, lb = p, l
		}
	}

	centroids := [2][3]float64{colorVec(dark), colorVec(bright)}
	assign := make([]int, len(pixels))
	var counts [2]int
	for round := 0; round < maxClusterRounds; round++ {
		changed := round == 0
		for i, p := range pixels {
			v := colorVec(p)
			k := 0
			if sqDist(v, centroids[1]) < sqDist(v, centroids[0]) {
				k = 1
			}
			if assign[i] != k {
				assign[i] = k
				changed = true
			}
		}
		if !changed {
			break
		}

		var sums [2][3]float64
		counts = [2]int{}
		for i, p := range pixels {
			v := colorVec(p)
			k := assign[i]
			sums[k][0] += v[0]
			sums[k][1] += v[1]
			sums[k][2] += v[2]
			counts[k]++
		}
		for k := range centroids {
			if counts[k] > 0 {
				n := float64(counts[k])
				centroids[k] = [3]float64{sums[k][0] / n, sums[k][1] / n, sums[k][2] / n}
			}
		}
	}

	first, second := vecColor(centroids[0]), vecColor(centroids[1])
	if counts[1] < counts[0] {
		return second, first
	}
	return first, second
}

func colorVec(c RGB) [3]float64 {
	return [3]float64{float64(c.R), float64(c.G), float64(c.B)}
}

func vecColor(v [3]float64) RGB {
	return RGB{R: roundChannel(v[0]), G: roundChannel(v[1]), B: roundChannel(v[2])}
}

func roundChannel(v float64) uint8 {
	return uint8(min(max(math.Round(v), 0), 255))
}

func sqDist(a, b [3]float64) float64 {
	d0 := a[0] - b[0]
	d1 := a[1] - b[1]
	d2 := a[2] - b[2]
	return d0*d0 + d1*d1 + d2*d2
}
