package quantize

import (
	"math"
	"math/rand"
	"slices"

	"github.com/mmuldo/colormatch/image"
)

type vec3 = [3]float64

// sample draws up to limit pixels uniformly, or returns every pixel when the
// image is smaller.
func sample(buf *image.Buffer, limit int, rng *rand.Rand) []vec3 {
	n := buf.Len()
	if n <= limit {
		out := make([]vec3, n)
		for i := range out {
			c, _ := buf.Pixel(i)
			out[i] = c.Vec()
		}
		return out
	}
	out := make([]vec3, limit)
	for i := range out {
		c, _ := buf.Pixel(rng.Intn(n))
		out[i] = c.Vec()
	}
	return out
}

func squaredL2(a, b vec3) float64 {
	dr, dg, db := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return dr*dr + dg*dg + db*db
}

// initCentroids picks k centroids with k-means++: the first uniformly, each
// next one with probability proportional to its squared distance from the
// nearest centroid already chosen. Once every sample coincides with a
// centroid, the rest are taken in order from fallback, skipping colors
// already chosen, so a sample that missed rare colors still yields k
// distinct centroids when the image has them.
func initCentroids(samples []vec3, k int, rng *rand.Rand, fallback []vec3) []vec3 {
	centroids := make([]vec3, k)
	if len(samples) == 0 {
		return centroids
	}
	centroids[0] = samples[rng.Intn(len(samples))]

	minDistSq := make([]float64, len(samples))
	var sum float64
	for i, s := range samples {
		minDistSq[i] = squaredL2(s, centroids[0])
		sum += minDistSq[i]
	}

	next := 0
	for c := 1; c < k; c++ {
		if sum == 0 {
			centroids[c] = unchosen(fallback, centroids[:c], &next, samples, rng)
			continue
		}

		target := rng.Float64() * sum
		var cumsum float64
		chosen := -1
		for i, d := range minDistSq {
			if d == 0 {
				continue
			}
			cumsum += d
			chosen = i
			if cumsum >= target {
				break
			}
		}
		centroids[c] = samples[chosen]

		sum = 0
		for i, s := range samples {
			if d := squaredL2(s, centroids[c]); d < minDistSq[i] {
				minDistSq[i] = d
			}
			sum += minDistSq[i]
		}
	}
	return centroids
}

// unchosen returns the first color of fallback from *next on that is not
// among chosen, or a random sample when fallback is exhausted.
func unchosen(fallback, chosen []vec3, next *int, samples []vec3, rng *rand.Rand) vec3 {
	for *next < len(fallback) {
		v := fallback[*next]
		*next++
		if !slices.Contains(chosen, v) {
			return v
		}
	}
	return samples[rng.Intn(len(samples))]
}

func nearestCentroid(v vec3, centroids []vec3) int {
	best, bestDist := 0, math.Inf(1)
	for j, c := range centroids {
		if d := squaredL2(v, c); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}

// lloyd refines centroids in place and reports whether an assignment step
// left every sample where it was. Empty clusters keep their centroid.
func lloyd(samples []vec3, centroids []vec3, iterations int) bool {
	k := len(centroids)
	assignments := make([]int, len(samples))
	for i := range assignments {
		assignments[i] = -1
	}
	sums := make([]vec3, k)
	counts := make([]int, k)

	for range iterations {
		changed := false
		for i, s := range samples {
			if c := nearestCentroid(s, centroids); c != assignments[i] {
				assignments[i] = c
				changed = true
			}
		}
		if !changed {
			return true
		}

		clear(sums)
		clear(counts)
		for i, s := range samples {
			c := assignments[i]
			sums[c][0] += s[0]
			sums[c][1] += s[1]
			sums[c][2] += s[2]
			counts[c]++
		}
		for j := range centroids {
			if counts[j] == 0 {
				continue
			}
			n := float64(counts[j])
			centroids[j] = vec3{sums[j][0] / n, sums[j][1] / n, sums[j][2] / n}
		}
	}
	return false
}
