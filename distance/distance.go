// Package distance measures the difference between two colors.
//
// Every function is symmetric in spirit, returns a non-negative value and
// returns zero for identical inputs. ΔE94 and ΔE CMC weight the difference by
// the first (reference) color, as their definitions require, so swapping the
// arguments can change their result slightly.
//
// Inputs containing NaN or infinite components fail with
// colorspace.ErrInvalidColorValue.
package distance

import (
	"math"

	"github.com/mmuldo/colormatch/colorspace"
)

// Euclidean returns the straight-line distance between two triples in any
// space.
func Euclidean(a, b [3]float64) (float64, error) {
	if err := check("euclidean", a, b); err != nil {
		return 0, err
	}
	return euclidean(a, b), nil
}

func euclidean(a, b [3]float64) float64 {
	d0, d1, d2 := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return math.Sqrt(d0*d0 + d1*d1 + d2*d2)
}

// HueDiff returns the smallest angle between two hues in degrees, in [0, 180].
func HueDiff(h1, h2 float64) float64 {
	d := math.Mod(math.Abs(h1-h2), 360)
	return math.Min(d, 360-d)
}

// HSLEuclidean is the Euclidean distance over (H, S, L) with the hue
// difference taken around the circle, so 359° and 1° are 2° apart.
func HSLEuclidean(a, b colorspace.HSL) (float64, error) {
	return hueEuclidean("hsl euclidean", a.Vec(), b.Vec(), 0)
}

// LChEuclidean is the Euclidean distance over (L, C, h) with circular hue.
func LChEuclidean(a, b colorspace.LCh) (float64, error) {
	return hueEuclidean("lch euclidean", a.Vec(), b.Vec(), 2)
}

func hueEuclidean(op string, a, b [3]float64, hue int) (float64, error) {
	if err := check(op, a, b); err != nil {
		return 0, err
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		if i == hue {
			d = HueDiff(a[i], b[i])
		}
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

func check(op string, a, b [3]float64) error {
	return colorspace.CheckFinite(op, a[0], a[1], a[2], b[0], b[1], b[2])
}
