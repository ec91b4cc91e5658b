package palette

import (
	"cmp"
	"math"
	"slices"

	"github.com/mmuldo/colormatch/colorspace"
	"github.com/mmuldo/colormatch/distance"
)

// AssignByLightness pairs each source color with a palette entry by rank of
// L*. When there are no more sources than palette entries the pairing is
// one-to-one and spread evenly across the palette's lightness range; with
// more sources, every palette entry is used at least once.
//
// The result holds a palette index for every source, in source order.
func AssignByLightness(src []colorspace.Lab, pal []ColorRecord) []int {
	u, p := len(src), len(pal)
	if u == 0 || p == 0 {
		return nil
	}
	srcOrder := byLightness(u, func(i int) float64 { return src[i].L })
	palOrder := byLightness(p, func(i int) float64 { return pal[i].Lab.L })

	out := make([]int, u)
	if u == 1 {
		best := 0
		for j := range pal {
			if math.Abs(pal[j].Lab.L-src[0].L) < math.Abs(pal[best].Lab.L-src[0].L) {
				best = j
			}
		}
		out[0] = best
		return out
	}
	for rank, i := range srcOrder {
		var j int
		if u <= p {
			j = int(math.Round(float64(rank) * float64(p-1) / float64(u-1)))
		} else {
			j = rank * p / u
		}
		out[i] = palOrder[j]
	}
	return out
}

// byLightness returns the indices 0..n-1 ordered by ascending l(i).
func byLightness(n int, l func(int) float64) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(l(a), l(b)) })
	return order
}

type pair struct {
	src, pal int
	dist     float64
}

// AssignDistinct maps each source color to a palette entry, taking the
// globally closest unused (source, entry) pair first. No entry is reused
// until every entry has been taken once.
func AssignDistinct(src []colorspace.Lab, pal []ColorRecord, ms *distance.Measure) ([]int, error) {
	if len(src) == 0 || len(pal) == 0 {
		return nil, nil
	}
	if ms == nil {
		ms = defaultMeasure
	}

	pairs := make([]pair, 0, len(src)*len(pal))
	for i, s := range src {
		for j, r := range pal {
			d, err := ms.Lab(s, r.Lab)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, pair{src: i, pal: j, dist: d})
		}
	}
	slices.SortFunc(pairs, func(a, b pair) int {
		if c := cmp.Compare(a.dist, b.dist); c != 0 {
			return c
		}
		if c := cmp.Compare(a.src, b.src); c != 0 {
			return c
		}
		return cmp.Compare(a.pal, b.pal)
	})

	out := make([]int, len(src))
	for i := range out {
		out[i] = -1
	}
	remaining := len(src)
	for remaining > 0 {
		used := make([]bool, len(pal))
		free := len(pal)
		for _, pr := range pairs {
			if free == 0 || remaining == 0 {
				break
			}
			if out[pr.src] >= 0 || used[pr.pal] {
				continue
			}
			out[pr.src] = pr.pal
			used[pr.pal] = true
			free--
			remaining--
		}
	}
	return out, nil
}
