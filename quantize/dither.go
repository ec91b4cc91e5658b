package quantize

import (
	"math"

	"github.com/mmuldo/colormatch/colorspace"
	"github.com/mmuldo/colormatch/image"
)

// diffuseFloydSteinberg spreads err over the unprocessed neighbors of
// column ox. Rows are padded by one column on each side.
func diffuseFloydSteinberg(rows *[2][]float64, ox int, err [3]float64) {
	for ch := 0; ch < 3; ch++ {
		e := err[ch]
		rows[0][(ox+2)*3+ch] += e * (7.0 / 16)
		rows[1][ox*3+ch] += e * (3.0 / 16)
		rows[1][(ox+1)*3+ch] += e * (5.0 / 16)
		rows[1][(ox+2)*3+ch] += e * (1.0 / 16)
	}
}

// dither quantizes out in place in strict raster order.
func (q *Quantizer) dither(out *image.Buffer) error {
	memo := make(map[colorspace.RGB]colorspace.RGB)
	var rows [2][]float64
	for i := range rows {
		rows[i] = make([]float64, (out.Width+2)*3)
	}

	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			c, _ := out.At(x, y)
			var adj [3]float64
			for ch, v := range c.Vec() {
				adj[ch] = math.Max(0, math.Min(255, v+rows[0][(x+1)*3+ch]))
			}

			chosen, err := q.nearest(colorspace.RGBf{R: adj[0], G: adj[1], B: adj[2]}.Round(), memo)
			if err != nil {
				return err
			}
			out.Set(x, y, chosen)

			cv := chosen.Vec()
			diffuseFloydSteinberg(&rows, x, [3]float64{adj[0] - cv[0], adj[1] - cv[1], adj[2] - cv[2]})
		}
		rows[0], rows[1] = rows[1], rows[0]
		clear(rows[1])
	}
	return nil
}

// nearest finds the palette color closest to c under the configured
// measure. Ties go to the earlier palette entry.
func (q *Quantizer) nearest(c colorspace.RGB, memo map[colorspace.RGB]colorspace.RGB) (colorspace.RGB, error) {
	if hit, ok := memo[c]; ok {
		return hit, nil
	}
	lab := colorspace.RGBToLab(c)
	best, bestDist := 0, math.Inf(1)
	for j, p := range q.palette {
		d, err := q.opts.Measure.Lab(lab, p.Lab)
		if err != nil {
			return colorspace.RGB{}, err
		}
		if d < bestDist {
			best, bestDist = j, d
		}
	}
	memo[c] = q.palette[best].RGB
	return memo[c], nil
}
