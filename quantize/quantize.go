// Package quantize maps an image onto a fixed palette.
//
// Images with no more unique colors than the palette are paired with it by
// lightness rank. Larger images are clustered with sampled k-means++ and the
// clusters are assigned to distinct palette entries. Either path can be
// followed by Floyd–Steinberg dithering. Alpha is never modified.
package quantize

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mmuldo/colormatch/colorspace"
	"github.com/mmuldo/colormatch/distance"
	"github.com/mmuldo/colormatch/image"
	"github.com/mmuldo/colormatch/palette"
)

// ErrEmptyPalette is returned by New when the palette has no entries.
var ErrEmptyPalette = errors.New("quantize: empty palette")

// Path is the strategy chosen for an image.
type Path int

const (
	PathDirect Path = iota
	PathCluster
)

func (p Path) String() string {
	switch p {
	case PathDirect:
		return "direct"
	case PathCluster:
		return "cluster"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// Result is the outcome of Quantize.
type Result struct {
	// Buffer has the input's dimensions and alpha. Every color is a
	// palette color.
	Buffer *image.Buffer
	Path   Path
	// UniqueColors counts the distinct colors of the input.
	UniqueColors int
	// Mapping sends every input color to its palette color before
	// dithering.
	Mapping map[colorspace.RGB]colorspace.RGB
	// Converged is false when k-means stopped at its iteration cap while
	// assignments were still changing.
	Converged bool
}

// Quantizer is immutable and safe for concurrent use.
type Quantizer struct {
	palette []palette.ColorRecord
	opts    Options
}

// New validates opts against a non-empty palette.
func New(pal []palette.ColorRecord, optFns ...Option) (*Quantizer, error) {
	if len(pal) == 0 {
		return nil, ErrEmptyPalette
	}
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.SampleCap < 1 {
		return nil, fmt.Errorf("quantize: sample cap must be positive, got %d", opts.SampleCap)
	}
	if opts.Iterations < 1 {
		return nil, fmt.Errorf("quantize: iterations must be positive, got %d", opts.Iterations)
	}
	if opts.Measure == nil {
		opts.Measure = distance.MustNew(distance.MetricDE2000)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Quantizer{
		palette: append([]palette.ColorRecord(nil), pal...),
		opts:    opts,
	}, nil
}

// Options returns the configuration.
func (q *Quantizer) Options() Options { return q.opts }

// Quantize returns a copy of buf whose colors all come from the palette.
func (q *Quantizer) Quantize(buf *image.Buffer) (*Result, error) {
	logger := q.opts.Logger
	ranked := image.RankColors(image.UniqueColors(buf))
	res := &Result{
		UniqueColors: len(ranked),
		Mapping:      make(map[colorspace.RGB]colorspace.RGB, len(ranked)),
		Converged:    true,
	}

	if len(ranked) <= len(q.palette) {
		res.Path = PathDirect
		q.direct(ranked, res.Mapping)
	} else {
		res.Path = PathCluster
		converged, err := q.cluster(buf, ranked, res.Mapping)
		if err != nil {
			return nil, err
		}
		res.Converged = converged
	}
	logger.Debug("quantize path selected",
		"path", res.Path,
		"unique_colors", res.UniqueColors,
		"palette_size", len(q.palette),
		"pixels", buf.Len(),
	)

	out := buf.Clone()
	if q.opts.Dither {
		if err := q.dither(out); err != nil {
			return nil, err
		}
	} else {
		for i := 0; i < out.Len(); i++ {
			c, _ := out.Pixel(i)
			out.SetPixel(i, res.Mapping[c])
		}
	}
	res.Buffer = out
	return res, nil
}

func (q *Quantizer) direct(ranked image.ColorCountList, mapping map[colorspace.RGB]colorspace.RGB) {
	labs := make([]colorspace.Lab, len(ranked))
	for i, cc := range ranked {
		labs[i] = colorspace.RGBToLab(cc.Color)
	}
	for i, j := range palette.AssignByLightness(labs, q.palette) {
		mapping[ranked[i].Color] = q.palette[j].RGB
	}
}

func (q *Quantizer) cluster(buf *image.Buffer, ranked image.ColorCountList, mapping map[colorspace.RGB]colorspace.RGB) (bool, error) {
	rng := rand.New(rand.NewSource(q.opts.Seed))
	k := len(q.palette)

	samples := sample(buf, q.opts.SampleCap, rng)
	fallback := make([]vec3, len(ranked))
	for i, cc := range ranked {
		fallback[i] = cc.Color.Vec()
	}
	centroids := initCentroids(samples, k, rng, fallback)
	converged := lloyd(samples, centroids, q.opts.Iterations)
	if !converged {
		q.opts.Logger.Warn("k-means stopped before convergence",
			"err", colorspace.ErrConvergenceLimitReached,
			"iterations", q.opts.Iterations,
			"samples", len(samples),
		)
	}

	labs := make([]colorspace.Lab, k)
	for i, c := range centroids {
		lab, err := colorspace.RGBfToLab(colorspace.RGBf{R: c[0], G: c[1], B: c[2]})
		if err != nil {
			return false, fmt.Errorf("quantize: centroid %d: %w", i, err)
		}
		labs[i] = lab
	}
	assigned, err := palette.AssignDistinct(labs, q.palette, q.opts.Measure)
	if err != nil {
		return false, fmt.Errorf("quantize: assign centroids: %w", err)
	}

	// every pixel of a color lands in the same cluster, so assigning each
	// unique color once covers the whole image
	for _, cc := range ranked {
		c := nearestCentroid(cc.Color.Vec(), centroids)
		mapping[cc.Color] = q.palette[assigned[c]].RGB
	}
	return converged, nil
}
