package quantize

import (
	"log/slog"

	"github.com/mmuldo/colormatch/distance"
)

// Options configures a Quantizer.
type Options struct {
	// Measure maps centroids and dithered pixels onto the palette. Nil
	// means ΔE2000.
	Measure *distance.Measure
	// SampleCap bounds the number of pixels clustered by k-means.
	SampleCap int
	// Iterations is the number of Lloyd iterations.
	Iterations int
	// Dither enables Floyd–Steinberg error diffusion.
	Dither bool
	// Seed makes sampling and k-means++ initialization reproducible.
	Seed int64
	// Logger receives progress and convergence reports. Nil discards.
	Logger *slog.Logger
}

// DefaultOptions are the defaults used by New.
var DefaultOptions = Options{
	SampleCap:  10000,
	Iterations: 5,
	Seed:       1,
}

// Option overrides a default.
type Option func(o *Options)

// WithMeasure sets the palette distance.
func WithMeasure(ms *distance.Measure) Option {
	return func(o *Options) { o.Measure = ms }
}

// WithSampleCap sets the k-means sample size.
func WithSampleCap(n int) Option {
	return func(o *Options) { o.SampleCap = n }
}

// WithIterations sets the Lloyd iteration count.
func WithIterations(n int) Option {
	return func(o *Options) { o.Iterations = n }
}

// WithDither toggles dithering.
func WithDither(on bool) Option {
	return func(o *Options) { o.Dither = on }
}

// WithSeed sets the random seed.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}
