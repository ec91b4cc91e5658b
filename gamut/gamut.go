// Package gamut tests whether L*a*b* colors fit the sRGB gamut and maps
// those that do not onto its boundary by reducing chroma.
package gamut

import (
	"errors"
	"fmt"

	"github.com/mmuldo/colormatch/colorspace"
)

// ConvergenceError reports that Clamp stopped at its iteration cap. The
// color returned alongside it is in gamut and usable. It matches
// colorspace.ErrConvergenceLimitReached.
type ConvergenceError struct {
	Iterations int
	Bracket    float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("gamut clamp: %d iterations left a chroma bracket of %g", e.Iterations, e.Bracket)
}

func (e *ConvergenceError) Is(target error) bool { return target == colorspace.ErrConvergenceLimitReached }

// Options configures a Mapper.
type Options struct {
	// Tolerance is how far, on the 0-255 scale, a channel may overshoot
	// before the color counts as out of gamut.
	Tolerance float64
	// MaxIterations caps the chroma binary search.
	MaxIterations int
	// ChromaTolerance is the bracket width at which the search stops.
	ChromaTolerance float64
}

// DefaultOptions are the defaults used by New.
var DefaultOptions = Options{
	Tolerance:       0.01,
	MaxIterations:   20,
	ChromaTolerance: 1e-3,
}

// Option overrides a default.
type Option func(o *Options)

// WithTolerance sets the overshoot tolerance.
func WithTolerance(eps float64) Option {
	return func(o *Options) { o.Tolerance = eps }
}

// WithMaxIterations sets the search iteration cap.
func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

// WithChromaTolerance sets the bracket width that ends the search.
func WithChromaTolerance(c float64) Option {
	return func(o *Options) { o.ChromaTolerance = c }
}

// Mapper is immutable and safe for concurrent use.
type Mapper struct {
	opts Options
}

// New returns a Mapper.
func New(optFns ...Option) (*Mapper, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Tolerance < 0 || !colorspace.Finite(opts.Tolerance) {
		return nil, fmt.Errorf("gamut tolerance must be a non-negative number, got %v", opts.Tolerance)
	}
	if opts.MaxIterations < 1 {
		return nil, fmt.Errorf("gamut max iterations must be positive, got %d", opts.MaxIterations)
	}
	if !(opts.ChromaTolerance > 0) {
		return nil, fmt.Errorf("gamut chroma tolerance must be positive, got %v", opts.ChromaTolerance)
	}
	return &Mapper{opts: opts}, nil
}

// Default is a Mapper with DefaultOptions.
var Default = &Mapper{opts: DefaultOptions}

// Options returns the configuration.
func (m *Mapper) Options() Options { return m.opts }

// InGamut reports whether lab converts to sRGB with every channel within
// [-Tolerance, 255+Tolerance].
func (m *Mapper) InGamut(lab colorspace.Lab) (bool, error) {
	rgb, err := colorspace.LabToRGBf(lab)
	if err != nil {
		return false, err
	}
	lo, hi := -m.opts.Tolerance, 255+m.opts.Tolerance
	for _, v := range rgb.Vec() {
		if v < lo || v > hi {
			return false, nil
		}
	}
	return true, nil
}

// Clamp returns lab unchanged when it is in gamut. Otherwise it holds L and
// h fixed and binary-searches the largest chroma in [0, C] that fits.
//
// When the iteration cap is reached first, the best in-gamut color found is
// returned together with a *ConvergenceError.
func (m *Mapper) Clamp(lab colorspace.Lab) (colorspace.Lab, error) {
	ok, err := m.InGamut(lab)
	if err != nil {
		return colorspace.Lab{}, err
	}
	if ok {
		return lab, nil
	}

	lch, err := colorspace.LabToLCh(lab)
	if err != nil {
		return colorspace.Lab{}, err
	}
	lo, hi := 0.0, lch.C
	best, err := colorspace.LChToLab(colorspace.LCh{L: lch.L, C: 0, H: lch.H})
	if err != nil {
		return colorspace.Lab{}, err
	}

	i := 0
	for ; i < m.opts.MaxIterations && hi-lo > m.opts.ChromaTolerance; i++ {
		mid := (lo + hi) / 2
		trial, err := colorspace.LChToLab(colorspace.LCh{L: lch.L, C: mid, H: lch.H})
		if err != nil {
			return colorspace.Lab{}, err
		}
		in, err := m.InGamut(trial)
		if err != nil {
			return colorspace.Lab{}, err
		}
		if in {
			lo, best = mid, trial
		} else {
			hi = mid
		}
	}
	if hi-lo > m.opts.ChromaTolerance {
		return best, &ConvergenceError{Iterations: i, Bracket: hi - lo}
	}
	return best, nil
}

// ToRGB clamps lab into gamut and converts it to 8-bit sRGB. A
// ConvergenceLimitReached condition is ignored since the clamped color is
// always representable.
func (m *Mapper) ToRGB(lab colorspace.Lab) (colorspace.RGB, error) {
	clamped, err := m.Clamp(lab)
	if err != nil && !errors.Is(err, colorspace.ErrConvergenceLimitReached) {
		return colorspace.RGB{}, err
	}
	rgb, err := colorspace.LabToRGBf(clamped)
	if err != nil {
		return colorspace.RGB{}, err
	}
	return rgb.Round(), nil
}
