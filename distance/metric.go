package distance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mmuldo/colormatch/colorspace"
)

// Metric selects the formula used to compare two L*a*b* colors.
type Metric int

const (
	MetricDE2000 Metric = iota
	MetricDE94
	MetricDE76
	MetricCMC
	MetricEuclidean
)

func (m Metric) String() string {
	switch m {
	case MetricDE2000:
		return "de2000"
	case MetricDE94:
		return "de94"
	case MetricDE76:
		return "de76"
	case MetricCMC:
		return "cmc"
	case MetricEuclidean:
		return "euclidean"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

func (m Metric) valid() bool {
	return m >= MetricDE2000 && m <= MetricEuclidean
}

// ErrUnknownMetric is returned for metric names and values outside the
// supported set.
var ErrUnknownMetric = errors.New("unknown metric")

var metricNames = map[string]Metric{
	"de2000":    MetricDE2000,
	"ciede2000": MetricDE2000,
	"de94":      MetricDE94,
	"cie94":     MetricDE94,
	"de76":      MetricDE76,
	"cie76":     MetricDE76,
	"cmc":       MetricCMC,
	"decmc":     MetricCMC,
	"cmc21":     MetricCMC,
	"cmc11":     MetricCMC,
	"euclidean": MetricEuclidean,
}

// ParseMetric resolves a metric name. The shorthands "cmc21" and "cmc11"
// resolve to MetricCMC; use CMCRatioFor to recover the implied ratio.
func ParseMetric(name string) (Metric, error) {
	m, ok := metricNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w %q: use euclidean, de76, de94, de2000 or cmc", ErrUnknownMetric, name)
	}
	return m, nil
}

// CMCRatioFor returns the ratio implied by a CMC shorthand name, if any.
func CMCRatioFor(name string) (CMCRatio, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cmc21":
		return CMCAcceptability, true
	case "cmc11":
		return CMCPerceptibility, true
	}
	return CMCRatio{}, false
}

// Options configures a Measure.
type Options struct {
	KLCh KLCh
	DE94 DE94Weights
	CMC  CMCRatio
}

// DefaultOptions holds the reference weights of every formula.
var DefaultOptions = Options{
	KLCh: KLChDefault,
	DE94: GraphicArts,
	CMC:  CMCAcceptability,
}

// Option overrides one of the default weights.
type Option func(o *Options)

// WithKLCh sets the ΔE2000 parametric factors.
func WithKLCh(k KLCh) Option {
	return func(o *Options) { o.KLCh = k }
}

// WithDE94 sets the ΔE94 weights.
func WithDE94(w DE94Weights) Option {
	return func(o *Options) { o.DE94 = w }
}

// WithCMC sets the CMC l:c ratio.
func WithCMC(r CMCRatio) Option {
	return func(o *Options) { o.CMC = r }
}

// Measure is an immutable, validated metric with its weights. It is safe
// for concurrent use.
type Measure struct {
	metric Metric
	opts   Options
}

// New validates the metric and its weights.
func New(m Metric, optFns ...Option) (*Measure, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMetric, m)
	}
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	positive := func(name string, vs ...float64) error {
		for _, v := range vs {
			if !(v > 0) || !colorspace.Finite(v) {
				return fmt.Errorf("%s weights must be positive and finite, got %v", name, vs)
			}
		}
		return nil
	}
	switch m {
	case MetricDE2000:
		if err := positive("de2000", opts.KLCh.KL, opts.KLCh.KC, opts.KLCh.Kh); err != nil {
			return nil, err
		}
	case MetricDE94:
		w := opts.DE94
		if err := positive("de94", w.KL, w.KC, w.Kh); err != nil {
			return nil, err
		}
		if w.K1 < 0 || w.K2 < 0 {
			return nil, fmt.Errorf("de94 K1/K2 must not be negative, got %v/%v", w.K1, w.K2)
		}
	case MetricCMC:
		if err := positive("cmc", opts.CMC.L, opts.CMC.C); err != nil {
			return nil, err
		}
	}
	return &Measure{metric: m, opts: opts}, nil
}

// MustNew is like New but panics on invalid configuration.
func MustNew(m Metric, optFns ...Option) *Measure {
	ms, err := New(m, optFns...)
	if err != nil {
		panic(err)
	}
	return ms
}

// Metric returns the configured metric.
func (ms *Measure) Metric() Metric { return ms.metric }

// Options returns the configured weights.
func (ms *Measure) Options() Options { return ms.opts }

func (ms *Measure) String() string {
	if ms.metric == MetricCMC {
		return "cmc(" + ms.opts.CMC.String() + ")"
	}
	return ms.metric.String()
}

// Lab returns the distance between a (reference) and b.
func (ms *Measure) Lab(a, b colorspace.Lab) (float64, error) {
	switch ms.metric {
	case MetricDE2000:
		return DeltaE2000(a, b, ms.opts.KLCh)
	case MetricDE94:
		return DeltaE94(a, b, ms.opts.DE94)
	case MetricDE76, MetricEuclidean:
		return DeltaE76(a, b)
	case MetricCMC:
		return DeltaECMC(a, b, ms.opts.CMC)
	}
	panic(fmt.Sprintf("distance: unhandled metric %v", ms.metric))
}
