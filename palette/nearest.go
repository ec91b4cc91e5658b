package palette

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mmuldo/colormatch/colorspace"
	"github.com/mmuldo/colormatch/distance"
)

// Space is the color space a query target is expressed in.
type Space int

const (
	SpaceLab Space = iota
	SpaceRGB
	SpaceHSL
	SpaceLCh
)

func (s Space) String() string {
	switch s {
	case SpaceLab:
		return "lab"
	case SpaceRGB:
		return "rgb"
	case SpaceHSL:
		return "hsl"
	case SpaceLCh:
		return "lch"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// ParseSpace resolves a space name.
func ParseSpace(name string) (Space, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lab":
		return SpaceLab, nil
	case "rgb":
		return SpaceRGB, nil
	case "hsl":
		return SpaceHSL, nil
	case "lch":
		return SpaceLCh, nil
	}
	return 0, fmt.Errorf("unknown color space %q: use rgb, hsl, lab or lch", name)
}

// MaxTopN caps the number of ranked results a query may ask for.
const MaxTopN = 50

// Query describes a nearest-neighbor search.
type Query struct {
	// Target is expressed in Space.
	Target [3]float64
	Space  Space
	// Measure compares Lab colors; it is ignored for the other spaces,
	// which use plain or hue-circular Euclidean distance. Nil means ΔE2000.
	Measure *distance.Measure
	// TopN is clamped to [1, MaxTopN].
	TopN int
}

// Match is a ranked result.
type Match struct {
	Record   ColorRecord
	Distance float64
}

var defaultMeasure = distance.MustNew(distance.MetricDE2000)

func clampTopN(n int) int {
	return max(1, min(n, MaxTopN))
}

// Nearest scans every record and returns up to q.TopN matches, closest
// first. Equal distances rank user records ahead of core records and then
// earlier records ahead of later ones.
//
// A record whose comparison fails with colorspace.ErrInvalidColorValue is
// skipped. A malformed target fails the whole query.
func (ix *Index) Nearest(q Query) ([]Match, error) {
	t := q.Target
	if err := colorspace.CheckFinite("nearest", t[0], t[1], t[2]); err != nil {
		return nil, err
	}
	ms := q.Measure
	if ms == nil {
		ms = defaultMeasure
	}

	var dist func(r ColorRecord) (float64, error)
	switch q.Space {
	case SpaceLab:
		target := colorspace.Lab{L: t[0], A: t[1], B: t[2]}
		dist = func(r ColorRecord) (float64, error) { return ms.Lab(target, r.Lab) }
	case SpaceRGB:
		dist = func(r ColorRecord) (float64, error) { return distance.Euclidean(t, r.RGB.Vec()) }
	case SpaceHSL:
		target := colorspace.HSL{H: t[0], S: t[1], L: t[2]}
		dist = func(r ColorRecord) (float64, error) { return distance.HSLEuclidean(target, r.HSL) }
	case SpaceLCh:
		target := colorspace.LCh{L: t[0], C: t[1], H: t[2]}
		dist = func(r ColorRecord) (float64, error) { return distance.LChEuclidean(target, r.LCh) }
	default:
		return nil, fmt.Errorf("nearest: unsupported space %v", q.Space)
	}

	top := newRanking(clampTopN(q.TopN))
	skipped := 0
	for i, r := range ix.records {
		d, err := dist(r)
		if errors.Is(err, colorspace.ErrInvalidColorValue) {
			skipped++
			continue
		}
		if err != nil {
			return nil, err
		}
		top.offer(ranked{pos: i, source: r.Source, dist: d})
	}
	if top.len() == 0 {
		return nil, &NoMatchFoundError{Skipped: skipped}
	}

	out := make([]Match, 0, top.len())
	for _, c := range top.items {
		out = append(out, Match{Record: ix.records[c.pos], Distance: c.dist})
	}
	return out, nil
}

// NearestRGB is a convenience for a single ΔE2000 match of an RGB color.
func (ix *Index) NearestRGB(rgb colorspace.RGB) (Match, error) {
	lab := colorspace.RGBToLab(rgb)
	m, err := ix.Nearest(Query{Target: lab.Vec(), Space: SpaceLab, TopN: 1})
	if err != nil {
		return Match{}, err
	}
	return m[0], nil
}

type ranked struct {
	pos    int
	source Source
	dist   float64
}

// before reports whether a ranks ahead of b.
func (a ranked) before(b ranked) bool {
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	if a.source != b.source {
		return a.source == SourceUser
	}
	return a.pos < b.pos
}

// ranking keeps the best n candidates in order.
type ranking struct {
	n     int
	items []ranked
}

func newRanking(n int) *ranking {
	return &ranking{n: n, items: make([]ranked, 0, n)}
}

func (r *ranking) len() int { return len(r.items) }

func (r *ranking) offer(c ranked) {
	if len(r.items) == r.n && !c.before(r.items[len(r.items)-1]) {
		return
	}
	i := len(r.items)
	for i > 0 && c.before(r.items[i-1]) {
		i--
	}
	if len(r.items) < r.n {
		r.items = append(r.items, ranked{})
	}
	copy(r.items[i+1:], r.items[i:len(r.items)-1])
	r.items[i] = c
}
