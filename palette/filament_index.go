package palette

import (
	"context"
	"errors"
	"slices"

	"github.com/mmuldo/colormatch/colorspace"
	"github.com/mmuldo/colormatch/distance"
)

// Wildcard disables a filter predicate.
const Wildcard = "*"

// Filter narrows a filament search. An empty slice, or one containing
// Wildcard, matches everything.
type Filter struct {
	Makers   []string
	Types    []string
	Finishes []string
	// Color is compared case-insensitively. Empty matches everything.
	Color string
}

func active(values []string) bool {
	return len(values) > 0 && !slices.Contains(values, Wildcard)
}

// FilamentMatch is a ranked filament result.
type FilamentMatch struct {
	Filament FilamentRecord
	Distance float64
}

// FilamentIndex stores filaments and answers filtered nearest queries. It is
// safe for concurrent use.
type FilamentIndex struct {
	records  []FilamentRecord
	byID     map[string]int
	byRGB    map[colorspace.RGB][]int
	synonyms map[string][]string

	overrides []FilamentOverride
}

// FilamentOverride describes a core filament shadowed by a user filament
// with the same ID.
type FilamentOverride struct {
	Core FilamentRecord
	User FilamentRecord
}

// NewFilamentIndex builds a FilamentIndex. synonyms maps a canonical maker
// name to its alternative spellings.
func NewFilamentIndex(core, user []FilamentRecord, synonyms map[string][]string) *FilamentIndex {
	fx := &FilamentIndex{
		records:  make([]FilamentRecord, 0, len(core)+len(user)),
		byID:     make(map[string]int),
		byRGB:    make(map[colorspace.RGB][]int),
		synonyms: synonyms,
	}
	for _, f := range core {
		f.Source = SourceCore
		fx.add(f)
	}
	for _, f := range user {
		f.Source = SourceUser
		fx.add(f)
	}
	return fx
}

func (fx *FilamentIndex) add(f FilamentRecord) {
	i := len(fx.records)
	fx.records = append(fx.records, f)

	if prev, ok := fx.byID[f.ID]; ok {
		p := fx.records[prev]
		if p.Source == SourceUser && f.Source == SourceCore {
			return
		}
		if p.Source == SourceCore && f.Source == SourceUser {
			fx.overrides = append(fx.overrides, FilamentOverride{Core: p, User: f})
		}
	}
	fx.byID[f.ID] = i
	fx.byRGB[f.Primary] = append(fx.byRGB[f.Primary], i)
}

// Len returns the number of filaments, including shadowed ones.
func (fx *FilamentIndex) Len() int { return len(fx.records) }

// ByID returns the filament with the given ID. User filaments win.
func (fx *FilamentIndex) ByID(id string) (FilamentRecord, bool) {
	i, ok := fx.byID[id]
	if !ok {
		return FilamentRecord{}, false
	}
	return fx.records[i], true
}

// ByRGB returns every filament whose primary color is rgb, user filaments
// first.
func (fx *FilamentIndex) ByRGB(rgb colorspace.RGB) []FilamentRecord {
	idx := fx.byRGB[rgb]
	out := make([]FilamentRecord, 0, len(idx))
	for _, src := range []Source{SourceUser, SourceCore} {
		for _, i := range idx {
			if fx.records[i].Source == src {
				out = append(out, fx.records[i])
			}
		}
	}
	return out
}

// Overrides lists the core filaments shadowed by user filaments.
func (fx *FilamentIndex) Overrides() []FilamentOverride {
	return slices.Clone(fx.overrides)
}

// expandMakers adds the synonyms of every maker, and the canonical name and
// sibling synonyms of every maker that is itself a synonym.
func (fx *FilamentIndex) expandMakers(makers []string) map[string]bool {
	out := make(map[string]bool, len(makers))
	for _, m := range makers {
		out[m] = true
		for _, s := range fx.synonyms[m] {
			out[s] = true
		}
		for canonical, syns := range fx.synonyms {
			if slices.Contains(syns, m) {
				out[canonical] = true
				for _, s := range syns {
					out[s] = true
				}
			}
		}
	}
	return out
}

// Filter returns the filaments matching f in insertion order.
func (fx *FilamentIndex) Filter(f Filter) []FilamentRecord {
	var makers map[string]bool
	if active(f.Makers) {
		makers = fx.expandMakers(f.Makers)
	}
	color := ""
	if f.Color != "" {
		color = nameKey(f.Color)
	}

	var out []FilamentRecord
	for _, r := range fx.records {
		if makers != nil && !makers[r.Maker] {
			continue
		}
		if active(f.Types) && !slices.Contains(f.Types, r.Type) {
			continue
		}
		if active(f.Finishes) && !slices.Contains(f.Finishes, r.Finish) {
			continue
		}
		if color != "" && nameKey(r.Color) != color {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Nearest returns up to n filaments matching filter, closest to target
// first. Dual-color filaments are compared using the DualColorMode carried
// by ctx. A nil ms means ΔE2000.
func (fx *FilamentIndex) Nearest(ctx context.Context, target colorspace.RGB, ms *distance.Measure, filter Filter, n int) ([]FilamentMatch, error) {
	if ms == nil {
		ms = defaultMeasure
	}
	mode := DualColorModeFrom(ctx)
	want := colorspace.RGBToLab(target)

	candidates := fx.Filter(filter)
	top := newRanking(clampTopN(n))
	skipped := 0
	for i, f := range candidates {
		lab, err := f.Lab(mode)
		if err == nil {
			var d float64
			d, err = ms.Lab(want, lab)
			if err == nil {
				top.offer(ranked{pos: i, source: f.Source, dist: d})
				continue
			}
		}
		if errors.Is(err, colorspace.ErrInvalidColorValue) {
			skipped++
			continue
		}
		return nil, err
	}
	if top.len() == 0 {
		return nil, &NoMatchFoundError{
			Makers:   activeValues(filter.Makers),
			Types:    activeValues(filter.Types),
			Finishes: activeValues(filter.Finishes),
			Skipped:  skipped,
		}
	}

	out := make([]FilamentMatch, 0, top.len())
	for _, c := range top.items {
		out = append(out, FilamentMatch{Filament: candidates[c.pos], Distance: c.dist})
	}
	return out, nil
}

func activeValues(values []string) []string {
	if !active(values) {
		return nil
	}
	return values
}

// Makers lists the distinct makers in insertion order.
func (fx *FilamentIndex) Makers() []string {
	return fx.distinct(func(f FilamentRecord) string { return f.Maker })
}

// Types lists the distinct filament types in insertion order.
func (fx *FilamentIndex) Types() []string {
	return fx.distinct(func(f FilamentRecord) string { return f.Type })
}

// Finishes lists the distinct non-empty finishes in insertion order.
func (fx *FilamentIndex) Finishes() []string {
	return fx.distinct(func(f FilamentRecord) string { return f.Finish })
}

func (fx *FilamentIndex) distinct(field func(FilamentRecord) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range fx.records {
		v := field(f)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
