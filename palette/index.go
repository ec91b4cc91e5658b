package palette

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/mmuldo/colormatch/colorspace"
)

// Index is a read-only store of color records with exact and nearest
// lookups. It is safe for concurrent use.
type Index struct {
	records []ColorRecord

	byName map[string]int
	byRGB  map[colorspace.RGB]int
	byHSL  map[string]int
	byLab  map[string]int
	byLCh  map[string]int

	overrides []Override
}

// Override describes a core record shadowed by a user record.
type Override struct {
	// Key is "name" or "rgb".
	Key  string
	Core ColorRecord
	User ColorRecord
}

// New builds an Index. Core records are inserted before user records; the
// Source of every record is set from the slice it came from.
func New(core, user []ColorRecord) *Index {
	ix := &Index{
		records: make([]ColorRecord, 0, len(core)+len(user)),
		byName:  make(map[string]int),
		byRGB:   make(map[colorspace.RGB]int),
		byHSL:   make(map[string]int),
		byLab:   make(map[string]int),
		byLCh:   make(map[string]int),
	}
	for _, r := range core {
		r.Source = SourceCore
		ix.add(r)
	}
	for _, r := range user {
		r.Source = SourceUser
		ix.add(r)
	}
	return ix
}

func (ix *Index) add(r ColorRecord) {
	i := len(ix.records)
	ix.records = append(ix.records, r)

	if prev, ok := ix.byName[nameKey(r.Name)]; ok && ix.records[prev].Source == SourceCore && r.Source == SourceUser {
		ix.overrides = append(ix.overrides, Override{Key: "name", Core: ix.records[prev], User: r})
	}
	if prev, ok := ix.byRGB[r.RGB]; ok && ix.records[prev].Source == SourceCore && r.Source == SourceUser {
		ix.overrides = append(ix.overrides, Override{Key: "rgb", Core: ix.records[prev], User: r})
	}

	put(ix.byName, nameKey(r.Name), i, ix.records)
	put(ix.byRGB, r.RGB, i, ix.records)
	put(ix.byHSL, roundedKey(r.HSL.Vec(), keyDigits), i, ix.records)
	put(ix.byLab, roundedKey(r.Lab.Vec(), keyDigits), i, ix.records)
	put(ix.byLCh, roundedKey(r.LCh.Vec(), keyDigits), i, ix.records)
}

// put stores i under k unless a user record already holds k and the new
// record is core.
func put[K comparable](m map[K]int, k K, i int, records []ColorRecord) {
	if prev, ok := m[k]; ok && records[prev].Source == SourceUser && records[i].Source == SourceCore {
		return
	}
	m[k] = i
}

func nameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// keyDigits is the precision of the HSL, Lab and LCh lookup keys.
const keyDigits = 2

func roundedKey(v [3]float64, digits int) string {
	scale := math.Pow(10, float64(digits))
	parts := make([]string, len(v))
	for i, x := range v {
		r := math.Round(x*scale) / scale
		if r == 0 {
			r = 0 // drop negative zero
		}
		parts[i] = strconv.FormatFloat(r, 'f', digits, 64)
	}
	return strings.Join(parts, ",")
}

// Len returns the number of records, including shadowed ones.
func (ix *Index) Len() int { return len(ix.records) }

// Records returns a copy of every record in insertion order.
func (ix *Index) Records() []ColorRecord {
	out := make([]ColorRecord, len(ix.records))
	copy(out, ix.records)
	return out
}

// ByName finds a record by case-insensitive name.
func (ix *Index) ByName(name string) (ColorRecord, bool) {
	return ix.lookup(ix.byName, nameKey(name))
}

// ByRGB finds a record by exact RGB.
func (ix *Index) ByRGB(rgb colorspace.RGB) (ColorRecord, bool) {
	i, ok := ix.byRGB[rgb]
	if !ok {
		return ColorRecord{}, false
	}
	return ix.records[i], true
}

// ByHSL finds a record whose HSL matches after rounding to digits decimals.
func (ix *Index) ByHSL(hsl colorspace.HSL, digits int) (ColorRecord, bool) {
	return ix.lookupRounded(ix.byHSL, hsl.Vec(), digits, func(r ColorRecord) [3]float64 { return r.HSL.Vec() })
}

// ByLab finds a record whose Lab matches after rounding to digits decimals.
func (ix *Index) ByLab(lab colorspace.Lab, digits int) (ColorRecord, bool) {
	return ix.lookupRounded(ix.byLab, lab.Vec(), digits, func(r ColorRecord) [3]float64 { return r.Lab.Vec() })
}

// ByLCh finds a record whose LCh matches after rounding to digits decimals.
func (ix *Index) ByLCh(lch colorspace.LCh, digits int) (ColorRecord, bool) {
	return ix.lookupRounded(ix.byLCh, lch.Vec(), digits, func(r ColorRecord) [3]float64 { return r.LCh.Vec() })
}

func (ix *Index) lookupRounded(m map[string]int, v [3]float64, digits int, of func(ColorRecord) [3]float64) (ColorRecord, bool) {
	if digits == keyDigits {
		return ix.lookup(m, roundedKey(v, keyDigits))
	}
	// keys are stored at keyDigits; other precisions fall back to a scan
	want := roundedKey(v, digits)
	found := -1
	for i, r := range ix.records {
		if roundedKey(of(r), digits) != want {
			continue
		}
		// user records follow core records, so the last match wins
		found = i
	}
	if found < 0 {
		return ColorRecord{}, false
	}
	return ix.records[found], true
}

func (ix *Index) lookup(m map[string]int, k string) (ColorRecord, bool) {
	i, ok := m[k]
	if !ok {
		return ColorRecord{}, false
	}
	return ix.records[i], true
}

// Overrides lists the core records shadowed by user records, in the order
// the user records were added.
func (ix *Index) Overrides() []Override {
	out := make([]Override, len(ix.overrides))
	copy(out, ix.overrides)
	return out
}
