// Package palette stores named colors and filaments and finds the records
// nearest to a target color.
//
// An Index is built from core records and user records. Wherever the two
// collide, by name or by RGB, the user record wins, and user records are
// preferred when two candidates are equally distant from a target.
package palette

import (
	"fmt"

	"github.com/mmuldo/colormatch/colorspace"
)

// Source tags where a record came from.
type Source int

const (
	SourceCore Source = iota
	SourceUser
)

func (s Source) String() string {
	switch s {
	case SourceCore:
		return "core"
	case SourceUser:
		return "user"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// ColorRecord is a named color with every representation derived from the
// same RGB value. Build records with NewColorRecord.
type ColorRecord struct {
	Name   string
	Hex    string
	RGB    colorspace.RGB
	HSL    colorspace.HSL
	Lab    colorspace.Lab
	LCh    colorspace.LCh
	Source Source
}

// NewColorRecord derives every representation from rgb.
func NewColorRecord(name string, rgb colorspace.RGB, src Source) ColorRecord {
	return ColorRecord{
		Name:   name,
		Hex:    rgb.Hex(),
		RGB:    rgb,
		HSL:    colorspace.RGBToHSL(rgb),
		Lab:    colorspace.RGBToLab(rgb),
		LCh:    colorspace.RGBToLCh(rgb),
		Source: src,
	}
}

// ParseColorRecord builds a record from a hex string.
func ParseColorRecord(name, hex string, src Source) (ColorRecord, error) {
	rgb, err := colorspace.ParseHex(hex)
	if err != nil {
		return ColorRecord{}, fmt.Errorf("color %q: %w", name, err)
	}
	return NewColorRecord(name, rgb, src), nil
}

func (r ColorRecord) String() string {
	return fmt.Sprintf("%s %s (%s)", r.Name, r.Hex, r.Source)
}
