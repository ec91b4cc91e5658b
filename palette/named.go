package palette

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mmuldo/colormatch/colorspace"
)

// NamedPalette is an ordered set of colors that images are quantized onto.
type NamedPalette struct {
	Name    string
	Source  Source
	Records []ColorRecord
}

// ErrUnknownPalette is matched by every *UnknownPaletteError.
var ErrUnknownPalette = errors.New("unknown palette")

// UnknownPaletteError names the missing palette and the ones on offer.
type UnknownPaletteError struct {
	Name      string
	Available []string
}

func (e *UnknownPaletteError) Error() string {
	return fmt.Sprintf("palette %q not found, available: %s", e.Name, strings.Join(e.Available, ", "))
}

func (e *UnknownPaletteError) Is(target error) bool { return target == ErrUnknownPalette }

type entry struct {
	name string
	rgb  colorspace.RGB
}

func named(name string, entries ...entry) NamedPalette {
	p := NamedPalette{Name: name, Source: SourceCore}
	for _, e := range entries {
		p.Records = append(p.Records, NewColorRecord(e.name, e.rgb, SourceCore))
	}
	return p
}

// rgbi is the 16 color palette shared by CGA text mode and the default EGA
// registers. Each names the bright half differently.
func rgbi(bright, yellow, white string) []entry {
	return []entry{
		{"Black", colorspace.RGB{R: 0, G: 0, B: 0}},
		{"Blue", colorspace.RGB{R: 0, G: 0, B: 170}},
		{"Green", colorspace.RGB{R: 0, G: 170, B: 0}},
		{"Cyan", colorspace.RGB{R: 0, G: 170, B: 170}},
		{"Red", colorspace.RGB{R: 170, G: 0, B: 0}},
		{"Magenta", colorspace.RGB{R: 170, G: 0, B: 170}},
		{"Brown", colorspace.RGB{R: 170, G: 85, B: 0}},
		{"Light Gray", colorspace.RGB{R: 170, G: 170, B: 170}},
		{"Dark Gray", colorspace.RGB{R: 85, G: 85, B: 85}},
		{bright + " Blue", colorspace.RGB{R: 85, G: 85, B: 255}},
		{bright + " Green", colorspace.RGB{R: 85, G: 255, B: 85}},
		{bright + " Cyan", colorspace.RGB{R: 85, G: 255, B: 255}},
		{bright + " Red", colorspace.RGB{R: 255, G: 85, B: 85}},
		{bright + " Magenta", colorspace.RGB{R: 255, G: 85, B: 255}},
		{yellow, colorspace.RGB{R: 255, G: 255, B: 85}},
		{white, colorspace.RGB{R: 255, G: 255, B: 255}},
	}
}

// cube enumerates every r, g, b drawn from levels, red varying slowest, and
// names each color prefix plus its hex digits.
func cube(name, prefix string, levels ...uint8) NamedPalette {
	p := NamedPalette{Name: name, Source: SourceCore}
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				rgb := colorspace.RGB{R: r, G: g, B: b}
				p.Records = append(p.Records, NewColorRecord(prefix+" "+rgb.Hex()[1:], rgb, SourceCore))
			}
		}
	}
	return p
}

// BuiltinPalettes returns the core palettes: css, the retro computer
// palettes cga4, cga16, ega16 and ega64, the 216 color web-safe cube and the
// original Game Boy shades.
func BuiltinPalettes() []NamedPalette {
	return []NamedPalette{
		{Name: "css", Source: SourceCore, Records: CSS()},
		named("cga4",
			entry{"Black", colorspace.RGB{R: 0, G: 0, B: 0}},
			entry{"Light Cyan", colorspace.RGB{R: 85, G: 255, B: 255}},
			entry{"Light Magenta", colorspace.RGB{R: 255, G: 85, B: 255}},
			entry{"Bright White", colorspace.RGB{R: 255, G: 255, B: 255}},
		),
		named("cga16", rgbi("Light", "Yellow", "White")...),
		named("ega16", rgbi("Bright", "Bright Yellow", "Bright White")...),
		cube("ega64", "EGA", 0x00, 0x55, 0xAA, 0xFF),
		cube("web", "Web", 0x00, 0x33, 0x66, 0x99, 0xCC, 0xFF),
		named("gameboy",
			entry{"Darkest Green", colorspace.RGB{R: 15, G: 56, B: 15}},
			entry{"Dark Green", colorspace.RGB{R: 48, G: 98, B: 48}},
			entry{"Light Green", colorspace.RGB{R: 139, G: 172, B: 15}},
			entry{"Lightest Green", colorspace.RGB{R: 155, G: 188, B: 15}},
		),
	}
}

// Palettes is a registry of named palettes. A user palette replaces the
// core palette of the same name.
type Palettes struct {
	byName    map[string]NamedPalette
	overrides []string
}

// NewPalettes registers core and then user palettes. Names are matched
// case-insensitively.
func NewPalettes(core, user []NamedPalette) *Palettes {
	p := &Palettes{byName: make(map[string]NamedPalette, len(core)+len(user))}
	for _, np := range core {
		p.byName[nameKey(np.Name)] = np
	}
	for _, np := range user {
		k := nameKey(np.Name)
		if prev, ok := p.byName[k]; ok && prev.Source == SourceCore {
			p.overrides = append(p.overrides, np.Name)
		}
		np.Source = SourceUser
		p.byName[k] = np
	}
	slices.Sort(p.overrides)
	return p
}

// Get returns the palette registered under name.
func (p *Palettes) Get(name string) (NamedPalette, error) {
	np, ok := p.byName[nameKey(name)]
	if !ok {
		return NamedPalette{}, &UnknownPaletteError{Name: name, Available: p.Names()}
	}
	return np, nil
}

// Names lists every registered palette, sorted.
func (p *Palettes) Names() []string {
	out := make([]string, 0, len(p.byName))
	for _, np := range p.byName {
		out = append(out, np.Name)
	}
	slices.Sort(out)
	return out
}

// Overrides lists the user palettes that replaced a core palette.
func (p *Palettes) Overrides() []string { return p.overrides }
