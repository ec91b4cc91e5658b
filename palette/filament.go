package palette

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mmuldo/colormatch/colorspace"
	"github.com/mmuldo/colormatch/gamut"
)

// DualColorMode selects how a two-color filament is reduced to one
// comparison color.
type DualColorMode int

const (
	// DualFirst uses the first color.
	DualFirst DualColorMode = iota
	// DualLast uses the second color.
	DualLast
	// DualMix averages both colors in L*a*b*.
	DualMix
)

func (m DualColorMode) String() string {
	switch m {
	case DualFirst:
		return "first"
	case DualLast:
		return "last"
	case DualMix:
		return "mix"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ParseDualColorMode resolves "first", "last" or "mix".
func ParseDualColorMode(s string) (DualColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first":
		return DualFirst, nil
	case "last":
		return DualLast, nil
	case "mix":
		return DualMix, nil
	}
	return 0, fmt.Errorf("invalid dual color mode %q: must be first, last or mix", s)
}

type dualModeKey struct{}

// WithDualColorMode returns a context carrying mode. Each call chain reads
// its own mode, so concurrent callers never interfere.
func WithDualColorMode(ctx context.Context, mode DualColorMode) context.Context {
	return context.WithValue(ctx, dualModeKey{}, mode)
}

// DualColorModeFrom returns the mode carried by ctx, or DualFirst.
func DualColorModeFrom(ctx context.Context) DualColorMode {
	if m, ok := ctx.Value(dualModeKey{}).(DualColorMode); ok {
		return m
	}
	return DualFirst
}

// FilamentRecord is a 3D printing filament. Dual-color filaments carry a
// Secondary color.
type FilamentRecord struct {
	ID     string
	Maker  string
	Type   string
	Finish string
	Color  string
	Hex    string

	Primary   colorspace.RGB
	Secondary *colorspace.RGB

	// TD is the HueForge transmission distance, nil when unknown.
	TD         *float64
	OtherNames []string
	Source     Source
}

// ParseFilamentHex parses "#RRGGBB" or the dual form "#RRGGBB-#RRGGBB".
func ParseFilamentHex(hex string) (colorspace.RGB, *colorspace.RGB, error) {
	parts := strings.Split(strings.TrimSpace(hex), "-")
	if len(parts) > 2 {
		return colorspace.RGB{}, nil, fmt.Errorf("filament hex %q: more than two colors", hex)
	}
	first, err := colorspace.ParseHex(parts[0])
	if err != nil {
		return colorspace.RGB{}, nil, err
	}
	if len(parts) == 1 {
		return first, nil, nil
	}
	second, err := colorspace.ParseHex(parts[1])
	if err != nil {
		return colorspace.RGB{}, nil, err
	}
	return first, &second, nil
}

// NewFilamentRecord parses hex and fills in the colors.
func NewFilamentRecord(id, maker, typ, finish, color, hex string) (FilamentRecord, error) {
	p, s, err := ParseFilamentHex(hex)
	if err != nil {
		return FilamentRecord{}, fmt.Errorf("filament %q: %w", id, err)
	}
	return FilamentRecord{
		ID:        id,
		Maker:     maker,
		Type:      typ,
		Finish:    finish,
		Color:     color,
		Hex:       strings.TrimSpace(hex),
		Primary:   p,
		Secondary: s,
	}, nil
}

// IsDual reports whether f has two colors.
func (f FilamentRecord) IsDual() bool { return f.Secondary != nil }

// Lab returns the comparison color of f under mode.
func (f FilamentRecord) Lab(mode DualColorMode) (colorspace.Lab, error) {
	if !f.IsDual() {
		return colorspace.RGBToLab(f.Primary), nil
	}
	switch mode {
	case DualFirst:
		return colorspace.RGBToLab(f.Primary), nil
	case DualLast:
		return colorspace.RGBToLab(*f.Secondary), nil
	case DualMix:
		a := colorspace.RGBToLab(f.Primary)
		b := colorspace.RGBToLab(*f.Secondary)
		mid := colorspace.Lab{L: (a.L + b.L) / 2, A: (a.A + b.A) / 2, B: (a.B + b.B) / 2}
		clamped, err := gamut.Default.Clamp(mid)
		if err != nil && !errors.Is(err, colorspace.ErrConvergenceLimitReached) {
			return colorspace.Lab{}, fmt.Errorf("filament %q: %w", f.ID, err)
		}
		return clamped, nil
	}
	return colorspace.Lab{}, fmt.Errorf("filament %q: unsupported dual color mode %v", f.ID, mode)
}

// RGB returns the comparison color of f under mode as 8-bit sRGB.
func (f FilamentRecord) RGB(mode DualColorMode) (colorspace.RGB, error) {
	if !f.IsDual() || mode == DualFirst {
		return f.Primary, nil
	}
	if mode == DualLast {
		return *f.Secondary, nil
	}
	lab, err := f.Lab(mode)
	if err != nil {
		return colorspace.RGB{}, err
	}
	rgb, err := colorspace.LabToRGBf(lab)
	if err != nil {
		return colorspace.RGB{}, err
	}
	return rgb.Round(), nil
}

func (f FilamentRecord) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", f.Maker, f.Type)
	if f.Finish != "" {
		fmt.Fprintf(&b, " %s", f.Finish)
	}
	fmt.Fprintf(&b, " - %s %s", f.Color, f.Hex)
	if f.TD != nil {
		fmt.Fprintf(&b, " (TD: %g)", *f.TD)
	}
	return b.String()
}
