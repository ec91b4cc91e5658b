// Package cvd simulates color vision deficiencies and corrects colors so
// that contrast lost to a deficiency shows up in channels the viewer still
// perceives.
//
// Simulation applies the Machado, Oliveira and Fernandes (2009) matrices for
// full severity in linear RGB. Correction is daltonization: the difference
// between a color and its simulation is redistributed onto the remaining
// channels.
package cvd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jkl1337/go-chromath"

	"github.com/mmuldo/colormatch/colorspace"
	"github.com/mmuldo/colormatch/image"
)

// Deficiency is a dichromatic color vision deficiency.
type Deficiency int

const (
	Protanopia Deficiency = iota
	Deuteranopia
	Tritanopia
)

func (d Deficiency) String() string {
	switch d {
	case Protanopia:
		return "protanopia"
	case Deuteranopia:
		return "deuteranopia"
	case Tritanopia:
		return "tritanopia"
	default:
		return fmt.Sprintf("Unknown(%d)", int(d))
	}
}

// Describe names the cone the deficiency affects.
func (d Deficiency) Describe() string {
	switch d {
	case Protanopia:
		return "protanopia (red-blind)"
	case Deuteranopia:
		return "deuteranopia (green-blind)"
	case Tritanopia:
		return "tritanopia (blue-blind)"
	}
	return d.String()
}

// ErrUnknownDeficiency is returned by ParseDeficiency.
var ErrUnknownDeficiency = errors.New("unknown color deficiency")

// ParseDeficiency accepts the full name or its short form, e.g. "protan".
func ParseDeficiency(s string) (Deficiency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "protanopia", "protan":
		return Protanopia, nil
	case "deuteranopia", "deutan":
		return Deuteranopia, nil
	case "tritanopia", "tritan":
		return Tritanopia, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDeficiency, s)
}

type matrix [3][3]float64

func (m matrix) apply(p [3]float64) [3]float64 {
	var out [3]float64
	for i := range m {
		out[i] = m[i][0]*p[0] + m[i][1]*p[1] + m[i][2]*p[2]
	}
	return out
}

var (
	simulation = map[Deficiency]matrix{
		Protanopia: {
			{0.152286, 1.052583, -0.204868},
			{0.114503, 0.786281, 0.099216},
			{-0.003882, -0.048116, 1.051998},
		},
		Deuteranopia: {
			{0.367322, 0.860646, -0.227968},
			{0.280085, 0.672501, 0.047413},
			{-0.011820, 0.042940, 0.968881},
		},
		Tritanopia: {
			{1.255528, -0.076749, -0.178779},
			{-0.078411, 0.930809, 0.147602},
			{0.004733, 0.691367, 0.303900},
		},
	}

	// red-green losses move into green and blue, blue-yellow into red and
	// green
	redGreenShift   = matrix{{0, 0, 0}, {0.7, 1, 0}, {0.7, 0, 1}}
	blueYellowShift = matrix{{1, 0, 0.7}, {0, 1, 0.7}, {0, 0, 0}}
)

func simulate(c colorspace.RGB, d Deficiency) colorspace.RGB {
	lin := chromath.SRGBCompander.Linearize(chromath.Point{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255})
	p := chromath.SRGBCompander.Compand(chromath.Point(simulation[d].apply(lin)))
	return colorspace.RGBf{R: p[0] * 255, G: p[1] * 255, B: p[2] * 255}.Round()
}

func check(d Deficiency) error {
	if _, ok := simulation[d]; !ok {
		return fmt.Errorf("%w: %v", ErrUnknownDeficiency, d)
	}
	return nil
}

// Simulate returns c as a viewer with deficiency d perceives it.
func Simulate(c colorspace.RGB, d Deficiency) (colorspace.RGB, error) {
	if err := check(d); err != nil {
		return colorspace.RGB{}, err
	}
	return simulate(c, d), nil
}

// Correct shifts c so that the viewer with deficiency d can tell it apart
// from colors it would otherwise be confused with. Neutral colors are left
// unchanged.
func Correct(c colorspace.RGB, d Deficiency) (colorspace.RGB, error) {
	if err := check(d); err != nil {
		return colorspace.RGB{}, err
	}
	sim := simulate(c, d)
	orig := c.Vec()
	lost := [3]float64{orig[0] - float64(sim.R), orig[1] - float64(sim.G), orig[2] - float64(sim.B)}
	shift := redGreenShift
	if d == Tritanopia {
		shift = blueYellowShift
	}
	s := shift.apply(lost)
	return colorspace.RGBf{R: orig[0] + s[0], G: orig[1] + s[1], B: orig[2] + s[2]}.Round(), nil
}

// Apply runs f, Simulate or Correct, over every pixel of a copy of buf.
// Alpha is kept.
func Apply(buf *image.Buffer, d Deficiency, f func(colorspace.RGB, Deficiency) (colorspace.RGB, error)) (*image.Buffer, error) {
	out := buf.Clone()
	mapping := make(map[colorspace.RGB]colorspace.RGB)
	for c := range image.UniqueColors(buf) {
		m, err := f(c, d)
		if err != nil {
			return nil, err
		}
		mapping[c] = m
	}
	for i := 0; i < out.Len(); i++ {
		c, _ := out.Pixel(i)
		out.SetPixel(i, mapping[c])
	}
	return out, nil
}
