// Package colorspace converts colors between sRGB, linear RGB, CIE XYZ (D65),
// CIE L*a*b*, L*C*h and HSL.
//
// All conversions are pure functions. Inputs outside a type's declared range
// are rejected with an *InvalidColorValueError rather than clamped.
package colorspace

import (
	"errors"
	"fmt"
	"math"
)

// lightnessSlack allows for the rounding error of the D65 matrices, which
// puts sRGB white a few millionths above L* 100.
const lightnessSlack = 1e-4

// RGB is an 8-bit sRGB color.
type RGB struct {
	R, G, B uint8
}

// Vec returns the channels as floats.
func (c RGB) Vec() [3]float64 {
	return [3]float64{float64(c.R), float64(c.G), float64(c.B)}
}

// Float widens c to an RGBf.
func (c RGB) Float() RGBf {
	return RGBf{float64(c.R), float64(c.G), float64(c.B)}
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// RGBf is an unrounded sRGB color on the 0-255 scale. Values produced by
// XYZToRGBf may lie outside that range for out-of-gamut colors.
type RGBf struct {
	R, G, B float64
}

// Vec returns the channels as an array.
func (c RGBf) Vec() [3]float64 { return [3]float64{c.R, c.G, c.B} }

// Round rounds each channel to the nearest integer after clamping to 0-255.
func (c RGBf) Round() RGB {
	return RGB{roundByte(c.R), roundByte(c.G), roundByte(c.B)}
}

// XYZ is a CIE 1931 XYZ color relative to D65, scaled so that Y of white is 100.
type XYZ struct {
	X, Y, Z float64
}

// Lab is a CIE L*a*b* color relative to D65.
type Lab struct {
	L, A, B float64
}

// Vec returns the components as an array.
func (c Lab) Vec() [3]float64 { return [3]float64{c.L, c.A, c.B} }

// LCh is the cylindrical form of Lab. H is in degrees.
type LCh struct {
	L, C, H float64
}

// Vec returns the components as an array.
func (c LCh) Vec() [3]float64 { return [3]float64{c.L, c.C, c.H} }

// HSL holds hue in degrees [0, 360), saturation and lightness in percent.
type HSL struct {
	H, S, L float64
}

// Vec returns the components as an array.
func (c HSL) Vec() [3]float64 { return [3]float64{c.H, c.S, c.L} }

var (
	// ErrInvalidColorValue is matched by every *InvalidColorValueError.
	ErrInvalidColorValue = errors.New("invalid color value")
	// ErrConvergenceLimitReached reports an iterative search that stopped at
	// its cap. The gamut clamp returns it; k-means only logs it.
	ErrConvergenceLimitReached = errors.New("convergence limit reached")
)

// InvalidColorValueError reports a malformed or out-of-range color input.
type InvalidColorValueError struct {
	Op     string
	Values []float64
	Reason string
}

func (e *InvalidColorValueError) Error() string {
	return fmt.Sprintf("%s: invalid color value %v: %s", e.Op, e.Values, e.Reason)
}

func (e *InvalidColorValueError) Is(target error) bool { return target == ErrInvalidColorValue }

func invalid(op, reason string, values ...float64) error {
	return &InvalidColorValueError{Op: op, Values: values, Reason: reason}
}

// Finite reports whether every value is a real number.
func Finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// CheckFinite returns an *InvalidColorValueError naming op when any value is
// NaN or infinite.
func CheckFinite(op string, values ...float64) error {
	if !Finite(values...) {
		return invalid(op, "not a finite number", values...)
	}
	return nil
}

// NormalizeHue wraps h into [0, 360).
func NormalizeHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

func roundByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}
