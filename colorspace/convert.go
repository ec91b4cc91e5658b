package colorspace

import (
	"math"

	"github.com/jkl1337/go-chromath"
)

var (
	rgb2Xyz = chromath.NewRGBTransformer(&chromath.SpaceSRGB, nil, nil, nil, 1.0, nil)
	lab2Xyz = chromath.NewLabTransformer(&chromath.IlluminantRefD65)
)

func fromPoint(p chromath.XYZ) XYZ {
	return XYZ{X: p.X() * 100, Y: p.Y() * 100, Z: p.Z() * 100}
}

func (c XYZ) point() chromath.XYZ {
	return chromath.XYZ{c.X / 100, c.Y / 100, c.Z / 100}
}

// RGBToXYZ converts an 8-bit sRGB color to XYZ.
func RGBToXYZ(c RGB) XYZ {
	return fromPoint(rgb2Xyz.Convert(chromath.RGB{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}))
}

// RGBfToXYZ converts an unrounded sRGB color to XYZ. Each channel must lie
// in 0-255.
func RGBfToXYZ(c RGBf) (XYZ, error) {
	if err := CheckFinite("rgb to xyz", c.R, c.G, c.B); err != nil {
		return XYZ{}, err
	}
	for _, v := range c.Vec() {
		if v < 0 || v > 255 {
			return XYZ{}, invalid("rgb to xyz", "channel outside 0-255", c.R, c.G, c.B)
		}
	}
	return fromPoint(rgb2Xyz.Convert(chromath.RGB{c.R / 255, c.G / 255, c.B / 255})), nil
}

// XYZToRGBf converts XYZ to sRGB on the 0-255 scale without clamping, so
// out-of-gamut colors yield channels outside that range. The sRGB curve is
// applied as an odd function, keeping negative channels negative.
func XYZToRGBf(c XYZ) (RGBf, error) {
	if err := CheckFinite("xyz to rgb", c.X, c.Y, c.Z); err != nil {
		return RGBf{}, err
	}
	p := rgb2Xyz.Invert(c.point())
	return RGBf{R: p.R() * 255, G: p.G() * 255, B: p.B() * 255}, nil
}

// XYZToRGB converts XYZ to 8-bit sRGB. A channel that rounds outside 0-255
// is an error; use the gamut package to bring such colors into range first.
func XYZToRGB(c XYZ) (RGB, error) {
	f, err := XYZToRGBf(c)
	if err != nil {
		return RGB{}, err
	}
	for _, v := range f.Vec() {
		if math.Round(v) < 0 || math.Round(v) > 255 {
			return RGB{}, invalid("xyz to rgb", "outside the sRGB gamut", c.X, c.Y, c.Z)
		}
	}
	return f.Round(), nil
}

// XYZToLab converts XYZ to L*a*b*.
func XYZToLab(c XYZ) (Lab, error) {
	if err := CheckFinite("xyz to lab", c.X, c.Y, c.Z); err != nil {
		return Lab{}, err
	}
	l := lab2Xyz.Invert(c.point())
	return Lab{L: l.L(), A: l.A(), B: l.B()}, nil
}

// LabToXYZ converts L*a*b* to XYZ. L must lie in 0-100.
func LabToXYZ(c Lab) (XYZ, error) {
	if err := checkLab("lab to xyz", c); err != nil {
		return XYZ{}, err
	}
	return fromPoint(lab2Xyz.Convert(chromath.Lab{c.L, c.A, c.B})), nil
}

func checkLab(op string, c Lab) error {
	if err := CheckFinite(op, c.L, c.A, c.B); err != nil {
		return err
	}
	if !lightnessInRange(c.L) {
		return invalid(op, "L* outside 0-100", c.L, c.A, c.B)
	}
	return nil
}

func lightnessInRange(l float64) bool {
	return l >= -lightnessSlack && l <= 100+lightnessSlack
}

// RGBToLab converts 8-bit sRGB to L*a*b*.
func RGBToLab(c RGB) Lab {
	lab, _ := XYZToLab(RGBToXYZ(c))
	return lab
}

// RGBfToLab converts an unrounded sRGB color to L*a*b*.
func RGBfToLab(c RGBf) (Lab, error) {
	xyz, err := RGBfToXYZ(c)
	if err != nil {
		return Lab{}, err
	}
	return XYZToLab(xyz)
}

// LabToRGBf converts L*a*b* to unclamped sRGB.
func LabToRGBf(c Lab) (RGBf, error) {
	xyz, err := LabToXYZ(c)
	if err != nil {
		return RGBf{}, err
	}
	return XYZToRGBf(xyz)
}

// LabToRGB converts L*a*b* to 8-bit sRGB, failing for out-of-gamut colors.
func LabToRGB(c Lab) (RGB, error) {
	xyz, err := LabToXYZ(c)
	if err != nil {
		return RGB{}, err
	}
	return XYZToRGB(xyz)
}

// LabToLCh converts L*a*b* to L*C*h with the hue in [0, 360). The hue of a
// neutral color is 0.
func LabToLCh(c Lab) (LCh, error) {
	if err := CheckFinite("lab to lch", c.L, c.A, c.B); err != nil {
		return LCh{}, err
	}
	p := chromath.Lab{c.L, c.A, c.B}.LCh()
	h := 0.0
	if c.A != 0 || c.B != 0 {
		h = NormalizeHue(p.H())
	}
	return LCh{L: p.L(), C: p.C(), H: h}, nil
}

// LChToLab converts L*C*h to L*a*b*.
func LChToLab(c LCh) (Lab, error) {
	if err := CheckFinite("lch to lab", c.L, c.C, c.H); err != nil {
		return Lab{}, err
	}
	if !lightnessInRange(c.L) {
		return Lab{}, invalid("lch to lab", "L* outside 0-100", c.L, c.C, c.H)
	}
	if c.C < 0 {
		return Lab{}, invalid("lch to lab", "negative chroma", c.L, c.C, c.H)
	}
	p := chromath.LCh{c.L, c.C, c.H}.Lab()
	return Lab{L: p.L(), A: p.A(), B: p.B()}, nil
}

// RGBToLCh converts 8-bit sRGB to L*C*h.
func RGBToLCh(c RGB) LCh {
	lch, _ := LabToLCh(RGBToLab(c))
	return lch
}
