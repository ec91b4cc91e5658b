package colorspace

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBToHSL converts 8-bit sRGB to HSL. Hue is 0 for achromatic colors.
func RGBToHSL(c RGB) HSL {
	h, s, l := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hsl()
	return HSL{H: NormalizeHue(h), S: s * 100, L: l * 100}
}

// HSLToRGB converts HSL to 8-bit sRGB. S and L must lie in 0-100; the hue
// is wrapped.
func HSLToRGB(c HSL) (RGB, error) {
	if err := CheckFinite("hsl to rgb", c.H, c.S, c.L); err != nil {
		return RGB{}, err
	}
	if c.S < 0 || c.S > 100 || c.L < 0 || c.L > 100 {
		return RGB{}, invalid("hsl to rgb", "saturation or lightness outside 0-100", c.H, c.S, c.L)
	}
	col := colorful.Hsl(NormalizeHue(c.H), c.S/100, c.L/100)
	return RGBf{R: col.R * 255, G: col.G * 255, B: col.B * 255}.Round(), nil
}

// WinHSL is HSL on the 0-240 integer scale used by Win32 color dialogs.
type WinHSL struct {
	H, S, L int
}

// RGBToWinHSL converts 8-bit sRGB to the Windows 0-240 HSL scale.
func RGBToWinHSL(c RGB) WinHSL {
	hsl := RGBToHSL(c)
	return WinHSL{
		H: int(math.Round(hsl.H / 360 * 240)),
		S: int(math.Round(hsl.S / 100 * 240)),
		L: int(math.Round(hsl.L / 100 * 240)),
	}
}
