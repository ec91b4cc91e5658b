package distance

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jkl1337/go-chromath"
	"github.com/jkl1337/go-chromath/deltae"

	"github.com/mmuldo/colormatch/colorspace"
)

// KLCh holds the parametric weighting factors of ΔE2000.
type KLCh = deltae.KLCh

// KLChDefault is the reference condition kL = kC = kH = 1.
var KLChDefault = deltae.KLChDefault

// DE94Weights parameterizes ΔE94.
type DE94Weights = deltae.KLCh94

var (
	// GraphicArts is the ΔE94 weighting for graphic arts.
	GraphicArts = deltae.KLCH94GraphicArts
	// Textiles is the ΔE94 weighting for textiles.
	Textiles = deltae.KLCH94Textiles
)

// CMCRatio is the lightness:chroma ratio of ΔE CMC.
type CMCRatio struct {
	L, C float64
}

var (
	// CMCAcceptability is the 2:1 ratio.
	CMCAcceptability = CMCRatio{2, 1}
	// CMCPerceptibility is the 1:1 ratio.
	CMCPerceptibility = CMCRatio{1, 1}
)

func (r CMCRatio) String() string {
	return strconv.FormatFloat(r.L, 'g', -1, 64) + ":" + strconv.FormatFloat(r.C, 'g', -1, 64)
}

// ParseCMCRatio parses "l:c", e.g. "2:1".
func ParseCMCRatio(s string) (CMCRatio, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return CMCRatio{}, fmt.Errorf("cmc ratio %q: want l:c", s)
	}
	l, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return CMCRatio{}, fmt.Errorf("cmc ratio %q: %w", s, err)
	}
	c, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return CMCRatio{}, fmt.Errorf("cmc ratio %q: %w", s, err)
	}
	if l <= 0 || c <= 0 {
		return CMCRatio{}, fmt.Errorf("cmc ratio %q: weights must be positive", s)
	}
	return CMCRatio{l, c}, nil
}

func lab(c colorspace.Lab) chromath.Lab { return chromath.Lab{c.L, c.A, c.B} }

// settle maps the NaN that a square root of a rounding-negative sum yields
// back to zero. Inputs are already known to be finite.
func settle(d float64) float64 {
	if math.IsNaN(d) {
		return 0
	}
	return d
}

// DeltaE76 is the CIE 1976 difference, Euclidean distance in L*a*b*.
func DeltaE76(a, b colorspace.Lab) (float64, error) {
	if err := check("delta e 76", a.Vec(), b.Vec()); err != nil {
		return 0, err
	}
	return deltae.CIE76(lab(a), lab(b)), nil
}

// DeltaE94 is the CIE 1994 difference with a the reference color.
func DeltaE94(a, b colorspace.Lab, w DE94Weights) (float64, error) {
	if err := check("delta e 94", a.Vec(), b.Vec()); err != nil {
		return 0, err
	}
	return settle(deltae.CIE94(lab(a), lab(b), &w)), nil
}

// DeltaE2000 is the CIEDE2000 difference.
func DeltaE2000(a, b colorspace.Lab, k KLCh) (float64, error) {
	if err := check("delta e 2000", a.Vec(), b.Vec()); err != nil {
		return 0, err
	}
	return settle(deltae.CIE2000(lab(a), lab(b), &k)), nil
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }

// hueAngle is atan2 in degrees mapped to [0, 360), 0 for the origin.
func hueAngle(y, x float64) float64 {
	if x == 0 && y == 0 {
		return 0
	}
	return colorspace.NormalizeHue(math.Atan2(y, x) * 180 / math.Pi)
}

// DeltaECMC is the CMC l:c difference with a the reference color.
func DeltaECMC(a, b colorspace.Lab, r CMCRatio) (float64, error) {
	if err := check("delta e cmc", a.Vec(), b.Vec()); err != nil {
		return 0, err
	}
	c1 := math.Hypot(a.A, a.B)
	c2 := math.Hypot(b.A, b.B)
	dL := a.L - b.L
	dC := c1 - c2
	da, db := a.A-b.A, a.B-b.B
	dH2 := math.Max(da*da+db*db-dC*dC, 0)

	sL := 0.511
	if a.L >= 16 {
		sL = 0.040975 * a.L / (1 + 0.01765*a.L)
	}
	sC := 0.0638*c1/(1+0.0131*c1) + 0.638

	h1 := hueAngle(a.B, a.A)
	var t float64
	if h1 >= 164 && h1 <= 345 {
		t = 0.56 + math.Abs(0.2*math.Cos(rad(h1+168)))
	} else {
		t = 0.36 + math.Abs(0.4*math.Cos(rad(h1+35)))
	}
	var f float64
	if c1 != 0 {
		c14 := c1 * c1 * c1 * c1
		f = math.Sqrt(c14 / (c14 + 1900))
	}
	sH := sC * (f*t + 1 - f)

	tL := dL / (r.L * sL)
	tC := dC / (r.C * sC)
	return math.Sqrt(tL*tL + tC*tC + dH2/(sH*sH)), nil
}
