package theme

import (
	"errors"
	"fmt"
	stdimage "image"
	"io"
	"sort"
	"strconv"

	"github.com/esimov/colorquant"
	"github.com/flosch/pongo2"

	"github.com/mmuldo/colormatch/colorspace"
	"github.com/mmuldo/colormatch/image"
	"github.com/mmuldo/colormatch/palette"
)

// Palette represents a set of colors and their associated 'roles' (e.g. color0, color1, etc.).
type Palette map[int]ColorVol

// Theme represents a desktop theme.
type Theme map[string]interface{}

// ColorVol represents an RGB color, its Lab equivalent, and the number of pixels it takes up in a given image.
type ColorVol struct {
	RGB   colorspace.RGB
	Lab   colorspace.Lab
	Count int
}

type byCount []ColorVol

func (cvs byCount) Len() int { return len(cvs) }
func (cvs byCount) Less(i, j int) bool {
	if cvs[i].Count != cvs[j].Count {
		return cvs[i].Count > cvs[j].Count
	}
	return cvs[i].Lab.L < cvs[j].Lab.L
}
func (cvs byCount) Swap(i, j int) { cvs[i], cvs[j] = cvs[j], cvs[i] }

type byDarkness []ColorVol

func (cvs byDarkness) Len() int { return len(cvs) }
func (cvs byDarkness) Less(i, j int) bool {
	return cvs[i].Lab.L < cvs[j].Lab.L
}
func (cvs byDarkness) Swap(i, j int) { cvs[i], cvs[j] = cvs[j], cvs[i] }

var errNoColors = errors.New("no colors to delegate")

//**exported functions**//

// Create creates a new desktop theme based a provided palette and other options.
// When names is not nil every role also gets the name of its nearest named color
// under "colorN_name".
func Create(p Palette, names *palette.Index, opts map[string]interface{}) (Theme, error) {
	t := make(Theme)

	for _, k := range roles(p) {
		t["color"+strconv.Itoa(k)] = p[k].RGB.Hex()
		if names == nil {
			continue
		}
		m, err := names.NearestRGB(p[k].RGB)
		if err != nil {
			return nil, fmt.Errorf("name color%d: %w", k, err)
		}
		t["color"+strconv.Itoa(k)+"_name"] = m.Record.Name
	}

	for k, v := range opts {
		t[k] = v
	}

	setDefaults(t)

	return t, nil
}

// Delegate converts a ColorVol slice to a Palette.
func Delegate(cvs []ColorVol) (Palette, error) {
	if len(cvs) == 0 {
		return nil, errNoColors
	}
	p := make(Palette) // Palette to return
	cvs = append([]ColorVol(nil), cvs...)

	// group colors into darks and lights
	sort.Stable(byDarkness(cvs))
	d := cvs[:len(cvs)/2]
	l := cvs[len(cvs)/2:]

	// assign roles by prevalence
	sort.Stable(byCount(d))
	sort.Stable(byCount(l))
	for i, c := range d {
		p[i] = c
	}
	for i, c := range l {
		p[len(d)+i] = c
	}

	return p, nil
}

// Extract retrieves a set of colors of size `num` that best represent img.
func Extract(img stdimage.Image, num int) ([]ColorVol, error) {
	if num < 1 {
		return nil, fmt.Errorf("invalid color count %d", num)
	}

	// quantize image
	b := img.Bounds()
	o := stdimage.NewNRGBA(stdimage.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Max.Y))
	colorquant.NoDither.Quantize(img, o, num, false, true)

	// map each image color to its prevalence
	ranked := image.RankColors(image.UniqueColors(image.FromImage(o)))
	if len(ranked) != num {
		return nil, fmt.Errorf("image does not have enough variation to support a base %d color palette", num)
	}

	cvs := make([]ColorVol, 0, len(ranked))
	for _, cc := range ranked {
		cvs = append(cvs, ColorVol{cc.Color, colorspace.RGBToLab(cc.Color), cc.Count})
	}

	return cvs, nil
}

// Render executes a pongo2 template with the theme as its context.
func Render(tpl string, t Theme) (string, error) {
	compiled, e := pongo2.FromString(tpl)
	if e != nil {
		return "", e
	}
	return compiled.Execute(pongo2.Context(t))
}

// RenderFile is Render for a template file.
func RenderFile(path string, t Theme) (string, error) {
	compiled, e := pongo2.FromFile(path)
	if e != nil {
		return "", e
	}
	return compiled.Execute(pongo2.Context(t))
}

// Preview writes one truecolor line per role.
func Preview(w io.Writer, p Palette) error {
	for _, k := range roles(p) {
		c := p[k].RGB
		if _, e := fmt.Fprintf(w, "\033[38;2;%d;%d;%dm color%d = %s\033[0m\n", c.R, c.G, c.B, k, c.Hex()); e != nil {
			return e
		}
	}
	return nil
}

//**helper functions**//

func roles(p Palette) []int {
	keys := make([]int, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func setDefaults(t Theme) {
	if _, ok := t["background"]; !ok {
		t["background"] = t["color0"]
	}

	if _, ok := t["transparency"]; !ok {
		t["transparency"] = 1.0
	}

	if _, ok := t["foreground"]; !ok {
		if fg, ok := t["color8"]; ok {
			t["foreground"] = fg
		} else {
			t["foreground"] = t["color"+strconv.Itoa(lastRole(t))]
		}
	}
}

func lastRole(t Theme) int {
	last := 0
	for i := 0; ; i++ {
		if _, ok := t["color"+strconv.Itoa(i)]; !ok {
			return last
		}
		last = i
	}
}
