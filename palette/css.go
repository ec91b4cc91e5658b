package palette

import (
	"golang.org/x/image/colornames"

	"github.com/mmuldo/colormatch/colorspace"
)

// CSS returns the CSS/SVG named colors as core records, sorted by name.
func CSS() []ColorRecord {
	out := make([]ColorRecord, 0, len(colornames.Names))
	for _, name := range colornames.Names {
		c := colornames.Map[name]
		out = append(out, NewColorRecord(name, colorspace.RGB{R: c.R, G: c.G, B: c.B}, SourceCore))
	}
	return out
}
