package colorspace

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseHex parses "#rrggbb" or "#rgb"; the leading '#' is optional.
func ParseHex(s string) (RGB, error) {
	h := strings.TrimSpace(s)
	if !strings.HasPrefix(h, "#") {
		h = "#" + h
	}
	if len(h) != 4 && len(h) != 7 {
		return RGB{}, &InvalidColorValueError{Op: "parse hex", Reason: fmt.Sprintf("malformed hex %q", s)}
	}
	// colorful.Hex scans with Sscanf, which stops at the first bad digit
	if _, err := strconv.ParseUint(h[1:], 16, 32); err != nil {
		return RGB{}, &InvalidColorValueError{Op: "parse hex", Reason: fmt.Sprintf("malformed hex %q", s)}
	}
	c, err := colorful.Hex(h)
	if err != nil {
		return RGB{}, &InvalidColorValueError{Op: "parse hex", Reason: fmt.Sprintf("malformed hex %q: %v", s, err)}
	}
	return RGB{
		R: uint8(math.Round(c.R * 255)),
		G: uint8(math.Round(c.G * 255)),
		B: uint8(math.Round(c.B * 255)),
	}, nil
}

// Hex formats c as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
