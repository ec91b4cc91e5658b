// Package image holds raw pixel buffers for the quantizer and converts them
// to and from the standard library's image types.
package image

import (
	"fmt"
	"image"
	"image/color"

	"github.com/mmuldo/colormatch/colorspace"
)

// Buffer is a row-major pixel buffer with 3 (RGB) or 4 (RGBA) channels.
// Alpha is stored non-premultiplied.
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewBuffer allocates a zeroed buffer.
func NewBuffer(width, height, channels int) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid buffer size %dx%d", width, height)
	}
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("invalid channel count %d: must be 3 or 4", channels)
	}
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// FromImage copies img into a Buffer. Images that are not fully opaque get
// an alpha channel.
func FromImage(img image.Image) *Buffer {
	b := img.Bounds()
	channels := 3
	if o, ok := img.(interface{ Opaque() bool }); !ok || !o.Opaque() {
		channels = 4
	}
	buf, _ := NewBuffer(b.Dx(), b.Dy(), channels)

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2] = c.R, c.G, c.B
			if channels == 4 {
				buf.Pix[i+3] = c.A
			}
			i += channels
		}
	}
	return buf
}

// Image converts the buffer to an *image.NRGBA.
func (b *Buffer) Image() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for p, o := 0, 0; p < len(b.Pix); p, o = p+b.Channels, o+4 {
		out.Pix[o], out.Pix[o+1], out.Pix[o+2] = b.Pix[p], b.Pix[p+1], b.Pix[p+2]
		out.Pix[o+3] = 255
		if b.Channels == 4 {
			out.Pix[o+3] = b.Pix[p+3]
		}
	}
	return out
}

// Len returns the number of pixels.
func (b *Buffer) Len() int { return b.Width * b.Height }

// At returns the color and alpha at (x, y). Alpha is 255 for RGB buffers.
func (b *Buffer) At(x, y int) (colorspace.RGB, uint8) {
	return b.Pixel(y*b.Width + x)
}

// Pixel is At addressed by raster index.
func (b *Buffer) Pixel(i int) (colorspace.RGB, uint8) {
	o := i * b.Channels
	c := colorspace.RGB{R: b.Pix[o], G: b.Pix[o+1], B: b.Pix[o+2]}
	if b.Channels == 4 {
		return c, b.Pix[o+3]
	}
	return c, 255
}

// Set writes the color at (x, y), leaving alpha untouched.
func (b *Buffer) Set(x, y int, c colorspace.RGB) {
	b.SetPixel(y*b.Width+x, c)
}

// SetPixel is Set addressed by raster index.
func (b *Buffer) SetPixel(i int, c colorspace.RGB) {
	o := i * b.Channels
	b.Pix[o], b.Pix[o+1], b.Pix[o+2] = c.R, c.G, c.B
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	c := *b
	c.Pix = append([]uint8(nil), b.Pix...)
	return &c
}
