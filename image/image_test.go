package image

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmuldo/colormatch/colorspace"
)

func TestNewBuffer(t *testing.T) {
	buf, err := NewBuffer(3, 2, 4)
	require.NoError(t, err)
	assert.Len(t, buf.Pix, 24)
	assert.Equal(t, 6, buf.Len())

	_, err = NewBuffer(3, 2, 2)
	assert.Error(t, err)
	_, err = NewBuffer(-1, 2, 3)
	assert.Error(t, err)
}

func TestBufferSetKeepsAlpha(t *testing.T) {
	buf, err := NewBuffer(2, 2, 4)
	require.NoError(t, err)
	buf.Pix[3*4+3] = 77

	buf.Set(1, 1, colorspace.RGB{R: 1, G: 2, B: 3})
	c, a := buf.At(1, 1)
	assert.Equal(t, colorspace.RGB{R: 1, G: 2, B: 3}, c)
	assert.Equal(t, uint8(77), a)

	rgb, err := NewBuffer(1, 1, 3)
	require.NoError(t, err)
	_, a = rgb.At(0, 0)
	assert.Equal(t, uint8(255), a)
}

func TestFromImage(t *testing.T) {
	opaque := image.NewRGBA(image.Rect(0, 0, 2, 1))
	opaque.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	opaque.Set(1, 0, color.RGBA{R: 40, G: 50, B: 60, A: 255})

	buf := FromImage(opaque)
	assert.Equal(t, 3, buf.Channels)
	assert.Equal(t, []uint8{10, 20, 30, 40, 50, 60}, buf.Pix)

	translucent := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	translucent.Set(5, 5, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	translucent.Set(6, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	buf = FromImage(translucent)
	require.Equal(t, 4, buf.Channels)
	assert.Equal(t, 2, buf.Width)
	c, a := buf.At(0, 0)
	assert.Equal(t, colorspace.RGB{R: 200, G: 100, B: 50}, c)
	assert.Equal(t, uint8(128), a)

	out := buf.Image()
	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 128}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, out.NRGBAAt(1, 0))
}

func TestUniqueAndRankColors(t *testing.T) {
	buf, err := NewBuffer(4, 1, 3)
	require.NoError(t, err)
	buf.Set(0, 0, colorspace.RGB{R: 9})
	buf.Set(1, 0, colorspace.RGB{B: 9})
	buf.Set(2, 0, colorspace.RGB{B: 9})

	m := UniqueColors(buf)
	assert.Equal(t, map[colorspace.RGB]int{
		{R: 9}: 1,
		{B: 9}: 2,
		{}:     1,
	}, m)

	ranked := RankColors(m)
	assert.Equal(t, ColorCountList{
		{colorspace.RGB{B: 9}, 2},
		{colorspace.RGB{}, 1},
		{colorspace.RGB{R: 9}, 1},
	}, ranked)
}

func TestSaveLoad(t *testing.T) {
	buf, err := NewBuffer(3, 3, 4)
	require.NoError(t, err)
	for i := 0; i < buf.Len(); i++ {
		buf.SetPixel(i, colorspace.RGB{R: uint8(i * 20), G: 100, B: 200})
		buf.Pix[i*4+3] = uint8(255 - i)
	}

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, Save(path, buf.Image()))

	got, err := LoadBuffer(path)
	require.NoError(t, err)
	assert.Equal(t, buf, got)

	_, err = Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
