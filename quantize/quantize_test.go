package quantize

import (
	"bytes"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmuldo/colormatch/colorspace"
	"github.com/mmuldo/colormatch/distance"
	"github.com/mmuldo/colormatch/image"
	"github.com/mmuldo/colormatch/palette"
)

func rgbPalette(colors ...colorspace.RGB) []palette.ColorRecord {
	out := make([]palette.ColorRecord, len(colors))
	for i, c := range colors {
		out[i] = palette.NewColorRecord(c.Hex(), c, palette.SourceCore)
	}
	return out
}

var fourColors = rgbPalette(
	colorspace.RGB{R: 200, G: 30, B: 30},
	colorspace.RGB{R: 30, G: 160, B: 40},
	colorspace.RGB{R: 20, G: 30, B: 150},
	colorspace.RGB{R: 240, G: 240, B: 230},
)

// quadrants fills a size x size image with four noisy color blocks.
func quadrants(t *testing.T, size, channels int) *image.Buffer {
	t.Helper()
	buf, err := image.NewBuffer(size, size, channels)
	require.NoError(t, err)
	bases := []colorspace.RGB{{R: 220, G: 20, B: 20}, {R: 20, G: 180, B: 20}, {R: 10, G: 10, B: 170}, {R: 250, G: 250, B: 250}}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			q := 0
			if x >= size/2 {
				q++
			}
			if y >= size/2 {
				q += 2
			}
			n := uint8((x + y) % 5)
			b := bases[q]
			buf.Set(x, y, colorspace.RGB{R: b.R - n, G: b.G + n, B: b.B + n})
		}
	}
	return buf
}

func colorsOf(buf *image.Buffer) map[colorspace.RGB]int {
	return image.UniqueColors(buf)
}

func TestNoCollapse(t *testing.T) {
	buf, err := image.NewBuffer(2, 2, 3)
	require.NoError(t, err)
	// all four colors are nearest to the same palette entry
	buf.Set(0, 0, colorspace.RGB{R: 210, G: 40, B: 40})
	buf.Set(1, 0, colorspace.RGB{R: 190, G: 20, B: 20})
	buf.Set(0, 1, colorspace.RGB{R: 220, G: 50, B: 50})
	buf.Set(1, 1, colorspace.RGB{R: 180, G: 30, B: 30})

	q, err := New(fourColors)
	require.NoError(t, err)
	res, err := q.Quantize(buf)
	require.NoError(t, err)

	assert.Equal(t, PathDirect, res.Path)
	assert.Equal(t, 4, res.UniqueColors)
	assert.Len(t, colorsOf(res.Buffer), 4)
	assert.True(t, res.Converged)
}

func TestDirectPathPairsByLightness(t *testing.T) {
	buf, err := image.NewBuffer(2, 1, 3)
	require.NoError(t, err)
	buf.Set(0, 0, colorspace.RGB{R: 10, G: 10, B: 10})
	buf.Set(1, 0, colorspace.RGB{R: 245, G: 245, B: 245})

	q, err := New(fourColors)
	require.NoError(t, err)
	res, err := q.Quantize(buf)
	require.NoError(t, err)

	// darkest and lightest palette entries
	assert.Equal(t, colorspace.RGB{R: 20, G: 30, B: 150}, res.Mapping[colorspace.RGB{R: 10, G: 10, B: 10}])
	assert.Equal(t, colorspace.RGB{R: 240, G: 240, B: 230}, res.Mapping[colorspace.RGB{R: 245, G: 245, B: 245}])
}

func TestPaletteCoverage(t *testing.T) {
	for _, sampleCap := range []int{10000, 200} {
		q, err := New(fourColors, WithSampleCap(sampleCap))
		require.NoError(t, err)

		res, err := q.Quantize(quadrants(t, 40, 3))
		require.NoError(t, err)
		assert.Equal(t, PathCluster, res.Path)
		assert.Greater(t, res.UniqueColors, len(fourColors))

		got := colorsOf(res.Buffer)
		require.Len(t, got, 4, "sample cap %d", sampleCap)
		for _, p := range fourColors {
			assert.Contains(t, got, p.RGB)
		}
		// each block maps onto its own hue
		c, _ := res.Buffer.At(0, 0)
		assert.Equal(t, fourColors[0].RGB, c)
		c, _ = res.Buffer.At(39, 39)
		assert.Equal(t, fourColors[3].RGB, c)
	}
}

func TestOutputUsesOnlyPaletteColors(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	buf, err := image.NewBuffer(30, 20, 3)
	require.NoError(t, err)
	rng.Read(buf.Pix)

	allowed := make(map[colorspace.RGB]bool)
	for _, p := range fourColors {
		allowed[p.RGB] = true
	}

	for _, dither := range []bool{false, true} {
		q, err := New(fourColors, WithDither(dither), WithMeasure(distance.MustNew(distance.MetricDE76)))
		require.NoError(t, err)
		res, err := q.Quantize(buf)
		require.NoError(t, err)
		assert.Equal(t, buf.Width, res.Buffer.Width)
		assert.Equal(t, buf.Height, res.Buffer.Height)
		for c := range colorsOf(res.Buffer) {
			assert.True(t, allowed[c], "unexpected color %v", c)
		}
	}
}

func TestDitherDeterminism(t *testing.T) {
	buf := quadrants(t, 32, 3)
	for i := range buf.Pix {
		buf.Pix[i] = uint8((int(buf.Pix[i]) + i*37) % 256)
	}

	run := func() []uint8 {
		q, err := New(fourColors, WithDither(true), WithSeed(42))
		require.NoError(t, err)
		res, err := q.Quantize(buf)
		require.NoError(t, err)
		return res.Buffer.Pix
	}
	first := run()
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, run())
	}
}

func TestDitherSpreadsError(t *testing.T) {
	// a flat mid gray between black and white dithers into both
	buf, err := image.NewBuffer(8, 8, 3)
	require.NoError(t, err)
	for i := 0; i < buf.Len(); i++ {
		buf.SetPixel(i, colorspace.RGB{R: 128, G: 128, B: 128})
	}
	bw := rgbPalette(colorspace.RGB{}, colorspace.RGB{R: 255, G: 255, B: 255})

	plain, err := New(bw)
	require.NoError(t, err)
	res, err := plain.Quantize(buf)
	require.NoError(t, err)
	assert.Len(t, colorsOf(res.Buffer), 1)

	dithered, err := New(bw, WithDither(true))
	require.NoError(t, err)
	res, err = dithered.Quantize(buf)
	require.NoError(t, err)
	got := colorsOf(res.Buffer)
	assert.Len(t, got, 2)
	assert.InDelta(t, 32, got[colorspace.RGB{R: 255, G: 255, B: 255}], 8)
}

func TestAlphaPreserved(t *testing.T) {
	buf := quadrants(t, 16, 4)
	for i := 0; i < buf.Len(); i++ {
		buf.Pix[i*4+3] = uint8(i % 256)
	}
	orig := buf.Clone()

	for _, dither := range []bool{false, true} {
		q, err := New(fourColors, WithDither(dither))
		require.NoError(t, err)
		res, err := q.Quantize(buf)
		require.NoError(t, err)
		require.Equal(t, 4, res.Buffer.Channels)
		for i := 0; i < buf.Len(); i++ {
			assert.Equal(t, orig.Pix[i*4+3], res.Buffer.Pix[i*4+3])
		}
	}
	assert.Equal(t, orig, buf, "input must not be modified")
}

func TestConvergenceLimitIsLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	q, err := New(fourColors, WithIterations(1), WithLogger(logger))
	require.NoError(t, err)
	res, err := q.Quantize(quadrants(t, 20, 3))
	require.NoError(t, err)

	assert.False(t, res.Converged)
	assert.Contains(t, logs.String(), "convergence limit reached")
	assert.Contains(t, logs.String(), "path=cluster")
}

func TestEmptyImage(t *testing.T) {
	buf, err := image.NewBuffer(0, 0, 3)
	require.NoError(t, err)
	q, err := New(fourColors)
	require.NoError(t, err)
	res, err := q.Quantize(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, res.UniqueColors)
	assert.Empty(t, res.Buffer.Pix)
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptyPalette)
	_, err = New(fourColors, WithSampleCap(0))
	assert.Error(t, err)
	_, err = New(fourColors, WithIterations(0))
	assert.Error(t, err)

	q, err := New(fourColors)
	require.NoError(t, err)
	assert.Equal(t, distance.MetricDE2000, q.Options().Measure.Metric())
	assert.NotNil(t, q.Options().Logger)
}

func TestLloydKeepsEmptyCluster(t *testing.T) {
	samples := []vec3{{0, 0, 0}, {0, 0, 0}, {10, 10, 10}}
	centroids := []vec3{{1, 1, 1}, {9, 9, 9}, {200, 200, 200}}

	assert.True(t, lloyd(samples, centroids, 5))
	assert.Equal(t, vec3{0, 0, 0}, centroids[0])
	assert.Equal(t, vec3{10, 10, 10}, centroids[1])
	assert.Equal(t, vec3{200, 200, 200}, centroids[2])
}

func TestInitCentroidsSpreads(t *testing.T) {
	var samples []vec3
	for i := 0; i < 50; i++ {
		samples = append(samples, vec3{0, 0, float64(i % 2)}, vec3{255, 255, float64(i % 2)})
	}
	centroids := initCentroids(samples, 2, rand.New(rand.NewSource(3)), nil)
	assert.NotEqual(t, centroids[0][0], centroids[1][0])

	// fewer distinct colors than centroids anywhere
	dup := initCentroids([]vec3{{5, 5, 5}}, 3, rand.New(rand.NewSource(3)), []vec3{{5, 5, 5}})
	assert.Equal(t, []vec3{{5, 5, 5}, {5, 5, 5}, {5, 5, 5}}, dup)
}

func TestInitCentroidsFallsBackToUnsampledColors(t *testing.T) {
	var samples []vec3
	for i := 0; i < 40; i++ {
		samples = append(samples, vec3{0, 0, 0}, vec3{255, 255, 255})
	}
	fallback := []vec3{{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {0, 0, 255}, {0, 255, 0}}

	centroids := initCentroids(samples, 4, rand.New(rand.NewSource(1)), fallback)
	assert.ElementsMatch(t, []vec3{{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {0, 0, 255}}, centroids)
}

func TestClusterKeepsRareColors(t *testing.T) {
	rare := []colorspace.RGB{
		{R: 255}, {G: 255}, {B: 255}, {R: 255, G: 255},
		{G: 255, B: 255}, {R: 255, B: 255}, {R: 128, G: 64}, {R: 64, B: 128},
	}
	pal := rgbPalette(
		colorspace.RGB{},
		colorspace.RGB{R: 255, G: 255, B: 255},
		colorspace.RGB{R: 200, G: 30, B: 30},
		colorspace.RGB{R: 20, G: 30, B: 150},
	)

	for _, sampleCap := range []int{10000, 100} {
		buf, err := image.NewBuffer(200, 200, 3)
		require.NoError(t, err)
		for y := 0; y < 200; y++ {
			for x := 100; x < 200; x++ {
				buf.Set(x, y, colorspace.RGB{R: 255, G: 255, B: 255})
			}
		}
		for i, c := range rare {
			buf.Set(10+i*20, 50, c)
		}

		q, err := New(pal, WithSampleCap(sampleCap))
		require.NoError(t, err)
		res, err := q.Quantize(buf)
		require.NoError(t, err)

		assert.Equal(t, PathCluster, res.Path)
		assert.Equal(t, 10, res.UniqueColors)
		assert.Len(t, colorsOf(res.Buffer), 4, "sample cap %d", sampleCap)
	}
}
