package colorspace

import (
	"math"
	"testing"

	"github.com/jkl1337/go-chromath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func channelDiff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

func TestRGBToLabKnownValues(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		lab  Lab
	}{
		{"Coral", RGB{255, 127, 80}, Lab{67.2950, 45.3543, 47.4934}},
		{"Red", RGB{255, 0, 0}, Lab{53.2408, 80.0925, 67.2032}},
		{"Blue", RGB{0, 0, 255}, Lab{32.2970, 79.1875, -107.8602}},
		{"Black", RGB{0, 0, 0}, Lab{0, 0, 0}},
		{"White", RGB{255, 255, 255}, Lab{100, 0, 0}},
		{"Gray", RGB{128, 128, 128}, Lab{53.5850, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RGBToLab(tt.rgb)
			assert.InDelta(t, tt.lab.L, got.L, 1e-3)
			assert.InDelta(t, tt.lab.A, got.A, 1e-3)
			assert.InDelta(t, tt.lab.B, got.B, 1e-3)
		})
	}
}

func TestLabRoundTrip(t *testing.T) {
	for r := 0; r < 256; r += 5 {
		for g := 0; g < 256; g += 5 {
			for b := 0; b < 256; b += 5 {
				in := RGB{uint8(r), uint8(g), uint8(b)}
				out, err := LabToRGB(RGBToLab(in))
				require.NoError(t, err, "rgb %v", in)
				if channelDiff(in.R, out.R) > 1 || channelDiff(in.G, out.G) > 1 || channelDiff(in.B, out.B) > 1 {
					t.Fatalf("lab round trip %v -> %v", in, out)
				}
			}
		}
	}
}

func TestLChRoundTrip(t *testing.T) {
	for _, in := range []RGB{{255, 127, 80}, {0, 0, 255}, {12, 200, 40}, {128, 128, 128}} {
		lch := RGBToLCh(in)
		lab, err := LChToLab(lch)
		require.NoError(t, err)
		out, err := LabToRGB(lab)
		require.NoError(t, err)
		assert.LessOrEqual(t, channelDiff(in.R, out.R), 1)
		assert.LessOrEqual(t, channelDiff(in.G, out.G), 1)
		assert.LessOrEqual(t, channelDiff(in.B, out.B), 1)
	}
}

func TestLabToLChHueRange(t *testing.T) {
	lch, err := LabToLCh(Lab{50, 10, -10})
	require.NoError(t, err)
	assert.InDelta(t, 315, lch.H, 1e-9)
	assert.InDelta(t, math.Sqrt(200), lch.C, 1e-9)

	lch, err = LabToLCh(Lab{50, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, lch.H)
}

func TestHSLRoundTrip(t *testing.T) {
	for r := 0; r < 256; r += 5 {
		for g := 0; g < 256; g += 5 {
			for b := 0; b < 256; b += 5 {
				in := RGB{uint8(r), uint8(g), uint8(b)}
				out, err := HSLToRGB(RGBToHSL(in))
				require.NoError(t, err)
				if channelDiff(in.R, out.R) > 1 || channelDiff(in.G, out.G) > 1 || channelDiff(in.B, out.B) > 1 {
					t.Fatalf("hsl round trip %v -> %v", in, out)
				}
			}
		}
	}
}

func TestRGBToHSLKnownValues(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		hsl  HSL
	}{
		{"Coral", RGB{255, 127, 80}, HSL{16.114, 100, 65.686}},
		{"Lime", RGB{0, 255, 0}, HSL{120, 100, 50}},
		{"Navy", RGB{0, 0, 128}, HSL{240, 100, 25.098}},
		{"Purple", RGB{128, 0, 128}, HSL{300, 100, 25.098}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RGBToHSL(tt.rgb)
			assert.InDelta(t, tt.hsl.H, got.H, 1e-2)
			assert.InDelta(t, tt.hsl.S, got.S, 1e-2)
			assert.InDelta(t, tt.hsl.L, got.L, 1e-2)
		})
	}
}

func TestGrayHueIsZero(t *testing.T) {
	for _, v := range []uint8{0, 1, 128, 254, 255} {
		hsl := RGBToHSL(RGB{v, v, v})
		assert.Equal(t, 0.0, hsl.H)
		assert.Equal(t, 0.0, hsl.S)
	}
}

func TestInvalidValues(t *testing.T) {
	_, err := LabToXYZ(Lab{math.NaN(), 0, 0})
	assert.ErrorIs(t, err, ErrInvalidColorValue)

	_, err = LabToRGB(Lab{120, 0, 0})
	assert.ErrorIs(t, err, ErrInvalidColorValue)

	_, err = HSLToRGB(HSL{10, 120, 50})
	assert.ErrorIs(t, err, ErrInvalidColorValue)

	_, err = RGBfToXYZ(RGBf{-1, 0, 0})
	assert.ErrorIs(t, err, ErrInvalidColorValue)

	_, err = LChToLab(LCh{50, -3, 0})
	assert.ErrorIs(t, err, ErrInvalidColorValue)

	var ive *InvalidColorValueError
	_, err = XYZToLab(XYZ{math.Inf(1), 0, 0})
	require.ErrorAs(t, err, &ive)
	assert.Equal(t, "xyz to lab", ive.Op)
}

func TestLabToRGBOutOfGamut(t *testing.T) {
	_, err := LabToRGB(Lab{50, 120, 120})
	assert.ErrorIs(t, err, ErrInvalidColorValue)

	f, err := LabToRGBf(Lab{50, 120, 120})
	require.NoError(t, err)
	assert.True(t, f.R > 255 || f.G < 0 || f.B < 0)
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
		ok   bool
	}{
		{"#FF7F50", RGB{255, 127, 80}, true},
		{"ff7f50", RGB{255, 127, 80}, true},
		{"#fff", RGB{255, 255, 255}, true},
		{" #000000 ", RGB{0, 0, 0}, true},
		{"#12345", RGB{}, false},
		{"#zzzzzz", RGB{}, false},
		{"#12345z", RGB{}, false},
		{"#1234 5", RGB{}, false},
		{"#ff7f5g", RGB{}, false},
		{"#-12345", RGB{}, false},
		{"#+12345", RGB{}, false},
		{"#ff", RGB{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidColorValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, mustParse(t, got.Hex()))
		})
	}
}

func mustParse(t *testing.T, s string) RGB {
	t.Helper()
	c, err := ParseHex(s)
	require.NoError(t, err)
	return c
}

func TestRGBToWinHSL(t *testing.T) {
	assert.Equal(t, WinHSL{0, 240, 120}, RGBToWinHSL(RGB{255, 0, 0}))
	assert.Equal(t, WinHSL{0, 0, 240}, RGBToWinHSL(RGB{255, 255, 255}))
}

func TestLabMatchesIlluminantD65(t *testing.T) {
	xyz := RGBToXYZ(RGB{255, 255, 255})
	assert.InDelta(t, chromath.IlluminantRefD65.XYZ.X()*100, xyz.X, 1e-3)
	assert.InDelta(t, 100.0, xyz.Y, 1e-3)
	assert.InDelta(t, chromath.IlluminantRefD65.XYZ.Z()*100, xyz.Z, 1e-3)

	rgb, err := LabToRGBf(Lab{50, 120, 0})
	require.NoError(t, err)
	assert.Greater(t, rgb.R, 255.0)
	assert.Less(t, rgb.G, 0.0)
}
