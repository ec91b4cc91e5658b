package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmuldo/colormatch/colorspace"
	"github.com/mmuldo/colormatch/distance"
	"github.com/mmuldo/colormatch/image"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOutput(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    colorspace.RGB
		wantErr bool
	}{
		{"#FF7F50", colorspace.RGB{R: 255, G: 127, B: 80}, false},
		{"ff7f50", colorspace.RGB{R: 255, G: 127, B: 80}, false},
		{"#fff", colorspace.RGB{R: 255, G: 255, B: 255}, false},
		{"255, 127,80", colorspace.RGB{R: 255, G: 127, B: 80}, false},
		{"256,0,0", colorspace.RGB{}, true},
		{"1.5,0,0", colorspace.RGB{}, true},
		{"1,2", colorspace.RGB{}, true},
		{"#12345", colorspace.RGB{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMeasureFromConfig(t *testing.T) {
	t.Cleanup(func() {
		viper.Set("metric", "de2000")
		viper.Set("cmc", "2:1")
	})

	viper.Set("metric", "cmc11")
	ms, err := measure()
	require.NoError(t, err)
	assert.Equal(t, distance.MetricCMC, ms.Metric())
	assert.Equal(t, distance.CMCPerceptibility, ms.Options().CMC)

	viper.Set("metric", "cmc")
	viper.Set("cmc", "1.5:1")
	ms, err = measure()
	require.NoError(t, err)
	assert.Equal(t, distance.CMCRatio{L: 1.5, C: 1}, ms.Options().CMC)

	viper.Set("metric", "delta-x")
	_, err = measure()
	assert.ErrorIs(t, err, distance.ErrUnknownMetric)
}

func TestConvertCommand(t *testing.T) {
	out, err := run(t, "convert", "#FF7F50")
	require.NoError(t, err)
	assert.Contains(t, out, "hex: #FF7F50")
	assert.Contains(t, out, "rgb: 255, 127, 80")
	assert.Contains(t, out, "lab: 67.29")
}

func TestDeltaCommand(t *testing.T) {
	out, err := run(t, "delta", "#000000", "0,0,0")
	require.NoError(t, err)
	assert.Equal(t, "de2000: 0.0000\n", out)
}

func TestMatchCommand(t *testing.T) {
	out, err := run(t, "match", "#FF7F50", "--top", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "coral #FF7F50 (core)")

	dir := t.TempDir()
	user := filepath.Join(dir, "colors.json")
	require.NoError(t, os.WriteFile(user, []byte(`[{"name": "coral", "hex": "#FF7F51"}]`), 0o644))
	viper.Set("user_colors", user)
	t.Cleanup(func() { viper.Set("user_colors", "") })

	out, err = run(t, "match", "coral", "--name")
	require.NoError(t, err)
	assert.Contains(t, out, "coral #FF7F51 (user)")
}

func TestFilamentCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filaments.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"maker": "Bambu Lab", "type": "PLA", "finish": "Matte", "color": "Charcoal", "hex": "#333333"},
		{"maker": "Prusament", "type": "PETG", "color": "Orange", "hex": "#FF7F50", "td_value": 2.5}
	]`), 0o644))
	viper.Set("filaments", path)
	t.Cleanup(func() { viper.Set("filaments", "") })

	out, err := run(t, "filament", "#FF7F50")
	require.NoError(t, err)
	assert.Contains(t, out, "Prusament PETG - Orange #FF7F50 (TD: 2.5)")

	out, err = run(t, "filament", "--list", "makers")
	require.NoError(t, err)
	assert.Equal(t, "Bambu Lab\nPrusament\n", out)
}

func TestQuantizeCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")

	buf, err := image.NewBuffer(4, 4, 3)
	require.NoError(t, err)
	for i := 0; i < buf.Len(); i++ {
		v := uint8(i * 16)
		buf.SetPixel(i, colorspace.RGB{R: v, G: v, B: 255 - v})
	}
	require.NoError(t, image.Save(in, buf.Image()))

	stdout, err := run(t, "quantize", in, out, "--palette", "gameboy")
	require.NoError(t, err)
	assert.Contains(t, stdout, "out.png: 16 colors -> ")
	assert.Contains(t, stdout, "(cluster path)")

	got, err := image.LoadBuffer(out)
	require.NoError(t, err)
	shades := map[colorspace.RGB]bool{
		{R: 15, G: 56, B: 15}:   true,
		{R: 48, G: 98, B: 48}:   true,
		{R: 139, G: 172, B: 15}: true,
		{R: 155, G: 188, B: 15}: true,
	}
	for c := range image.UniqueColors(got) {
		assert.True(t, shades[c], "%v is not a gameboy shade", c)
	}

	// a palettes_dir file replaces the built-in palette of the same name
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gameboy.json"),
		[]byte(`[{"name": "black", "hex": "#000000"}, {"name": "white", "hex": "#FFFFFF"}]`), 0o644))
	viper.Set("palettes_dir", dir)
	t.Cleanup(func() { viper.Set("palettes_dir", "") })

	stdout, err = run(t, "quantize", "--list")
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^web\s+216 colors \(core\)$`, stdout)
	assert.Regexp(t, `(?m)^gameboy\s+2 colors \(user\)$`, stdout)
}

func TestCVDCommand(t *testing.T) {
	out, err := run(t, "cvd", "#FF0000", "--type", "protan")
	require.NoError(t, err)
	assert.Equal(t, "input: #FF0000 rgb(255, 0, 0)\noutput: #6D5F00 rgb(109, 95, 0)\nsimulated for protanopia (red-blind)\n", out)

	out, err = run(t, "cvd", "#FF0000", "--type", "protan", "--correct")
	require.NoError(t, err)
	assert.Contains(t, out, "output: #FF0766 rgb(255, 7, 102)")

	_, err = run(t, "cvd", "#FF0000", "--type", "mono")
	assert.Error(t, err)
}
