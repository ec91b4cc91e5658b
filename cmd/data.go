/*
Copyright © 2019 Matt Muldowney <matt.muldowney@gmail.com>

*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/mmuldo/colormatch/colorspace"
	"github.com/mmuldo/colormatch/palette"
)

type colorEntry struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

type filamentEntry struct {
	ID         string   `json:"id"`
	Maker      string   `json:"maker"`
	Type       string   `json:"type"`
	Finish     string   `json:"finish"`
	Color      string   `json:"color"`
	Hex        string   `json:"hex"`
	TD         *float64 `json:"td_value"`
	OtherNames []string `json:"other_names"`
}

func readJSON(path string, v interface{}) error {
	f, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(f, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func loadColors(path string) ([]palette.ColorRecord, error) {
	if path == "" {
		return nil, nil
	}
	var entries []colorEntry
	if err := readJSON(path, &entries); err != nil {
		return nil, err
	}
	out := make([]palette.ColorRecord, 0, len(entries))
	for _, e := range entries {
		r, err := palette.ParseColorRecord(e.Name, e.Hex, palette.SourceUser)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// colorIndex merges the CSS colors with the configured user colors.
func colorIndex() (*palette.Index, error) {
	user, err := loadColors(viper.GetString("user_colors"))
	if err != nil {
		return nil, err
	}
	ix := palette.New(palette.CSS(), user)
	for _, o := range ix.Overrides() {
		logger.Info("user color overrides core color", "key", o.Key, "core", o.Core.Name, "user", o.User.Name)
	}
	return ix, nil
}

// palettes registers the built-in palettes plus every *.json file in
// palettes_dir, each named after its file.
func palettes() (*palette.Palettes, error) {
	var user []palette.NamedPalette
	if dir := viper.GetString("palettes_dir"); dir != "" {
		paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			records, err := loadColors(path)
			if err != nil {
				return nil, err
			}
			user = append(user, palette.NamedPalette{
				Name:    strings.TrimSuffix(filepath.Base(path), ".json"),
				Records: records,
			})
		}
	}
	reg := palette.NewPalettes(palette.BuiltinPalettes(), user)
	for _, name := range reg.Overrides() {
		logger.Info("user palette overrides core palette", "name", name)
	}
	return reg, nil
}

func loadFilaments(path string) ([]palette.FilamentRecord, error) {
	if path == "" {
		return nil, nil
	}
	var entries []filamentEntry
	if err := readJSON(path, &entries); err != nil {
		return nil, err
	}
	out := make([]palette.FilamentRecord, 0, len(entries))
	for _, e := range entries {
		id := e.ID
		if id == "" {
			id = strings.ToLower(strings.Join([]string{e.Maker, e.Type, e.Finish, e.Color}, "-"))
		}
		f, err := palette.NewFilamentRecord(id, e.Maker, e.Type, e.Finish, e.Color, e.Hex)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		f.TD = e.TD
		f.OtherNames = e.OtherNames
		out = append(out, f)
	}
	return out, nil
}

// filamentIndex merges the configured core and user filament files.
func filamentIndex() (*palette.FilamentIndex, error) {
	core, err := loadFilaments(viper.GetString("filaments"))
	if err != nil {
		return nil, err
	}
	user, err := loadFilaments(viper.GetString("user_filaments"))
	if err != nil {
		return nil, err
	}
	var synonyms map[string][]string
	if path := viper.GetString("maker_synonyms"); path != "" {
		if err := readJSON(path, &synonyms); err != nil {
			return nil, err
		}
	}
	fx := palette.NewFilamentIndex(core, user, synonyms)
	for _, o := range fx.Overrides() {
		logger.Info("user filament overrides core filament", "id", o.User.ID)
	}
	return fx, nil
}

// parseColor reads "#rrggbb", "rrggbb", "#rgb" or "r,g,b".
func parseColor(s string) (colorspace.RGB, error) {
	if !strings.Contains(s, ",") {
		return colorspace.ParseHex(s)
	}
	v, err := parseTriple(s)
	if err != nil {
		return colorspace.RGB{}, err
	}
	for _, c := range v {
		if c < 0 || c > 255 || c != float64(int(c)) {
			return colorspace.RGB{}, fmt.Errorf("rgb %q: channels must be integers in 0-255", s)
		}
	}
	return colorspace.RGB{R: uint8(v[0]), G: uint8(v[1]), B: uint8(v[2])}, nil
}

// parseTriple reads three comma separated numbers.
func parseTriple(s string) ([3]float64, error) {
	var out [3]float64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return out, fmt.Errorf("%q: want three comma separated values", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return out, fmt.Errorf("%q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}
