/*
Copyright © 2019 Matt Muldowney <matt.muldowney@gmail.com>

*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmuldo/colormatch/image"
	"github.com/mmuldo/colormatch/theme"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create <image> <theme>",
	Short: "Creates a new theme from image",
	Long: `Creates a new theme from image. The image is reduced to its dominant
colors, which are split into darks and lights and assigned to color0..N by
prevalence. Each role is also named after its nearest named color. The
theme is written as JSON to themes_dir.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		num, _ := cmd.Flags().GetInt("colors")
		transparency, _ := cmd.Flags().GetFloat64("transparency")

		i, e := image.Load(args[0])
		if e != nil {
			return e
		}
		cvs, e := theme.Extract(i, num)
		if e != nil {
			return fmt.Errorf("%s: %w", args[0], e)
		}
		p, e := theme.Delegate(cvs)
		if e != nil {
			return e
		}
		names, e := colorIndex()
		if e != nil {
			return e
		}
		t, e := theme.Create(p, names, map[string]interface{}{"transparency": transparency})
		if e != nil {
			return e
		}

		if e := theme.Preview(cmd.OutOrStdout(), p); e != nil {
			return e
		}
		return saveTheme(args[1], t)
	},
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().IntP("colors", "c", 16, "number of theme colors")
	createCmd.Flags().Float64("transparency", 1.0, "terminal transparency")
}

func saveTheme(name string, t theme.Theme) error {
	dir := viper.GetString("themes_dir")
	if e := os.MkdirAll(dir, 0o755); e != nil {
		return e
	}
	b, e := json.MarshalIndent(t, "", "  ")
	if e != nil {
		return e
	}
	path := filepath.Join(dir, name)
	if e := os.WriteFile(path, b, 0o644); e != nil {
		return e
	}
	logger.Info("theme saved", "path", path)
	return nil
}

func loadTheme(name string) (theme.Theme, error) {
	t := make(theme.Theme)
	if e := readJSON(filepath.Join(viper.GetString("themes_dir"), name), &t); e != nil {
		return nil, e
	}
	return t, nil
}
