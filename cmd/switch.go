/*
Copyright © 2019 Matt Muldowney <matt.muldowney@gmail.com>

*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmuldo/colormatch/theme"
)

// targets maps a supported terminal to its config file, relative to both
// templates_dir and the home directory.
var targets = map[string]string{
	"termite":   filepath.Join(".config", "termite", "config"),
	"alacritty": filepath.Join(".config", "alacritty", "alacritty.toml"),
	"kitty":     filepath.Join(".config", "kitty", "theme.conf"),
}

// switchCmd represents the switch command
var switchCmd = &cobra.Command{
	Use:   "switch <theme>",
	Short: "Applies a saved theme to a terminal",
	Long: `Renders the terminal's config template from templates_dir with a theme
saved by create, and writes it into the terminal's config file under the
home directory. Templates use pongo2 syntax, e.g. {{ color0 }}.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		terminal := viper.GetString("terminal")
		rel, ok := targets[terminal]
		if !ok {
			return fmt.Errorf("'%s' is not a supported app", terminal)
		}
		home, e := homedir.Dir()
		if e != nil {
			return e
		}
		t, e := loadTheme(args[0])
		if e != nil {
			return e
		}
		return template(filepath.Join(viper.GetString("templates_dir"), rel), filepath.Join(home, rel), t)
	},
}

func init() {
	rootCmd.AddCommand(switchCmd)

	switchCmd.Flags().StringP("terminal", "t", "", "user terminal")
	viper.BindPFlag("terminal", switchCmd.Flags().Lookup("terminal"))
}

func template(src, dst string, t theme.Theme) error {
	o, e := theme.RenderFile(src, t)
	if e != nil {
		return e
	}
	if e := os.MkdirAll(filepath.Dir(dst), 0o755); e != nil {
		return e
	}
	if e := os.WriteFile(dst, []byte(o), 0o644); e != nil {
		return e
	}
	logger.Info("theme applied", "template", src, "config", dst)
	return nil
}
