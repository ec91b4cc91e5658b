/*
Copyright © 2019 Matt Muldowney <matt.muldowney@gmail.com>

*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmuldo/colormatch/distance"
	"github.com/mmuldo/colormatch/palette"
)

var (
	cfgFile string
	logger  = slog.New(slog.DiscardHandler)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "colormatch",
	Short: "Convert, compare and match colors",
	Long: `colormatch converts colors between RGB, HSL, L*a*b* and LCh, measures
perceptual color difference, finds the nearest named colors and 3D printing
filaments, quantizes images onto fixed palettes and builds desktop themes
from images.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetString("log_level"))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.colormatch.yaml)")
	pf.String("log-level", "warn", "log level: debug, info, warn or error")
	pf.StringP("metric", "m", "de2000", "distance metric: de2000, de94, de76, cmc or euclidean")
	pf.String("cmc", "2:1", "CMC l:c ratio")
	pf.String("dual-color-mode", "first", "dual-color filaments: first, last or mix")
	pf.String("user-colors", "", "JSON file of user named colors")

	viper.BindPFlag("log_level", pf.Lookup("log-level"))
	viper.BindPFlag("metric", pf.Lookup("metric"))
	viper.BindPFlag("cmc", pf.Lookup("cmc"))
	viper.BindPFlag("dual_color_mode", pf.Lookup("dual-color-mode"))
	viper.BindPFlag("user_colors", pf.Lookup("user-colors"))

	viper.SetDefault("gamut.tolerance", 0.01)
	viper.SetDefault("gamut.max_iterations", 20)
	viper.SetDefault("quantize.sample_cap", 10000)
	viper.SetDefault("quantize.iterations", 5)
	viper.SetDefault("quantize.seed", 1)
	viper.SetDefault("templates_dir", "templates")
	viper.SetDefault("palettes_dir", "")
	viper.SetDefault("themes_dir", defaultThemesDir())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".colormatch")
	}

	viper.SetEnvPrefix("colormatch")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func defaultThemesDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return "themes"
	}
	return filepath.Join(home, ".config", "colormatch", "themes")
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

// measure builds the configured distance measure. The metric names cmc21
// and cmc11 pick their ratio; otherwise the cmc setting applies.
func measure() (*distance.Measure, error) {
	name := viper.GetString("metric")
	m, err := distance.ParseMetric(name)
	if err != nil {
		return nil, err
	}
	ratio, ok := distance.CMCRatioFor(name)
	if !ok {
		ratio, err = distance.ParseCMCRatio(viper.GetString("cmc"))
		if err != nil {
			return nil, err
		}
	}
	return distance.New(m, distance.WithCMC(ratio))
}

func dualColorMode() (palette.DualColorMode, error) {
	return palette.ParseDualColorMode(viper.GetString("dual_color_mode"))
}
