/*
Copyright © 2019 Matt Muldowney <matt.muldowney@gmail.com>

*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmuldo/colormatch/colorspace"
	"github.com/mmuldo/colormatch/gamut"
	"github.com/mmuldo/colormatch/palette"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <color>",
	Short: "Shows a color in every supported space",
	Long: `Shows a color as hex, RGB, HSL, L*a*b* and LCh.

The color is a hex string or "r,g,b". With --from hsl, lab or lch it is
read as three comma separated values in that space instead; L*a*b* and LCh
inputs outside the sRGB gamut are clamped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		rgb, err := readColor(args[0], from)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		lab := colorspace.RGBToLab(rgb)
		lch := colorspace.RGBToLCh(rgb)
		hsl := colorspace.RGBToHSL(rgb)
		win := colorspace.RGBToWinHSL(rgb)
		fmt.Fprintf(out, "hex: %s\n", rgb.Hex())
		fmt.Fprintf(out, "rgb: %d, %d, %d\n", rgb.R, rgb.G, rgb.B)
		fmt.Fprintf(out, "hsl: %.2f, %.2f, %.2f\n", hsl.H, hsl.S, hsl.L)
		fmt.Fprintf(out, "winhsl: %d, %d, %d\n", win.H, win.S, win.L)
		fmt.Fprintf(out, "lab: %.4f, %.4f, %.4f\n", lab.L, lab.A, lab.B)
		fmt.Fprintf(out, "lch: %.4f, %.4f, %.4f\n", lch.L, lch.C, lch.H)
		return nil
	},
}

// deltaCmd represents the delta command
var deltaCmd = &cobra.Command{
	Use:   "delta <reference> <sample>",
	Short: "Measures the difference between two colors",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ms, err := measure()
		if err != nil {
			return err
		}
		a, err := parseColor(args[0])
		if err != nil {
			return err
		}
		b, err := parseColor(args[1])
		if err != nil {
			return err
		}
		d, err := ms.Lab(colorspace.RGBToLab(a), colorspace.RGBToLab(b))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %.4f\n", ms, d)
		return nil
	},
}

// gamutCmd represents the gamut command
var gamutCmd = &cobra.Command{
	Use:   "gamut <L,a,b>",
	Short: "Checks a L*a*b* color against the sRGB gamut",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := parseTriple(args[0])
		if err != nil {
			return err
		}
		m, err := mapper()
		if err != nil {
			return err
		}
		lab := colorspace.Lab{L: v[0], A: v[1], B: v[2]}
		in, err := m.InGamut(lab)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "in gamut: %t\n", in)
		if in {
			return nil
		}
		clamped, err := m.Clamp(lab)
		if errors.Is(err, colorspace.ErrConvergenceLimitReached) {
			logger.Warn("gamut clamp is approximate", "err", err)
		} else if err != nil {
			return err
		}
		rgb, err := m.ToRGB(clamped)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "clamped: %.4f, %.4f, %.4f (%s)\n", clamped.L, clamped.A, clamped.B, rgb.Hex())
		return nil
	},
}

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match <color>",
	Short: "Finds the nearest named colors",
	Long: `Finds the named colors nearest to a color. The CSS colors are always
loaded; user colors from the user_colors file override them by name and RGB.

With --name the argument is looked up by name instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, err := colorIndex()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if byName, _ := cmd.Flags().GetBool("name"); byName {
			r, ok := ix.ByName(args[0])
			if !ok {
				return fmt.Errorf("%w for name %q", palette.ErrNoMatchFound, args[0])
			}
			fmt.Fprintln(out, r)
			return nil
		}

		spaceName, _ := cmd.Flags().GetString("space")
		space, err := palette.ParseSpace(spaceName)
		if err != nil {
			return err
		}
		from, _ := cmd.Flags().GetString("from")
		rgb, err := readColor(args[0], from)
		if err != nil {
			return err
		}
		ms, err := measure()
		if err != nil {
			return err
		}
		top, _ := cmd.Flags().GetInt("top")

		var target [3]float64
		switch space {
		case palette.SpaceRGB:
			target = rgb.Vec()
		case palette.SpaceHSL:
			target = colorspace.RGBToHSL(rgb).Vec()
		case palette.SpaceLab:
			target = colorspace.RGBToLab(rgb).Vec()
		case palette.SpaceLCh:
			target = colorspace.RGBToLCh(rgb).Vec()
		}
		matches, err := ix.Nearest(palette.Query{Target: target, Space: space, Measure: ms, TopN: top})
		if err != nil {
			return err
		}
		for _, m := range matches {
			fmt.Fprintf(out, "%s\t%.4f\n", m.Record, m.Distance)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(deltaCmd)
	rootCmd.AddCommand(gamutCmd)
	rootCmd.AddCommand(matchCmd)

	convertCmd.Flags().String("from", "rgb", "input space: rgb, hsl, lab or lch")

	gamutCmd.Flags().Float64("tolerance", 0.01, "channel overshoot tolerance")
	gamutCmd.Flags().Int("max-iterations", 20, "chroma search iteration cap")
	viper.BindPFlag("gamut.tolerance", gamutCmd.Flags().Lookup("tolerance"))
	viper.BindPFlag("gamut.max_iterations", gamutCmd.Flags().Lookup("max-iterations"))

	matchCmd.Flags().String("space", "lab", "comparison space: rgb, hsl, lab or lch")
	matchCmd.Flags().String("from", "rgb", "input space: rgb, hsl, lab or lch")
	matchCmd.Flags().IntP("top", "n", 1, "number of matches (max 50)")
	matchCmd.Flags().Bool("name", false, "look the argument up by name")
}

func mapper() (*gamut.Mapper, error) {
	return gamut.New(
		gamut.WithTolerance(viper.GetFloat64("gamut.tolerance")),
		gamut.WithMaxIterations(viper.GetInt("gamut.max_iterations")),
	)
}

// readColor parses s as an RGB color, or as three values in space from.
func readColor(s, from string) (colorspace.RGB, error) {
	space, err := palette.ParseSpace(from)
	if err != nil {
		return colorspace.RGB{}, err
	}
	if space == palette.SpaceRGB {
		return parseColor(s)
	}
	v, err := parseTriple(s)
	if err != nil {
		return colorspace.RGB{}, err
	}
	switch space {
	case palette.SpaceHSL:
		return colorspace.HSLToRGB(colorspace.HSL{H: v[0], S: v[1], L: v[2]})
	case palette.SpaceLCh:
		lab, err := colorspace.LChToLab(colorspace.LCh{L: v[0], C: v[1], H: v[2]})
		if err != nil {
			return colorspace.RGB{}, err
		}
		v = lab.Vec()
	}
	m, err := mapper()
	if err != nil {
		return colorspace.RGB{}, err
	}
	return m.ToRGB(colorspace.Lab{L: v[0], A: v[1], B: v[2]})
}
