/*
Copyright © 2019 Matt Muldowney <matt.muldowney@gmail.com>

*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmuldo/colormatch/image"
	"github.com/mmuldo/colormatch/palette"
	"github.com/mmuldo/colormatch/quantize"
)

// quantizeCmd represents the quantize command
var quantizeCmd = &cobra.Command{
	Use:   "quantize <input> <output.png>",
	Short: "Maps an image onto a fixed palette",
	Long: `Maps every pixel of an image onto a fixed palette and writes the
result as png. --palette names a built-in palette (css, cga4, cga16, ega16,
ega64, web, gameboy) or one stored in palettes_dir, or gives a comma
separated list of hex colors. --list prints the available palettes.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := palettes()
		if err != nil {
			return err
		}
		if list, _ := cmd.Flags().GetBool("list"); list {
			for _, name := range reg.Names() {
				np, _ := reg.Get(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %4d colors (%s)\n", np.Name, len(np.Records), np.Source)
			}
			return nil
		}

		target, _ := cmd.Flags().GetString("palette")
		pal, err := quantizePalette(reg, target)
		if err != nil {
			return err
		}
		ms, err := measure()
		if err != nil {
			return err
		}
		q, err := quantize.New(pal,
			quantize.WithMeasure(ms),
			quantize.WithSampleCap(viper.GetInt("quantize.sample_cap")),
			quantize.WithIterations(viper.GetInt("quantize.iterations")),
			quantize.WithDither(viper.GetBool("quantize.dither")),
			quantize.WithSeed(viper.GetInt64("quantize.seed")),
			quantize.WithLogger(logger),
		)
		if err != nil {
			return err
		}

		buf, err := image.LoadBuffer(args[0])
		if err != nil {
			return err
		}
		res, err := q.Quantize(buf)
		if err != nil {
			return err
		}
		if err := image.Save(args[1], res.Buffer.Image()); err != nil {
			return err
		}
		logger.Info("quantized image",
			"input", args[0],
			"output", args[1],
			"palette", target,
			"path", res.Path,
			"unique_colors", res.UniqueColors,
			"converged", res.Converged,
		)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d colors -> %d (%s path)\n",
			args[1], res.UniqueColors, len(image.UniqueColors(res.Buffer)), res.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(quantizeCmd)

	quantizeCmd.Flags().String("palette", "css", "palette name or comma separated hex colors")
	quantizeCmd.Flags().Bool("list", false, "list the available palettes")
	quantizeCmd.Flags().Bool("dither", false, "Floyd-Steinberg dithering")
	quantizeCmd.Flags().Int("sample-cap", 10000, "k-means sample size")
	quantizeCmd.Flags().Int("iterations", 5, "k-means iterations")
	quantizeCmd.Flags().Int64("seed", 1, "random seed")
	quantizeCmd.Flags().String("palettes-dir", "", "directory of user palettes, one <name>.json each")

	viper.BindPFlag("quantize.dither", quantizeCmd.Flags().Lookup("dither"))
	viper.BindPFlag("quantize.sample_cap", quantizeCmd.Flags().Lookup("sample-cap"))
	viper.BindPFlag("quantize.iterations", quantizeCmd.Flags().Lookup("iterations"))
	viper.BindPFlag("quantize.seed", quantizeCmd.Flags().Lookup("seed"))
	viper.BindPFlag("palettes_dir", quantizeCmd.Flags().Lookup("palettes-dir"))
}

// quantizePalette resolves target as a registered palette name, falling
// back to a comma separated list of hex colors.
func quantizePalette(reg *palette.Palettes, target string) ([]palette.ColorRecord, error) {
	np, err := reg.Get(target)
	if err == nil {
		return np.Records, nil
	}
	if !strings.Contains(target, "#") && !strings.Contains(target, ",") {
		return nil, err
	}
	var out []palette.ColorRecord
	for _, s := range strings.Split(target, ",") {
		s = strings.TrimSpace(s)
		r, err := palette.ParseColorRecord(s, s, palette.SourceUser)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
