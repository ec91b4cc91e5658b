/*
Copyright © 2019 Matt Muldowney <matt.muldowney@gmail.com>

*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmuldo/colormatch/colorspace"
	"github.com/mmuldo/colormatch/cvd"
	"github.com/mmuldo/colormatch/image"
)

// cvdCmd represents the cvd command
var cvdCmd = &cobra.Command{
	Use:   "cvd <color> | cvd <input> <output.png>",
	Short: "Simulates or corrects color vision deficiency",
	Long: `Shows how a color looks to a viewer with protanopia, deuteranopia or
tritanopia, or with --correct shifts it so that viewer can tell it apart.
Given two arguments, the input image is processed and written as png.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("type")
		d, err := cvd.ParseDeficiency(kind)
		if err != nil {
			return err
		}
		f, mode := cvd.Simulate, "simulated for"
		if correct, _ := cmd.Flags().GetBool("correct"); correct {
			f, mode = cvd.Correct, "corrected for"
		}

		if len(args) == 2 {
			buf, err := image.LoadBuffer(args[0])
			if err != nil {
				return err
			}
			out, err := cvd.Apply(buf, d, f)
			if err != nil {
				return err
			}
			if err := image.Save(args[1], out.Image()); err != nil {
				return err
			}
			logger.Info("cvd image written", "input", args[0], "output", args[1], "deficiency", d)
			return nil
		}

		rgb, err := parseColor(args[0])
		if err != nil {
			return err
		}
		res, err := f(rgb, d)
		if err != nil {
			return err
		}
		printCVD(cmd, rgb, res, mode, d)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cvdCmd)

	cvdCmd.Flags().StringP("type", "t", "deuteranopia", "protanopia, deuteranopia or tritanopia")
	cvdCmd.Flags().Bool("correct", false, "correct instead of simulate")
}

func printCVD(cmd *cobra.Command, in, out colorspace.RGB, mode string, d cvd.Deficiency) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "input: %s %s\n", in.Hex(), in)
	fmt.Fprintf(w, "output: %s %s\n", out.Hex(), out)
	fmt.Fprintf(w, "%s %s\n", mode, d.Describe())
}
