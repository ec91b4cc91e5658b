/*
Copyright © 2019 Matt Muldowney <matt.muldowney@gmail.com>

*/
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmuldo/colormatch/palette"
)

// filamentCmd represents the filament command
var filamentCmd = &cobra.Command{
	Use:   "filament [color]",
	Short: "Finds the nearest 3D printing filaments",
	Long: `Finds the filaments nearest to a color, optionally filtered by maker,
type and finish. Maker filters accept the synonyms listed in the
maker_synonyms file; "*" disables a filter.

Without a color, --list makers|types|finishes prints the known values.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fx, err := filamentIndex()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if list, _ := cmd.Flags().GetString("list"); list != "" {
			var values []string
			switch list {
			case "makers":
				values = fx.Makers()
			case "types":
				values = fx.Types()
			case "finishes":
				values = fx.Finishes()
			default:
				return fmt.Errorf("cannot list %q: use makers, types or finishes", list)
			}
			fmt.Fprintln(out, strings.Join(values, "\n"))
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("a color is required unless --list is given")
		}

		target, err := parseColor(args[0])
		if err != nil {
			return err
		}
		ms, err := measure()
		if err != nil {
			return err
		}
		mode, err := dualColorMode()
		if err != nil {
			return err
		}
		makers, _ := cmd.Flags().GetStringSlice("maker")
		types, _ := cmd.Flags().GetStringSlice("type")
		finishes, _ := cmd.Flags().GetStringSlice("finish")
		top, _ := cmd.Flags().GetInt("top")

		ctx := palette.WithDualColorMode(context.Background(), mode)
		matches, err := fx.Nearest(ctx, target, ms, palette.Filter{Makers: makers, Types: types, Finishes: finishes}, top)
		if err != nil {
			return err
		}
		for _, m := range matches {
			fmt.Fprintf(out, "%s\t%.4f\n", m.Filament, m.Distance)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filamentCmd)

	filamentCmd.Flags().StringSlice("maker", nil, "maker filter")
	filamentCmd.Flags().StringSlice("type", nil, "filament type filter")
	filamentCmd.Flags().StringSlice("finish", nil, "finish filter")
	filamentCmd.Flags().IntP("top", "n", 1, "number of matches (max 50)")
	filamentCmd.Flags().String("list", "", "list makers, types or finishes")
	filamentCmd.Flags().String("filaments", "", "JSON file of core filaments")
	filamentCmd.Flags().String("user-filaments", "", "JSON file of user filaments")
	filamentCmd.Flags().String("maker-synonyms", "", "JSON file mapping makers to synonyms")

	viper.BindPFlag("filaments", filamentCmd.Flags().Lookup("filaments"))
	viper.BindPFlag("user_filaments", filamentCmd.Flags().Lookup("user-filaments"))
	viper.BindPFlag("maker_synonyms", filamentCmd.Flags().Lookup("maker-synonyms"))
}
