package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vdobler/vizcore/scale"
	"github.com/vdobler/vizcore/table"
)

func newAxisCmd(a *app) *cobra.Command {
	var file, column string

	cmd := &cobra.Command{
		Use:   "axis [MIN MAX]",
		Short: "Plan a value axis with round tick marks",
		Long: `Plan a value axis for the data range MIN..MAX, or for the range of a
numeric column of a CSV or XLSX file.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var min, max float64
			if file != "" {
				t, err := table.Open(file)
				if err != nil {
					return err
				}
				col, err := t.Index(column)
				if err != nil {
					return err
				}
				var ok bool
				if min, max, ok = t.MinMax(col); !ok {
					return fmt.Errorf("column %q: %w", column, table.ErrNotNumber)
				}
			} else {
				var err error
				if min, err = strconv.ParseFloat(args[0], 64); err != nil {
					return fmt.Errorf("min: %w", err)
				}
				if max, err = strconv.ParseFloat(args[1], 64); err != nil {
					return fmt.Errorf("max: %w", err)
				}
			}

			axis := scale.Plan(min, max)
			a.log.Debug("axis planned", "min", min, "max", max, "ticks", axis.TickCount)
			var labels []string
			for _, v := range axis.Values() {
				labels = append(labels, axis.Label(v))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "range %s .. %s, step %s\n%s\n",
				axis.Label(axis.Min), axis.Label(axis.Max), axis.Label(axis.TickSize),
				strings.Join(labels, " "))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Take the range from this CSV or XLSX file")
	cmd.Flags().StringVar(&column, "column", "", "Numeric column of --file")
	cmd.MarkFlagsRequiredTogether("file", "column")

	return cmd
}
