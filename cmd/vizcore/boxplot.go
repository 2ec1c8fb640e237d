package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/vdobler/vizcore/boxchart"
	"github.com/vdobler/vizcore/stat"
	"github.com/vdobler/vizcore/table"
)

func newBoxPlotCmd(a *app) *cobra.Command {
	var (
		opts          boxchart.Options
		whisker       string
		where         string
		out           string
		width, height float64
	)

	cmd := &cobra.Command{
		Use:   "boxplot FILE",
		Short: "Compute box and whisker statistics per category",
		Long: `Compute box and whisker statistics of a numeric column grouped by a
category column of a CSV or XLSX file, and optionally export the chart.

Example: vizcore boxplot sales.csv --category region --value amount --whisker tukey --outliers --out sales.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := table.Open(args[0])
			if err != nil {
				return err
			}
			if where != "" {
				if t, err = filterRows(t, where); err != nil {
					return err
				}
			}

			opts.Whisker = a.cfg.Chart.Whisker
			if cmd.Flags().Changed("whisker") {
				if opts.Whisker, err = stat.ParseWhiskerPolicy(whisker); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("outliers") {
				opts.Outliers = a.cfg.Chart.ShowOutliers
			}

			chart, err := boxchart.Convert(t, opts)
			if err != nil {
				return err
			}
			a.log.Debug("chart converted", "boxes", len(chart.Boxes), "axis", fmt.Sprintf("%+v", chart.Axis))
			if err := printChart(cmd.OutOrStdout(), chart); err != nil {
				return err
			}

			if out == "" {
				return nil
			}
			if err := chart.Save(out, vg.Length(width)*vg.Centimeter, vg.Length(height)*vg.Centimeter); err != nil {
				return err
			}
			a.log.Info("chart saved", "file", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "", "Column to group by")
	cmd.Flags().StringVar(&opts.Value, "value", "", "Numeric column")
	cmd.Flags().StringVar(&whisker, "whisker", "minmax", "Whisker policy: minmax, tukey or iqr")
	cmd.Flags().BoolVar(&opts.Outliers, "outliers", false, "Report samples outside the whiskers")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "Annotate the exported chart with data labels")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Value format, e.g. #,0.00")
	cmd.Flags().StringVar(&opts.Title, "title", "", "Chart title")
	cmd.Flags().StringVar(&where, "where", "", "Only use rows where COLUMN=VALUE")
	cmd.Flags().StringVar(&out, "out", "", "Export the chart to this file (svg, png, pdf)")
	cmd.Flags().Float64Var(&width, "width", 16, "Chart width in cm")
	cmd.Flags().Float64Var(&height, "height", 10, "Chart height in cm")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("value")

	return cmd
}

// filterRows keeps the rows matching a COLUMN=VALUE condition. The value
// is compared with the formatted cell.
func filterRows(t *table.Table, cond string) (*table.Table, error) {
	name, value, ok := strings.Cut(cond, "=")
	if !ok {
		return nil, fmt.Errorf("--where wants COLUMN=VALUE, got %q", cond)
	}
	col, err := t.Index(strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	value = strings.TrimSpace(value)
	for _, row := range t.Rows {
		if table.Format(row[col], t.Columns[col].Format) == value {
			return t.Filter(col, row[col]), nil
		}
	}
	return t.Filter(col, value), nil
}

func printChart(w io.Writer, c *boxchart.Chart) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "category\tn\tmin\tq1\tmedian\tq3\tmax\taverage\toutliers\t")
	for _, b := range c.Boxes {
		q1, q3 := "-", "-"
		if b.HasQuartiles() {
			q1, q3 = c.Label(b.Quartile1), c.Label(b.Quartile3)
		}
		outliers := make([]string, len(b.Outliers))
		for i, o := range b.Outliers {
			outliers[i] = c.Label(o)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			b.Label, b.Samples, c.Label(b.Min), q1, c.Label(b.Median), q3,
			c.Label(b.Max), c.Label(b.Average), strings.Join(outliers, " "))
	}
	fmt.Fprintf(tw, "axis\t\t%s\t\t\t\t%s\t\tstep %s\t\n",
		c.Axis.Label(c.Axis.Min), c.Axis.Label(c.Axis.Max), c.Axis.Label(c.Axis.TickSize))
	return tw.Flush()
}
