package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vdobler/vizcore/hierarchy"
	"github.com/vdobler/vizcore/slicer"
	"github.com/vdobler/vizcore/store"
	"github.com/vdobler/vizcore/table"
)

func newSlicerCmd(a *app) *cobra.Command {
	var (
		opts      slicer.Options
		mode      string
		toggles   []string
		expands   []string
		search    string
		expandAll bool
		clearSel  bool
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "slicer FILE",
		Short: "Build a hierarchy slicer and print its nodes and filter",
		Long: `Build a hierarchy slicer over the --levels columns of a CSV or XLSX
file, apply selection and expansion toggles and print the tree together
with the filter it emits. Selection and expansion are persisted in the
configured store under --visual, so successive runs continue where the
last one stopped.

Example: vizcore slicer geo.csv --levels region,country,city --toggle Europe-0_France-1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			opts.Mode = a.cfg.Slicer.Mode
			if cmd.Flags().Changed("mode") {
				m, err := hierarchy.ParseMode(mode)
				if err != nil {
					return err
				}
				opts.Mode = m
			}
			if !cmd.Flags().Changed("self-filter") {
				opts.SelfFilter = a.cfg.Slicer.SelfFilter
			}
			if opts.Visual == "" {
				opts.Visual = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			t, err := table.Open(args[0])
			if err != nil {
				return err
			}
			st, err := store.Open(ctx, a.cfg.Database.Driver, a.cfg.Database.DSN)
			if err != nil {
				return err
			}
			if c, ok := st.(io.Closer); ok {
				defer c.Close()
			}

			sess, err := slicer.New(opts, st, a.log)
			if err != nil {
				return err
			}
			if err := sess.Update(ctx, t); err != nil {
				return err
			}
			if clearSel {
				if err := sess.Clear(ctx); err != nil {
					return err
				}
			}
			if expandAll {
				if err := sess.ExpandAll(ctx); err != nil {
					return err
				}
			}
			for _, id := range expands {
				ok, err := sess.ToggleExpanded(ctx, id)
				if err != nil {
					return err
				}
				if !ok {
					a.log.Warn("node not expandable", "node", id)
				}
			}
			if search != "" {
				if err := sess.Search(ctx, search); err != nil {
					return err
				}
			}
			for _, id := range toggles {
				ok, err := sess.Toggle(ctx, id)
				if err != nil {
					return err
				}
				if !ok {
					a.log.Warn("unknown node", "node", id)
				}
			}

			snap, err := sess.Snapshot()
			if err != nil {
				return err
			}
			printSnapshot(cmd.OutOrStdout(), snap, all)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&opts.Levels, "levels", nil, "Hierarchy columns, top level first")
	cmd.Flags().StringVar(&opts.Visual, "visual", "", "Key of the persisted state (default file name)")
	cmd.Flags().StringVar(&mode, "mode", "single", "Selection mode: single or multi")
	cmd.Flags().BoolVar(&opts.SelfFilter, "self-filter", false, "Allow --search")
	cmd.Flags().StringArrayVar(&toggles, "toggle", nil, "Toggle the selection of a node (repeatable)")
	cmd.Flags().StringArrayVar(&expands, "expand", nil, "Toggle the expansion of a node (repeatable)")
	cmd.Flags().StringVar(&search, "search", "", "Restrict the tree to nodes matching a term")
	cmd.Flags().BoolVar(&expandAll, "expand-all", false, "Expand every node first")
	cmd.Flags().BoolVar(&clearSel, "clear", false, "Clear the persisted selection first")
	cmd.Flags().BoolVar(&all, "all", false, "Print hidden nodes too")
	cmd.MarkFlagRequired("levels")

	return cmd
}

func printSnapshot(w io.Writer, snap slicer.Snapshot, all bool) {
	for _, n := range snap.Nodes {
		if n.Hidden && !all {
			continue
		}
		mark := "[ ]"
		if n.Selected {
			mark = "[x]"
		}
		fold := " "
		switch {
		case n.Leaf:
		case n.Expanded:
			fold = "-"
		default:
			fold = "+"
		}
		fmt.Fprintf(w, "%s%s %s %s  (%s)\n", strings.Repeat("  ", n.Level), fold, mark, n.Label, n.ID)
	}
	if snap.Filter == nil {
		fmt.Fprintln(w, "filter: none")
		return
	}
	fmt.Fprintf(w, "filter: %s\n", snap.Filter)
}
