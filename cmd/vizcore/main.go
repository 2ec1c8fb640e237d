package main

import (
	"fmt"
	"log/slog"
	"os"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/vdobler/vizcore/internal/config"
)

// app carries what every command needs.
type app struct {
	cfg *config.Config
	log *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "vizcore",
		Short:         "Box and whisker statistics and hierarchy slicers for tabular data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel}))
			slog.SetDefault(a.log)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "dotenv file with VIZCORE_* settings (default ./.env if present)")

	rootCmd.AddCommand(
		newBoxPlotCmd(a),
		newAxisCmd(a),
		newSlicerCmd(a),
		newServeCmd(a),
	)
	return rootCmd
}
