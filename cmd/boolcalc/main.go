// Package main is the entry point for the boolcalc command.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/boolcalc/pkg/config"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errReported marks failures whose diagnostics were already printed.
var errReported = errors.New("reported")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "boolcalc",
		Short:         "Evaluate boolean expressions of TRUE, FALSE, AND, OR, NOT and parentheses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = version + " (commit=" + commit + ", built=" + date + ")"
	root.SetVersionTemplate("boolcalc version {{.Version}}\n")

	root.PersistentFlags().String("config", "", "Config file, .yaml or .toml (env BOOLCALC_CONFIG)")
	root.PersistentFlags().Bool("no-color", false, "Disable colored output (env NO_COLOR)")

	root.AddCommand(newEvalCmd(), newCheckCmd(), newServeCmd(), newReplCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// loadConfig resolves the configuration and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetBool("no-color"); v {
		cfg.NoColor = true
	}
	return cfg, nil
}
