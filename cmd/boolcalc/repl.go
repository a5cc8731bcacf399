package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/boolcalc/pkg/repl"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive prompt",
		Long: `Start an interactive prompt that evaluates one expression per line.

Keys:
  Enter     - Evaluate
  Ctrl+L    - Clear transcript
  Esc       - Quit`,
		Args: cobra.NoArgs,
		RunE: runRepl,
	}
}

func runRepl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	p := tea.NewProgram(repl.New(!cfg.NoColor))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("repl: %w", err)
	}
	return nil
}
