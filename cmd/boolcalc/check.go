package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/boolcalc/pkg/cases"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Run YAML case files against the calculator",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}
	cmd.Flags().BoolP("verbose", "v", false, "Print passing cases too")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	out := cmd.OutOrStdout()

	failed := 0
	for _, path := range args {
		cs, err := cases.Load(path)
		if err != nil {
			return err
		}

		rep := cases.Run(cs)
		for _, r := range rep.Results {
			switch {
			case !r.Passed:
				fmt.Fprintf(out, "FAIL %s:%d %s: %s\n", r.Case.File, r.Case.Line, r.Case.Label(), r.Reason)
			case verbose:
				fmt.Fprintf(out, "ok   %s:%d %s\n", r.Case.File, r.Case.Line, r.Case.Label())
			}
		}
		fmt.Fprintf(out, "%s: %d passed, %d failed\n", path, rep.Passed, rep.Failed)
		failed += rep.Failed
	}

	if failed > 0 {
		return fmt.Errorf("%d case(s) failed", failed)
	}
	return nil
}
