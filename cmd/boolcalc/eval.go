package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	grpcapi "github.com/lemonberrylabs/boolcalc/pkg/api/grpc"
	"github.com/lemonberrylabs/boolcalc/pkg/diag"
	"github.com/lemonberrylabs/boolcalc/pkg/expr"
)

// outcome is what eval prints for one expression.
type outcome struct {
	Result     bool
	Canonical  string // empty for remote evaluations
	Diagnostic string // rendered failure
}

// evaluator evaluates one expression. On error, Diagnostic is set.
type evaluator func(ctx context.Context, expression string) (outcome, error)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval EXPRESSION... | -",
		Short: "Evaluate expressions and print true or false",
		Long: `Evaluate each argument as a boolean expression and print its value.
With "-", expressions are read from standard input, one per line.

Exits with status 1 on the first expression that fails, after printing the
error with the offending characters underlined.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runEval,
	}
	cmd.Flags().Bool("canonical", false, "Also print the canonical, fully parenthesised form")
	cmd.Flags().String("remote", "", "Evaluate on a boolcalc gRPC server at this address instead of locally")
	cmd.Flags().Duration("timeout", 5*time.Second, "Per-expression timeout for --remote")
	return cmd
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	styled := !cfg.NoColor
	canonical, _ := cmd.Flags().GetBool("canonical")
	remote, _ := cmd.Flags().GetString("remote")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	eval := localEvaluator(styled)
	if remote != "" {
		if canonical {
			return fmt.Errorf("--canonical is not available with --remote")
		}
		conn, err := grpc.NewClient(remote, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return fmt.Errorf("connecting to %s: %w", remote, err)
		}
		defer conn.Close()
		eval = remoteEvaluator(grpcapi.NewClient(conn), timeout, styled)
	}

	expressions := args
	if len(args) == 1 && args[0] == "-" {
		expressions, err = readLines(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	for _, expression := range expressions {
		res, err := eval(cmd.Context(), expression)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), res.Diagnostic)
			return errReported
		}
		fmt.Fprintln(out, strconv.FormatBool(res.Result))
		if canonical {
			fmt.Fprintln(out, res.Canonical)
		}
	}
	return nil
}

func localEvaluator(styled bool) evaluator {
	return func(_ context.Context, expression string) (outcome, error) {
		node, err := expr.Parse(expression)
		if err != nil {
			return outcome{Diagnostic: diag.Render(expression, err, styled)}, err
		}
		got, err := expr.Evaluate(node)
		if err != nil {
			return outcome{Diagnostic: diag.Render(expression, err, styled)}, err
		}
		return outcome{Result: got, Canonical: expr.Format(node)}, nil
	}
}

func remoteEvaluator(client *grpcapi.Client, timeout time.Duration, styled bool) evaluator {
	return func(ctx context.Context, expression string) (outcome, error) {
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		got, err := client.Evaluate(ctx, expression)
		if err == nil {
			return outcome{Result: got}, nil
		}

		msg := status.Convert(err).Message()
		span, ok := remoteSpan(err)
		if !ok {
			return outcome{Diagnostic: diag.Render(expression, errors.New(msg), styled)}, err
		}
		return outcome{Diagnostic: diag.RenderSpan(expression, msg, span, styled)}, err
	}
}

// remoteSpan reads the error position from a failed call's ErrorInfo. It
// reports false when the detail or either offset is missing or malformed.
func remoteSpan(err error) (expr.Span, bool) {
	info, ok := grpcapi.ErrorInfo(err)
	if !ok {
		return expr.Span{}, false
	}
	start, err := strconv.Atoi(info.GetMetadata()["start"])
	if err != nil {
		return expr.Span{}, false
	}
	end, err := strconv.Atoi(info.GetMetadata()["end"])
	if err != nil || start < 0 || end < start {
		return expr.Span{}, false
	}
	return expr.Span{Start: start, End: end}, true
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading expressions: %w", err)
	}
	return lines, nil
}
