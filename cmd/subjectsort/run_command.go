package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"subjectsort/internal/orchestrator"
	"subjectsort/internal/output"
)

// errRunFailures makes the process exit non-zero after the report printed.
var errRunFailures = errors.New("run finished with failures")

type stageFlags struct {
	noFlatten   bool
	noStructure bool
}

func (s stageFlags) options() orchestrator.Options {
	return orchestrator.Options{
		Flatten:        !s.noFlatten,
		BuildStructure: !s.noStructure,
	}
}

func (s *stageFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&s.noFlatten, "no-flatten", false, "Skip moving nested files to the root")
	cmd.Flags().BoolVar(&s.noStructure, "no-structure", false, "Skip creating the subject and type folders up front")
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var stages stageFlags
	var dryRun bool
	var yes bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Flatten, build the folder tree and organize files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := ctx.orchestrator(cmd)
			if err != nil {
				return err
			}
			out := ctx.output(cmd)
			opts := stages.options()

			if dryRun {
				plan, err := orch.Plan(opts)
				if err != nil {
					return err
				}
				out.Print(output.RenderPlan(plan))
				return nil
			}

			if !yes {
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), orch.Config().Root)
				if err != nil {
					return err
				}
				if !ok {
					out.Info("Aborted.")
					return nil
				}
			}

			opts.Progress = out
			report, err := orch.Organize(opts)
			if err != nil {
				return err
			}
			out.Print(output.RenderReport(report, out.IsVerbose()))
			if report.HasFailures() {
				return errRunFailures
			}
			return nil
		},
	}

	stages.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would happen without changing anything")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// confirm asks before touching the root. Without a terminal on stdin the
// question cannot be answered, so --yes is required.
func confirm(in io.Reader, out io.Writer, root string) (bool, error) {
	f, ok := in.(*os.File)
	if !ok || !output.IsTerminal(f) {
		return false, errors.New("stdin is not a terminal; pass --yes to organize without confirmation")
	}
	return ask(in, out, root)
}

func ask(in io.Reader, out io.Writer, root string) (bool, error) {
	fmt.Fprintf(out, "All files under %s will be reorganized. Continue? [y/N] ", root)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
