package main

import (
	"github.com/spf13/cobra"

	"subjectsort/internal/output"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var stages stageFlags

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show where each file would go without moving anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := ctx.orchestrator(cmd)
			if err != nil {
				return err
			}
			plan, err := orch.Plan(stages.options())
			if err != nil {
				return err
			}
			ctx.output(cmd).Print(output.RenderPlan(plan))
			return nil
		},
	}

	stages.register(cmd)
	return cmd
}
