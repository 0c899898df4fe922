package main

import (
	"github.com/spf13/cobra"

	"subjectsort/internal/classifier"
	"subjectsort/internal/output"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List file types and subjects with their folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			ctx.output(cmd).Print(output.RenderCatalog(cfg, classifier.NewFromConfig(cfg)))
			return nil
		},
	}
}
