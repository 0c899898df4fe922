package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"subjectsort/internal/config"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Check the configuration and report problems",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := ctx.parseConfig()
			if err != nil {
				return err
			}

			result := config.ValidateConfig(cfg)
			out := cmd.OutOrStdout()
			for _, e := range result.Errors {
				fmt.Fprintf(out, "error   %s: %s\n", e.Field, e.Message)
			}
			for _, w := range result.Warnings {
				fmt.Fprintf(out, "warning %s: %s\n", w.Field, w.Message)
			}

			if !result.Valid {
				return errors.New("configuration is invalid")
			}
			fmt.Fprintf(out, "Configuration valid: %s (%d subjects, root %s)\n", path, len(cfg.Subjects), cfg.Root)
			return nil
		},
	}
}
