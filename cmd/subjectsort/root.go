package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:   "subjectsort",
		Short: "Sort course files into subject and file type folders",
		Long: `subjectsort organizes a folder of course material.

Nested folders are flattened into the root, a folder is created for every
configured subject with one subfolder per allowed file type, and each file in
the root is moved to <subject>/<type> based on keywords in its name and its
extension. Files that cannot be placed stay in the root and are reported.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Configuration file (default: subjectsort.yaml, .yml, .toml or .json in the current directory)")
	pf.StringVar(&flags.root, "root", "", "Folder to organize, overriding the configured root")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "List every file that was moved")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newPlanCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newValidateCommand(ctx))
	rootCmd.AddCommand(newCatalogCommand(ctx))

	return rootCmd
}
