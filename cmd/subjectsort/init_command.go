package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subjectsort/internal/config"
)

func newInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Long:        "init writes a commented sample configuration. The format follows the file extension: .yaml, .yml, .toml or .json.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				target = defaultConfigNames[0]
			}

			if err := writeSample(target, overwrite); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit root and the subject list, then preview with `subjectsort plan`.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing configuration file")
	return cmd
}

// writeSample keeps the commented YAML sample for YAML targets and re-encodes
// it for TOML and JSON targets.
func writeSample(target string, overwrite bool) error {
	ext := strings.ToLower(filepath.Ext(target))
	if ext == ".yaml" || ext == ".yml" {
		return config.WriteSample(target, overwrite)
	}

	if !overwrite {
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("configuration file already exists at %s (use --overwrite to replace it)", target)
		}
	}
	sample, err := config.Decode(config.SampleConfig(), config.FormatYAML)
	if err != nil {
		return fmt.Errorf("decode sample configuration: %w", err)
	}
	if dir := filepath.Dir(target); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create configuration directory: %w", err)
		}
	}
	return config.Save(sample, target)
}
