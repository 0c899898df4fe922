package main

import (
	"time"

	"github.com/spf13/cobra"

	"subjectsort/internal/config"
	"subjectsort/internal/orchestrator"
	"subjectsort/internal/output"
	"subjectsort/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var stages stageFlags

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Organize the root again whenever new files arrive",
		Long: `watch runs once at startup and then again after each burst of new files.
Runs never overlap; changes seen during a run queue a single follow-up run.
Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			orch := orchestrator.New(cfg, logger)
			out := ctx.output(cmd)
			opts := stages.options()

			watchCfg := config.DefaultWatchConfig()
			if cfg.Watch != nil {
				watchCfg = *cfg.Watch
			}

			w := watcher.New(watcher.Options{
				Root:     cfg.Root,
				Subjects: cfg.SubjectNames(),
				Config:   watchCfg,
				Logger:   logger,
				Run: func() error {
					report, err := orch.Organize(opts)
					if err != nil {
						out.Error("Run failed: %v", err)
						return err
					}
					summary := orchestrator.Summarize(report, false)
					out.Info("Organized %d, left %d in root, %d failures", summary.Organized, summary.Unplaced, summary.Failures)
					if out.IsVerbose() {
						out.Print(output.RenderReport(report, true))
					}
					return nil
				},
			})
			if err := w.Start(); err != nil {
				return err
			}
			out.Info("Watching %s (Ctrl+C to stop)", cfg.Root)
			w.Trigger()

			<-cmd.Context().Done()
			summary := w.Stop()
			out.Info("Stopped after %d runs (%d failed) in %s", summary.Runs, summary.Failures, summary.Duration.Round(time.Second))
			return nil
		},
	}

	stages.register(cmd)
	return cmd
}
