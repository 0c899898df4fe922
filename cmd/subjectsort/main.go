// Command subjectsort sorts academic files into subject and type folders.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"

	"subjectsort/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := fang.Execute(ctx, newRootCommand(),
		fang.WithVersion(version.GetFullVersion()),
		fang.WithCommit(version.GetCommit()),
	)
	if err != nil {
		stop()
		os.Exit(1)
	}
}
