package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"subjectsort/internal/config"
	"subjectsort/internal/logging"
	"subjectsort/internal/orchestrator"
	"subjectsort/internal/output"
)

// defaultConfigNames are tried in order when --config is not given.
var defaultConfigNames = []string{"subjectsort.yaml", "subjectsort.yml", "subjectsort.toml", "subjectsort.json"}

type globalFlags struct {
	config    string
	root      string
	verbose   bool
	logLevel  string
	logFormat string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Configuration
	configPath string
	configErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// resolveConfigPath returns the --config value or the first default config
// file present in the working directory.
func (c *commandContext) resolveConfigPath() (string, error) {
	if path := strings.TrimSpace(c.flags.config); path != "" {
		return path, nil
	}
	for _, name := range defaultConfigNames {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", errors.New("no configuration file found; create one with `subjectsort init` or pass --config")
}

// parseConfig reads the configuration and applies the --root override
// without validating it.
func (c *commandContext) parseConfig() (*config.Configuration, string, error) {
	path, err := c.resolveConfigPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Parse(path)
	if err != nil {
		return nil, path, err
	}
	if root := strings.TrimSpace(c.flags.root); root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, path, fmt.Errorf("resolve --root: %w", err)
		}
		cfg.Root = abs
	}
	if c.flags.logLevel != "" {
		cfg.Log.Level = c.flags.logLevel
	}
	if c.flags.logFormat != "" {
		cfg.Log.Format = c.flags.logFormat
	}
	return cfg, path, nil
}

func (c *commandContext) ensureConfig() (*config.Configuration, error) {
	c.configOnce.Do(func() {
		cfg, path, err := c.parseConfig()
		c.configPath = path
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg.Log, cmd.ErrOrStderr())
}

func (c *commandContext) orchestrator(cmd *cobra.Command) (*orchestrator.Orchestrator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.logger(cmd)
	if err != nil {
		return nil, err
	}
	return orchestrator.New(cfg, logger), nil
}

func (c *commandContext) output(cmd *cobra.Command) *output.Output {
	isTTY := false
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		isTTY = output.IsTerminal(f)
	}
	return output.New(output.Config{
		Verbose:   c.flags.verbose,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		IsTTY:     isTTY,
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
