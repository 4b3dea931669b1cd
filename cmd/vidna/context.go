package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"vidna/internal/catalog"
	"vidna/internal/config"
	"vidna/internal/logging"
	"vidna/internal/workflow"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the run logger. Console output goes to the command's
// stderr so stdout stays free for results and drawings.
func (c *commandContext) ensureLogger(cmd *cobra.Command) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		level := cfg.Logging.Level
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			level = *c.logLevelFlag
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:    level,
			Format:   cfg.Logging.Format,
			Writer:   cmd.ErrOrStderr(),
			FilePath: filepath.Join(cfg.Paths.DataDir, logging.LogFileName),
		})
	})
	return c.logger, c.loggerErr
}

// openManager wires a workflow manager to the catalog. The returned close
// function releases the catalog.
func (c *commandContext) openManager(cmd *cobra.Command) (*workflow.Manager, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger(cmd)
	if err != nil {
		return nil, nil, err
	}
	store, err := catalog.Open(cfg.CatalogPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog: %w", err)
	}
	manager := workflow.NewManager(cfg, store, logger)
	return manager, func() { store.Close() }, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
