// Package cli provides the command-line interface for modkeeper
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/modkeeper/modkeeper/internal/engine"
	"github.com/modkeeper/modkeeper/pkg/config"
	"github.com/modkeeper/modkeeper/pkg/logger"
	"github.com/modkeeper/modkeeper/pkg/types"
)

// CLI encapsulates the command-line interface without global state
type CLI struct {
	config   *Config
	viper    *viper.Viper
	rootCmd  *cobra.Command
	console  *logger.ConsoleLogger
	logger   logger.Logger
	output   io.Writer
	errorOut io.Writer

	settings   *config.Config
	configPath string
}

// NewCLI creates a new CLI instance with the given configuration
func NewCLI(cfg *Config) *CLI {
	return NewCLIWithOutput(cfg, os.Stdout, os.Stderr)
}

// NewCLIWithOutput creates a CLI with custom output writers
func NewCLIWithOutput(cfg *Config, output, errorOut io.Writer) *CLI {
	if cfg == nil {
		cfg = NewConfig()
	}
	c := &CLI{
		config:   cfg,
		viper:    viper.New(),
		console:  logger.NewConsoleLogger(output, errorOut),
		output:   output,
		errorOut: errorOut,
	}
	c.setupCommands()
	return c
}

// Execute runs the CLI with the given arguments
func (c *CLI) Execute(args []string) error {
	return c.ExecuteContext(context.Background(), args)
}

// ExecuteContext runs the CLI with context support
func (c *CLI) ExecuteContext(ctx context.Context, args []string) error {
	c.rootCmd.SetArgs(args)
	return c.rootCmd.ExecuteContext(ctx)
}

func (c *CLI) setupCommands() {
	c.rootCmd = &cobra.Command{
		Use:   "modkeeper",
		Short: "Install, enable and remove game mods",
		Long: `modkeeper manages mod packages: it installs them from zip archives,
checks dependencies and conflicts before enabling them, and keeps the
activation state in modSettings.json.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.initializeConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	c.rootCmd.SetOut(c.output)
	c.rootCmd.SetErr(c.errorOut)

	c.setupFlags()

	c.rootCmd.Version = c.config.Version
	c.rootCmd.SetVersionTemplate("modkeeper v{{.Version}}\n")

	c.rootCmd.AddCommand(
		c.newListCmd(),
		c.newShowCmd(),
		c.newInstallCmd(),
		c.newUninstallCmd(),
		c.newEnableCmd(),
		c.newDisableCmd(),
		c.newRepoCmd(),
		c.newWatchCmd(),
		c.newVersionCmd(),
	)
}

func (c *CLI) setupFlags() {
	flags := c.rootCmd.PersistentFlags()

	flags.StringVar(&c.config.ConfigFile, "config", "", "config file (default: modkeeper.yaml in the working or config directory)")
	flags.StringVar(&c.config.DataDir, "data-dir", "", "directory holding the packages folder")
	flags.StringVar(&c.config.ConfigDir, "config-dir", "", "directory holding modSettings.json")
	flags.StringVarP(&c.config.Verbosity, "verbosity", "v", "info", "log level (debug, info, warn, error)")
	flags.StringSliceVar(&c.config.Repositories, "repo", nil, "repository manifest file (repeatable)")
	flags.BoolVar(&c.config.Sandboxed, "sandboxed", false, "skip the application directory check on removal")
}

func (c *CLI) initializeConfig(cmd *cobra.Command, args []string) error {
	if err := bindOverrides(c.viper, cmd.Flags()); err != nil {
		return err
	}

	settings, path, err := resolveConfig(c.viper, c.config)
	if err != nil {
		return err
	}
	c.settings = settings
	c.configPath = path

	if settings.LogFile != "" {
		c.logger = logger.CreateLogger(settings.LogFile, settings.LogLevel)
	} else {
		c.logger = logger.CreateLoggerWithOutput(settings.LogLevel, c.errorOut)
	}
	if path != "" {
		c.logger.Debug("Using config file", logger.WithField("file", path))
	}
	return nil
}

// newEngine builds and initialises an engine with the configured
// repositories loaded
func (c *CLI) newEngine(ctx context.Context) (*engine.Engine, error) {
	factory := engine.NewDependencyFactory(c.settings, c.logger)
	e := factory.NewEngine()
	if err := e.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to scan packages: %w", err)
	}
	if len(c.settings.Repositories) > 0 {
		if err := e.LoadRepositoryFiles(c.settings.Repositories); err != nil {
			c.printWarning(fmt.Sprintf("Some repositories could not be loaded: %v", err))
		}
	}
	return e, nil
}

// reportQueued prints messages queued by the engine that were not already
// returned as the command error
func (c *CLI) reportQueued(e *engine.Engine, returned error) {
	for _, msg := range e.DrainErrors() {
		var lerr *types.LifecycleError
		if returned != nil && errors.As(returned, &lerr) && lerr.UserMessage() == msg {
			continue
		}
		c.printWarning(msg)
	}
}

// Helper methods for console output

func (c *CLI) printSuccess(message string) {
	c.console.Success(message)
}

func (c *CLI) printError(message string) {
	c.console.Error(message)
}

func (c *CLI) printInfo(message string) {
	c.console.Info(message)
}

func (c *CLI) printWarning(message string) {
	c.console.Warn(message)
}

// Execute runs the CLI against os.Args
func Execute(version string) error {
	cfg := NewConfig()
	cfg.Version = version
	cli := NewCLI(cfg)

	err := cli.Execute(os.Args[1:])
	if err != nil {
		cli.printError(strings.TrimSpace(err.Error()))
	}
	return err
}
