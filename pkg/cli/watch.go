package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/modkeeper/modkeeper/internal/engine"
	"github.com/modkeeper/modkeeper/internal/watcher"
	"github.com/modkeeper/modkeeper/pkg/config"
	"github.com/modkeeper/modkeeper/pkg/logger"
	"github.com/modkeeper/modkeeper/pkg/process"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	var reportInterval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the catalog in sync with the packages directory",
		Long: `Watch the packages directories and rescan them when mods are added or
removed outside modkeeper. Repository manifests are reloaded when the
configuration file changes. Queued messages are printed periodically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), reportInterval)
		},
	}

	cmd.Flags().DurationVar(&reportInterval, "report-interval", 2*time.Second, "how often queued messages are printed")
	return cmd
}

func (c *CLI) runWatch(ctx context.Context, reportInterval time.Duration) error {
	e, err := c.newEngine(ctx)
	if err != nil {
		return err
	}

	w, err := watcher.New(func(ctx context.Context) error {
		if err := e.Refresh(ctx); err != nil {
			return err
		}
		c.logger.Info("Packages rescanned", logger.WithField("count", len(e.Packages())))
		return nil
	}, c.logger)
	if err != nil {
		return err
	}
	w.SetSettlingDelay(c.settings.WatchSettleDuration())

	roots := append([]string{c.settings.PackagesPath()}, c.settings.SystemDirs...)
	if err := w.Watch(roots...); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	pm := process.NewManager(c.logger)
	pm.RegisterShutdownHandler(func() {
		if err := w.Close(); err != nil {
			c.logger.Warn("Failed to close watcher", logger.WithError(err))
		}
	})
	pm.SetHeartbeat(reportInterval, func() {
		c.reportQueued(e, nil)
	})

	if c.configPath != "" {
		reload := config.NewReloadManager(c.configPath, c.logger)
		reload.AddCallback(c.onConfigReload(e))
		if err := reload.StartWatching(); err != nil {
			c.printWarning(fmt.Sprintf("Configuration changes will not be picked up: %v", err))
		} else {
			pm.RegisterShutdownHandler(func() {
				_ = reload.StopWatching()
			})
		}
	}

	c.printInfo(fmt.Sprintf("Watching %s", c.settings.PackagesPath()))
	pm.Start(ctx)
	pm.Wait()

	c.reportQueued(e, nil)
	c.printSuccess("Watcher stopped")
	return nil
}

// onConfigReload replaces the repository entries with those of the
// reloaded configuration
func (c *CLI) onConfigReload(e *engine.Engine) config.ReloadCallback {
	return func(cfg *config.Config, err error) {
		if err != nil {
			c.printWarning(fmt.Sprintf("Configuration reload failed: %v", err))
			return
		}
		e.ResetRepositories()
		if err := e.LoadRepositoryFiles(append(cfg.Repositories, c.config.Repositories...)); err != nil {
			c.printWarning(fmt.Sprintf("Some repositories could not be loaded: %v", err))
		}
		c.printInfo("Repositories reloaded")
	}
}
