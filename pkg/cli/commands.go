package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/modkeeper/modkeeper/internal/engine"
	"github.com/modkeeper/modkeeper/pkg/logger"
	"github.com/modkeeper/modkeeper/pkg/types"
	"github.com/modkeeper/modkeeper/pkg/utils"
)

func (c *CLI) newListCmd() *cobra.Command {
	var installedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known mods",
		Long:  `List installed mods and mods announced by the configured repositories.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			c.runList(e, installedOnly)
			return nil
		},
	}

	cmd.Flags().BoolVar(&installedOnly, "installed", false, "only list installed mods")
	return cmd
}

func (c *CLI) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show details of a mod",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			return c.runShow(e, args[0])
		},
	}
}

func (c *CLI) newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install <name> <archive>",
		Short: "Install a mod from a zip archive",
		Long: `Install a mod from a local zip archive. The folder holding mod.json may
sit at the top of the archive or one folder deep. Archives not listed by a
repository are registered as available before installing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}

			name, archivePath := args[0], args[1]
			if !e.Descriptor(name).IsAvailable {
				if err := e.Sideload(name, archivePath); err != nil {
					c.reportQueued(e, err)
					return err
				}
			}

			e.Installer().Progress = func(id types.PackageIdentifier, done, total int64) {
				c.logger.Debug("Extracting", logger.WithField("package", id.String()))
			}

			err = e.Install(cmd.Context(), name, archivePath)
			c.reportQueued(e, err)
			if err != nil {
				return err
			}
			c.printSuccess(fmt.Sprintf("Installed %s", name))
			return nil
		},
	}
}

func (c *CLI) newUninstallCmd() *cobra.Command {
	return c.newLifecycleCmd("uninstall", "Remove an installed mod", "Uninstalled",
		func(cmd *cobra.Command, e *engine.Engine, name string) error {
			return e.Uninstall(cmd.Context(), name)
		})
}

func (c *CLI) newEnableCmd() *cobra.Command {
	return c.newLifecycleCmd("enable", "Enable an installed mod", "Enabled",
		func(cmd *cobra.Command, e *engine.Engine, name string) error {
			return e.Enable(cmd.Context(), name)
		})
}

func (c *CLI) newDisableCmd() *cobra.Command {
	return c.newLifecycleCmd("disable", "Disable an enabled mod", "Disabled",
		func(cmd *cobra.Command, e *engine.Engine, name string) error {
			return e.Disable(cmd.Context(), name)
		})
}

// newLifecycleCmd builds a single-argument command around one engine operation
func (c *CLI) newLifecycleCmd(use, short, done string, op func(*cobra.Command, *engine.Engine, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			err = op(cmd, e, args[0])
			c.reportQueued(e, err)
			if err != nil {
				return err
			}
			c.printSuccess(fmt.Sprintf("%s %s", done, args[0]))
			return nil
		},
	}
}

func (c *CLI) newRepoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Work with repository manifests",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "load <file>...",
		Short: "Load repository manifests and list the mods they announce",
		Long: `Load one or more repository manifests (JSON or YAML) on top of the
configured repositories and list every mod they make available.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			if err := e.LoadRepositoryFiles(args); err != nil {
				return fmt.Errorf("failed to load repository: %w", err)
			}
			c.runRepoList(e)
			return nil
		},
	})

	return cmd
}

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of modkeeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(c.output, "modkeeper v%s\n", c.config.Version)
			return nil
		},
	}
}

// Implementation functions

func (c *CLI) runList(e *engine.Engine, installedOnly bool) {
	w := tabwriter.NewWriter(c.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tSTATUS\tTYPE\tSIZE")
	fmt.Fprintln(w, "----\t-------\t------\t----\t----")

	for _, d := range e.Packages() {
		if installedOnly && !d.IsInstalled {
			continue
		}
		size := "-"
		if d.LocalSizeBytes > 0 {
			size = utils.FormatBytes(d.LocalSizeBytes)
		}
		version := d.Version
		if version == "" {
			version = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			d.Name,
			version,
			statusString(d),
			d.Type,
			size,
		)
	}

	_ = w.Flush()
}

func (c *CLI) runShow(e *engine.Engine, name string) error {
	d := e.Descriptor(name)
	if !d.IsInstalled && !d.IsAvailable {
		return fmt.Errorf("unknown mod: %s", name)
	}

	w := tabwriter.NewWriter(c.output, 0, 0, 2, ' ', 0)
	row := func(key, value string) {
		if value != "" {
			fmt.Fprintf(w, "%s:\t%s\n", key, value)
		}
	}

	row("Name", d.Name.String())
	row("Title", d.DisplayName)
	row("Description", d.Description)
	row("Author", d.Author)
	row("Version", d.Version)
	row("Type", d.Type.String())
	row("Status", statusString(d))
	row("Compatible", yesNo(d.IsCompatible))
	if d.IsInstalled {
		row("Location", map[bool]string{true: "user", false: "system"}[d.IsStoredLocally])
		row("Size", utils.FormatBytes(d.LocalSizeBytes))
	}
	if d.KeepDisabled {
		row("Keep disabled", "yes")
	}
	row("Depends", strings.Join(d.Dependencies.Strings(), ", "))
	row("Conflicts", strings.Join(d.Conflicts.Strings(), ", "))

	return w.Flush()
}

func (c *CLI) runRepoList(e *engine.Engine) {
	w := tabwriter.NewWriter(c.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tINSTALLED")

	for _, d := range e.Packages() {
		if !d.IsAvailable {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, d.Version, yesNo(d.IsInstalled))
	}

	_ = w.Flush()
}

func statusString(d types.Descriptor) string {
	status := d.Status()
	switch {
	case !d.IsCompatible && d.IsInstalled:
		return color.RedString(status + " (incompatible)")
	case d.IsEnabled:
		return color.GreenString(status)
	case d.IsInstalled:
		return color.YellowString(status)
	default:
		return color.CyanString(status)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
