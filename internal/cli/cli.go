package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/censusacs/pkg/buildinfo"
	"github.com/matzehuels/censusacs/pkg/census"
	"github.com/matzehuels/censusacs/pkg/config"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by the persistent --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "censusacs queries the American Community Survey API",
		Long:         `censusacs fetches American Community Survey estimates and margins of error from the U.S. Census Bureau API and returns them as tables keyed by GEOID.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/censusacs/config.toml)")

	// Register all subcommands
	root.AddCommand(c.getCommand())
	root.AddCommand(c.fipsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Client Factory
// =============================================================================

// loadConfig reads the config file named by --config or the default one.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	return cfg, nil
}

// newClient creates a census client from the loaded configuration.
func (c *CLI) newClient() (*census.Client, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return census.NewClient(cfg.ClientConfig(c.Logger)), nil
}
