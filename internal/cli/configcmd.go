package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/censusacs/pkg/census"
	"github.com/matzehuels/censusacs/pkg/config"
)

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.configPath != "" {
				fmt.Println(c.configPath)
				return nil
			}
			path, err := config.DefaultPath()
			if err != nil {
				return fmt.Errorf("get config path: %w", err)
			}
			fmt.Println(path)
			return nil
		},
	}
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings with the API key redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			if cfg.Path != "" {
				printInfo("Loaded %s", cfg.Path)
			} else {
				printInfo("No config file, using defaults")
			}
			if os.Getenv(census.KeyEnv) != "" {
				printDetail("API key from %s", census.KeyEnv)
			} else if cfg.APIKey == "" {
				printWarning("No API key: set %s or api_key", census.KeyEnv)
			}
			printNewline()

			return toml.NewEncoder(os.Stdout).Encode(cfg.Redacted())
		},
	}
}
