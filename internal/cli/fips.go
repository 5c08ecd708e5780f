package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/censusacs/pkg/census"
)

// fipsCommand creates the fips lookup command.
func (c *CLI) fipsCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "fips [CODE...]",
		Short: "Translate state postal codes to FIPS codes",
		Example: `  censusacs fips CA NY
  censusacs fips --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				args = census.PostalCodes()
			}
			if len(args) == 0 {
				return fmt.Errorf("pass at least one postal code, or --all")
			}
			var failed int
			for _, code := range args {
				fips, err := census.StatePostalToFIPS(code)
				if err != nil {
					printError("%s", err)
					failed++
					continue
				}
				printKeyValue(strings.ToUpper(strings.TrimSpace(code)), fips)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d codes not found", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "list every state, DC and Puerto Rico")
	return cmd
}
