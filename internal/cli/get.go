package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/censusacs/pkg/census"
	errs "github.com/matzehuels/censusacs/pkg/errors"
	acsio "github.com/matzehuels/censusacs/pkg/io"
)

// getOptions holds the flags of the get command.
type getOptions struct {
	geography string
	survey    string
	year      int
	state     string
	county    string
	moe       bool
	shape     string
	format    string
	output    string
	browse    bool
}

// getCommand creates the get command.
func (c *CLI) getCommand() *cobra.Command {
	opts := getOptions{}

	cmd := &cobra.Command{
		Use:   "get VARIABLE...",
		Short: "Fetch ACS variables for a geography",
		Long: `Fetch American Community Survey variables for every unit of a geography.

Estimate codes end in E. With --moe, pass margin-of-error codes ending in M.
Each row gets a GEOID column built from its FIPS components, and rows are
sorted by GEOID.`,
		Example: `  censusacs get B01003_001E --geography state
  censusacs get B19013_001E --geography county --state CA --output ca.parquet
  censusacs get B19013_001M --moe --geography tract --state 06 --county 001 --survey acs5 --year 2021`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGet(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.geography, "geography", "g", "state", "geography level: state, county, tract, block group")
	cmd.Flags().StringVar(&opts.survey, "survey", "acs5", "survey tier: acs1, acs3, acs5")
	cmd.Flags().IntVarP(&opts.year, "year", "y", 0, "data year (default: latest for the tier)")
	cmd.Flags().StringVarP(&opts.state, "state", "s", "", "state postal or FIPS code")
	cmd.Flags().StringVarP(&opts.county, "county", "c", "", "3-digit county FIPS code (requires --state)")
	cmd.Flags().BoolVar(&opts.moe, "moe", false, "fetch margins of error instead of estimates")
	cmd.Flags().StringVar(&opts.shape, "shape", "table", "result shape for json output: table, records, columns, arrow")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: table, json, csv, parquet (default: from --output, else table)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&opts.browse, "browse", false, "browse the result interactively")

	return cmd
}

func (c *CLI) runGet(cmd *cobra.Command, args []string, opts getOptions) error {
	q, err := opts.query(args)
	if err != nil {
		return err
	}
	format, err := opts.outputFormat()
	if err != nil {
		return err
	}

	client, err := c.newClient()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching %s %s for %d %s variables...", q.Survey, q.Geography, len(q.Variables), q.Family))
	spinner.Start()
	res, err := client.Query(ctx, q)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.fetched(res.Len())

	if opts.browse {
		_, err := tea.NewProgram(newBrowserModel(res, q), tea.WithAltScreen()).Run()
		return err
	}

	switch {
	case opts.output != "":
		if format == formatTable {
			return errs.New(errs.ErrCodeInvalidArgument, "--format table cannot be written to a file")
		}
		if err := acsio.Export(res, acsio.Format(format), opts.output); err != nil {
			return err
		}
		printSuccess("Wrote %d rows", res.Len())
		printFile(opts.output)
		return nil
	case format == formatTable:
		printResult(res, q)
		return nil
	default:
		return acsio.Write(res, acsio.Format(format), os.Stdout)
	}
}

// formatTable renders the result as a styled terminal table.
const formatTable = "table"

// query converts the flags into a census query.
func (o getOptions) query(variables []string) (census.Query, error) {
	geo, err := census.ParseGeography(o.geography)
	if err != nil {
		return census.Query{}, err
	}
	survey, err := census.ParseSurvey(o.survey)
	if err != nil {
		return census.Query{}, err
	}
	shape, err := census.ParseShape(o.shape)
	if err != nil {
		return census.Query{}, err
	}
	fam := census.Estimate
	if o.moe {
		fam = census.MarginOfError
	}
	return census.Query{
		Variables: variables,
		Geography: geo,
		Year:      o.year,
		Survey:    survey,
		State:     o.state,
		County:    o.county,
		Shape:     shape,
		Family:    fam,
	}, nil
}

// outputFormat resolves --format, falling back to the --output extension.
func (o getOptions) outputFormat() (string, error) {
	if o.format == "" {
		if f, ok := acsio.FormatFromPath(o.output); ok {
			return string(f), nil
		}
		if o.output != "" {
			return "", errs.New(errs.ErrCodeInvalidArgument, "cannot infer format from %q, use --format", o.output)
		}
		return formatTable, nil
	}
	if o.format == formatTable {
		return formatTable, nil
	}
	f, err := acsio.ParseFormat(o.format)
	return string(f), err
}
