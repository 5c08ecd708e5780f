package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/censusacs/internal/server"
	"github.com/matzehuels/censusacs/pkg/observability"
	"github.com/matzehuels/censusacs/pkg/observability/prom"
)

// serveCommand creates the serve command for the HTTP gateway.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve ACS queries over HTTP",
		Long: `Serve ACS queries over a read-only HTTP API.

  GET /v1/acs/{survey}?variables=B01003_001E&geography=county&state=CA
  GET /v1/fips/{code}
  GET /healthz
  GET /metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			hooks := prom.New(reg)
			observability.SetQueryHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			printInfo("Serving on %s", StyleHighlight.Render(addr))
			return server.New(client, c.Logger, reg).Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	return cmd
}
