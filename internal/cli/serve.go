package cli

import (
	"fmt"

	"github.com/piwi3910/envelope/internal/server"
	"github.com/piwi3910/envelope/internal/session"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API for browser renderers",
		Long: `Serve a JSON API backed by one shared session that starts from the
configured defaults. Stops cleanly on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := stateFromContext(cmd.Context())
			if !cmd.Flags().Changed("port") {
				port = state.config.ServerPort
			}

			sess := session.New(state.config.Defaults)
			srv := server.New(sess, loggerFromContext(cmd.Context()))
			return srv.ListenAndServe(cmd.Context(), fmt.Sprintf("%s:%d", host, port))
		},
	}

	cmd.Flags().StringVar(&host, "host", "localhost", "interface to listen on")
	cmd.Flags().IntVarP(&port, "port", "p", 3000, "port to listen on (default from config)")
	return cmd
}
