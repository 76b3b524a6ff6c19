package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/pkg/api"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the signup REST API and live endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				app.Cfg.HTTP.Addr = addr
			}

			server, err := api.NewServer(app.Database, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			app.Logger.Info("Starting API server", zap.String("addr", app.Cfg.HTTP.Addr))
			return server.Run(app.Ctx)
		},
	}

	cmd.Flags().String("addr", "", "Listen address, overriding http.addr")

	return cmd
}
