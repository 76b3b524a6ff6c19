package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/live"
)

// WatchCmd creates the watch command
func WatchCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <event_id>",
		Short: "Print an event's shifts every time signups or shifts change",
		Long:  "Print an event's shifts every time signups or shifts change. Stops on Ctrl-C.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			session := live.NewSession(app.Database, app.Logger)
			defer session.Close()

			sub := session.Subscribe(args[0],
				func(views []model.TimeslotView) {
					fmt.Fprintf(out, "\n%s\n\n", time.Now().Format("15:04:05"))
					printViews(out, views)
				},
				func(err error) {
					app.Logger.Warn("Watch error", zap.String("event_id", args[0]), zap.Error(err))
				},
			)

			select {
			case <-app.Ctx.Done():
			case <-sub.Done():
			}
			return nil
		},
	}
}
