package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/pkg/core/services"
)

// PublishRosterCmd creates the publishRoster command
func PublishRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishRoster <event_id>",
		Short: "Publish an event's shift roster to Google Sheets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("publishRoster command", zap.String("event_id", args[0]))

			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			roster, err := services.PublishRoster(app.Ctx, app.Database, client, app.Cfg, app.Logger, args[0])
			if err != nil {
				return fmt.Errorf("failed to publish roster: %w", err)
			}

			out := cmd.OutOrStdout()
			tab, _ := roster.TabTitle()
			fmt.Fprintf(out, "\n✅ Roster Published Successfully\n\n")
			fmt.Fprintf(out, "Tab:      %s\n", tab)
			fmt.Fprintf(out, "Sheet ID: %s\n\n", app.Cfg.Roster.SpreadsheetID)

			fmt.Fprintf(out, "%-5s  %-13s  %-20s  %s\n", "Shift", "Time", "Team Lead", "Volunteers")
			fmt.Fprintln(out, "-----  -------------  --------------------  ----------------------------------------")
			for _, row := range roster.Rows {
				teamLead := row.TeamLead
				if teamLead == "" {
					teamLead = "-"
				}
				volunteers := "-"
				if len(row.Volunteers) > 0 {
					volunteers = strings.Join(row.Volunteers, ", ")
				}
				fmt.Fprintf(out, "%-5d  %-13s  %-20s  %s\n", row.Shift, row.Time, teamLead, volunteers)
			}
			fmt.Fprintln(out)

			return nil
		},
	}
}
