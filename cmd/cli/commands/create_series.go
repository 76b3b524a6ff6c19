package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/shiftsignup/pkg/core/services"
)

// CreateSeriesCmd creates the createSeries command
func CreateSeriesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createSeries <from YYYY-MM-DD>",
		Short: "Create a recurring event series with shifts for every occurrence",
		Long: `Create one event per occurrence of an RFC 5545 rule, each with its shifts.
Flags left unset fall back to seriesDefaults in the config file.
Re-running with --series resumes a series, skipping dates it already has.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := time.Parse("2006-01-02", args[0])
			if err != nil {
				return fmt.Errorf("from must be YYYY-MM-DD: %w", err)
			}

			flags := cmd.Flags()
			defaults := app.Cfg.SeriesDefaults
			stringFlag := func(name, fallback string) string {
				if v, _ := flags.GetString(name); v != "" {
					return v
				}
				return fallback
			}

			var until time.Time
			if raw, _ := flags.GetString("until"); raw != "" {
				until, err = time.Parse("2006-01-02", raw)
				if err != nil {
					return fmt.Errorf("until must be YYYY-MM-DD: %w", err)
				}
			}

			duration, _ := flags.GetInt("duration")
			capacity, _ := flags.GetInt("capacity")
			seriesID, _ := flags.GetString("series")

			result, err := services.CreateEventSeries(app.Ctx, app.Database, app.Logger, services.SeriesRequest{
				SeriesID:        seriesID,
				Title:           stringFlag("title", defaults.Title),
				Location:        stringFlag("location", defaults.Location),
				RRule:           stringFlag("rrule", defaults.RRule),
				From:            from,
				Until:           until,
				StartTime:       stringFlag("start", defaults.StartTime),
				EndTime:         stringFlag("end", defaults.EndTime),
				DurationMinutes: orDefault(duration, app.Cfg.Generator.DefaultDurationMinutes),
				Capacity:        orDefault(capacity, app.Cfg.Generator.DefaultCapacity),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Series %s: created %d events, skipped %d\n\n", result.SeriesID, len(result.Created), len(result.Skipped))
			for _, event := range result.Created {
				fmt.Fprintf(out, "  %s  %s-%s  %s\n", event.Date, event.StartTime, event.EndTime, event.ID)
			}
			for _, date := range result.Skipped {
				fmt.Fprintf(out, "  %s  (already exists)\n", date)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().String("series", "", "Existing series id to extend")
	cmd.Flags().String("title", "", "Event title")
	cmd.Flags().String("location", "", "Event location")
	cmd.Flags().String("rrule", "", `Recurrence rule, e.g. "FREQ=WEEKLY;BYDAY=SA;COUNT=10"`)
	cmd.Flags().String("until", "", "Last date to consider (YYYY-MM-DD, default one year after from)")
	cmd.Flags().String("start", "", "Event start time (HH:MM)")
	cmd.Flags().String("end", "", "Event end time (HH:MM)")
	cmd.Flags().Int("duration", 0, "Shift length in minutes (default from config)")
	cmd.Flags().Int("capacity", 0, "Volunteers per shift (default from config)")

	return cmd
}
