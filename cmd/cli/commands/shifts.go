package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/core/services"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

// GenerateShiftsCmd creates the generateShifts command
func GenerateShiftsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateShifts <event_id> <start HH:MM> <end HH:MM>",
		Short: "Split an event window into consecutive shifts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			duration, _ := cmd.Flags().GetInt("duration")
			capacity, _ := cmd.Flags().GetInt("capacity")

			result, err := services.GenerateTimeslots(app.Ctx, app.Database, app.Logger, services.GenerateRequest{
				EventID:         args[0],
				StartTime:       args[1],
				EndTime:         args[2],
				DurationMinutes: orDefault(duration, app.Cfg.Generator.DefaultDurationMinutes),
				Capacity:        orDefault(capacity, app.Cfg.Generator.DefaultCapacity),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Generated %d shifts for event %s\n\n", len(result.Timeslots), args[0])
			printTimeslots(out, result.Timeslots)
			return nil
		},
	}

	cmd.Flags().Int("duration", 0, "Shift length in minutes (default from config)")
	cmd.Flags().Int("capacity", 0, "Volunteers per shift (default from config)")

	return cmd
}

// AddShiftCmd creates the addShift command
func AddShiftCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addShift <event_id> <start HH:MM> <end HH:MM>",
		Short: "Add a single shift to an event",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			capacity, _ := cmd.Flags().GetInt("capacity")
			number, _ := cmd.Flags().GetInt("number")

			ts, err := services.CreateTimeslot(app.Ctx, app.Database, app.Logger, services.CreateTimeslotRequest{
				EventID:     args[0],
				ShiftNumber: number,
				StartTime:   args[1],
				EndTime:     args[2],
				Capacity:    orDefault(capacity, app.Cfg.Generator.DefaultCapacity),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Added shift %d (%s)\n\n", ts.ShiftNumber, ts.ID)
			printTimeslots(out, []db.Timeslot{*ts})
			return nil
		},
	}

	cmd.Flags().Int("capacity", 0, "Volunteers on the shift (default from config)")
	cmd.Flags().Int("number", 0, "Shift number (default after the last shift)")

	return cmd
}

// ListShiftsCmd creates the listShifts command
func ListShiftsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listShifts <event_id>",
		Short: "List an event's shifts with their signups and availability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := services.ListEventTimeslots(app.Ctx, app.Database, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintf(out, "Event %s has no shifts.\n", args[0])
				return nil
			}
			printViews(out, views)
			return nil
		},
	}
}

// UpdateShiftCmd creates the updateShift command
func UpdateShiftCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "updateShift <timeslot_id>",
		Short: "Change a shift's number, times or capacity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch db.TimeslotPatch
			flags := cmd.Flags()
			if flags.Changed("number") {
				n, _ := flags.GetInt("number")
				patch.ShiftNumber = &n
			}
			if flags.Changed("start") {
				s, _ := flags.GetString("start")
				patch.StartTime = &s
			}
			if flags.Changed("end") {
				e, _ := flags.GetString("end")
				patch.EndTime = &e
			}
			if flags.Changed("capacity") {
				c, _ := flags.GetInt("capacity")
				patch.Capacity = &c
			}

			ts, err := services.UpdateTimeslot(app.Ctx, app.Database, app.Logger, args[0], patch)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Updated shift %d\n\n", ts.ShiftNumber)
			printTimeslots(out, []db.Timeslot{*ts})
			return nil
		},
	}

	cmd.Flags().Int("number", 0, "New shift number")
	cmd.Flags().String("start", "", "New start time (HH:MM)")
	cmd.Flags().String("end", "", "New end time (HH:MM)")
	cmd.Flags().Int("capacity", 0, "New capacity")

	return cmd
}

// DeleteShiftCmd creates the deleteShift command
func DeleteShiftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteShift <timeslot_id>",
		Short: "Delete a shift and all of its signups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.DeleteTimeslot(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Deleted shift, removing %d signups\n\n", result.RemovedSignups)
			if len(result.Remaining) > 0 {
				fmt.Fprintf(out, "Remaining shifts:\n\n")
				printTimeslots(out, result.Remaining)
			}
			return nil
		},
	}
}

// AssignLeadCmd creates the assignLead command
func AssignLeadCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assignLead <timeslot_id> <user_id>",
		Short: "Make a signed-up volunteer the shift's team lead",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := services.AssignTeamLead(app.Ctx, app.Database, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s leads shift %d\n", args[1], ts.ShiftNumber)
			return nil
		},
	}
}

// RemoveLeadCmd creates the removeLead command
func RemoveLeadCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "removeLead <timeslot_id>",
		Short: "Clear the shift's team lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := services.RemoveTeamLead(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}
			app.Logger.Debug("removeLead command", zap.String("timeslot_id", ts.ID))
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Shift %d has no team lead\n", ts.ShiftNumber)
			return nil
		},
	}
}

func orDefault(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func printTimeslots(w io.Writer, timeslots []db.Timeslot) {
	fmt.Fprintf(w, "%-5s  %-13s  %-8s  %-36s\n", "Shift", "Time", "Capacity", "ID")
	fmt.Fprintln(w, "-----  -------------  --------  ------------------------------------")
	for _, ts := range timeslots {
		fmt.Fprintf(w, "%-5d  %-13s  %-8d  %-36s\n", ts.ShiftNumber, ts.StartTime+"-"+ts.EndTime, ts.Capacity, ts.ID)
	}
	fmt.Fprintln(w)
}

func printViews(w io.Writer, views []model.TimeslotView) {
	fmt.Fprintf(w, "%-5s  %-13s  %-9s  %-12s  %-20s  %s\n", "Shift", "Time", "Signed up", "Status", "Team lead", "Volunteers")
	fmt.Fprintln(w, "-----  -------------  ---------  ------------  --------------------  ----------")
	for _, v := range views {
		lead := "-"
		if v.TeamLeadUserID != nil {
			lead = *v.TeamLeadUserID
		}

		names := ""
		for i, s := range v.Signups {
			if i > 0 {
				names += ", "
			}
			names += s.FullName()
		}

		fmt.Fprintf(w, "%-5d  %-13s  %-9s  %-12s  %-20s  %s\n",
			v.ShiftNumber,
			v.StartTime+"-"+v.EndTime,
			strconv.Itoa(v.Current)+"/"+strconv.Itoa(v.Availability.Capacity),
			availabilityLabel(v.Availability),
			lead,
			names,
		)
	}
	fmt.Fprintln(w)
}

func availabilityLabel(a model.Availability) string {
	switch {
	case a.IsFull:
		return "Full"
	case a.IsAlmostFull:
		return "Almost full"
	}
	return fmt.Sprintf("%d open", a.Available)
}
