package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/core/services"
)

// SignupCmd creates the signup command
func SignupCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup <timeslot_id> <user_id>",
		Short: "Sign a volunteer up for a shift",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			eventID, _ := flags.GetString("event")
			email, _ := flags.GetString("email")
			firstName, _ := flags.GetString("first-name")
			lastName, _ := flags.GetString("last-name")
			phone, _ := flags.GetString("phone")

			signup, err := services.SignupForTimeslot(app.Ctx, app.Database, app.Logger, services.SignupRequest{
				TimeslotID: args[0],
				EventID:    eventID,
				User: model.UserSnapshot{
					UserID:    args[1],
					Email:     email,
					FirstName: firstName,
					LastName:  lastName,
					Phone:     phone,
				},
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Signed up %s (signup %s)\n", args[1], signup.ID)
			return nil
		},
	}

	cmd.Flags().String("event", "", "Event the shift must belong to")
	cmd.Flags().String("email", "", "Volunteer email")
	cmd.Flags().String("first-name", "", "Volunteer first name")
	cmd.Flags().String("last-name", "", "Volunteer last name")
	cmd.Flags().String("phone", "", "Volunteer phone")

	return cmd
}

// CancelSignupCmd creates the cancelSignup command
func CancelSignupCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancelSignup <signup_id>",
		Short: "Cancel a signup, freeing its place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signup, err := services.CancelSignup(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Cancelled signup %s for %s\n", signup.ID, signup.UserID)
			return nil
		},
	}
}

// MarkAttendanceCmd creates the markAttendance command
func MarkAttendanceCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "markAttendance <signup_id> <PRESENT|LATE|LEFT_EARLY|NO_SHOW>",
		Short: "Record whether a volunteer turned up",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			markedBy, _ := cmd.Flags().GetString("by")

			signup, err := services.MarkAttendance(app.Ctx, app.Database, app.Logger, args[0], args[1], markedBy)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Marked %s as %s\n", signup.UserID, *signup.AttendanceStatus)
			return nil
		},
	}

	cmd.Flags().String("by", "cli", "Who is marking attendance")

	return cmd
}

// MySignupsCmd creates the mySignups command
func MySignupsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mySignups <user_id>",
		Short: "List a volunteer's shifts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			includeCancelled, _ := cmd.Flags().GetBool("all")

			shifts, err := services.ListUserSignups(app.Ctx, app.Database, args[0], includeCancelled)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(shifts) == 0 {
				fmt.Fprintf(out, "%s has no signups.\n", args[0])
				return nil
			}

			fmt.Fprintf(out, "%-20s  %-5s  %-13s  %-10s  %-10s  %s\n", "Event", "Shift", "Time", "Status", "Attendance", "Signup ID")
			fmt.Fprintln(out, "--------------------  -----  -------------  ----------  ----------  ------------------------------------")
			for _, shift := range shifts {
				number, window := "-", "(deleted)"
				if shift.Timeslot != nil {
					number = fmt.Sprint(shift.Timeslot.ShiftNumber)
					window = shift.Timeslot.StartTime + "-" + shift.Timeslot.EndTime
				}
				attendance := "-"
				if shift.Signup.AttendanceStatus != nil {
					attendance = *shift.Signup.AttendanceStatus
				}
				fmt.Fprintf(out, "%-20s  %-5s  %-13s  %-10s  %-10s  %s\n",
					shift.Signup.EventID, number, window, shift.Signup.Status, attendance, shift.Signup.ID)
			}
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "Include cancelled signups")

	return cmd
}
