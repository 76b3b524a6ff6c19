package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/internal/config"
	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/db"
	"github.com/jakechorley/shiftsignup/pkg/memstore"
)

func newTestApp(t *testing.T) (*AppContext, *memstore.DB) {
	t.Helper()
	store := memstore.New()
	return &AppContext{
		Env: "test",
		Cfg: &config.Config{
			Store: config.StoreMemory,
			Generator: config.GeneratorConfig{
				DefaultDurationMinutes: 120,
				DefaultCapacity:        5,
			},
		},
		Database: store,
		Logger:   zap.NewNop(),
		Ctx:      context.Background(),
	}, store
}

func newRoot(app *AppContext, out *bytes.Buffer) *cobra.Command {
	root := &cobra.Command{Use: "shifts", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(
		MigrateCmd(app),
		GenerateShiftsCmd(app),
		AddShiftCmd(app),
		ListShiftsCmd(app),
		UpdateShiftCmd(app),
		DeleteShiftCmd(app),
		AssignLeadCmd(app),
		RemoveLeadCmd(app),
		SignupCmd(app),
		CancelSignupCmd(app),
		MarkAttendanceCmd(app),
		MySignupsCmd(app),
		CreateSeriesCmd(app),
		InteractiveCmd(app),
	)
	root.SetOut(out)
	root.SetErr(out)
	return root
}

func run(t *testing.T, app *AppContext, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRoot(app, &out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestGenerateAndListShifts(t *testing.T) {
	app, store := newTestApp(t)

	out, err := run(t, app, "generateShifts", "e1", "09:00", "13:00", "--capacity", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 2 shifts for event e1")
	assert.Contains(t, out, "09:00-11:00")

	slots, err := store.ListTimeslots(context.Background(), "e1")
	require.NoError(t, err)
	require.Len(t, slots, 2)

	_, err = run(t, app, "signup", slots[0].ID, "u1", "--first-name", "Ada", "--last-name", "Lovelace")
	require.NoError(t, err)

	out, err = run(t, app, "listShifts", "e1")
	require.NoError(t, err)
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "0/2")

	out, err = run(t, app, "listShifts", "e2")
	require.NoError(t, err)
	assert.Contains(t, out, "has no shifts")
}

func TestGenerateShifts_UsesConfigDefaults(t *testing.T) {
	app, store := newTestApp(t)

	_, err := run(t, app, "generateShifts", "e1", "09:00", "13:00")
	require.NoError(t, err)

	slots, err := store.ListTimeslots(context.Background(), "e1")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, 5, slots[0].Capacity)
}

func TestSignupErrorsSurface(t *testing.T) {
	app, store := newTestApp(t)
	_, err := run(t, app, "addShift", "e1", "09:00", "10:00", "--capacity", "1")
	require.NoError(t, err)
	slots, err := store.ListTimeslots(context.Background(), "e1")
	require.NoError(t, err)

	_, err = run(t, app, "signup", slots[0].ID, "u1")
	require.NoError(t, err)

	_, err = run(t, app, "signup", slots[0].ID, "u1")
	assert.ErrorIs(t, err, model.ErrAlreadySignedUp)

	_, err = run(t, app, "signup", slots[0].ID, "u2")
	assert.ErrorIs(t, err, model.ErrSlotFull)

	_, err = run(t, app, "signup", slots[0].ID, "u2", "--event", "other")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateShift_OnlyChangesSetFlags(t *testing.T) {
	app, store := newTestApp(t)
	_, err := run(t, app, "addShift", "e1", "09:00", "10:00", "--capacity", "3")
	require.NoError(t, err)
	slots, err := store.ListTimeslots(context.Background(), "e1")
	require.NoError(t, err)

	out, err := run(t, app, "updateShift", slots[0].ID, "--capacity", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated shift 1")

	updated, err := store.GetTimeslot(context.Background(), slots[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Capacity)
	assert.Equal(t, "09:00", updated.StartTime)
	assert.Equal(t, "10:00", updated.EndTime)

	_, err = run(t, app, "updateShift", slots[0].ID, "--end", "08:00")
	assert.ErrorIs(t, err, model.ErrInvalidRange)
}

func TestSignupLifecycle(t *testing.T) {
	app, store := newTestApp(t)
	ctx := context.Background()
	_, err := run(t, app, "generateShifts", "e1", "09:00", "13:00")
	require.NoError(t, err)
	slots, err := store.ListTimeslots(ctx, "e1")
	require.NoError(t, err)

	_, err = run(t, app, "signup", slots[0].ID, "u1")
	require.NoError(t, err)
	_, err = run(t, app, "signup", slots[1].ID, "u1")
	require.NoError(t, err)

	out, err := run(t, app, "assignLead", slots[0].ID, "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "u1 leads shift 1")

	_, err = run(t, app, "assignLead", slots[0].ID, "u2")
	assert.ErrorIs(t, err, model.ErrTeamLeadNotSignedUp)

	shifts, err := store.ListSignups(ctx, db.SignupFilter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, shifts, 2)

	out, err = run(t, app, "markAttendance", shifts[0].ID, "PRESENT", "--by", "coordinator")
	require.NoError(t, err)
	assert.Contains(t, out, "Marked u1 as PRESENT")

	_, err = run(t, app, "markAttendance", shifts[0].ID, "HERE")
	assert.ErrorIs(t, err, model.ErrInvalidStatus)

	_, err = run(t, app, "cancelSignup", shifts[1].ID)
	require.NoError(t, err)

	out, err = run(t, app, "mySignups", "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "PRESENT")
	assert.NotContains(t, out, "CANCELLED")

	out, err = run(t, app, "mySignups", "u1", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "CANCELLED")

	out, err = run(t, app, "removeLead", slots[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Shift 1 has no team lead")

	out, err = run(t, app, "deleteShift", slots[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "removing 1 signups")

	out, err = run(t, app, "mySignups", "u2")
	require.NoError(t, err)
	assert.Contains(t, out, "u2 has no signups")
}

func TestCreateSeries(t *testing.T) {
	app, store := newTestApp(t)
	app.Cfg.SeriesDefaults = config.SeriesDefaultsConfig{
		StartTime: "09:00",
		EndTime:   "13:00",
	}

	args := []string{"createSeries", "2026-03-07",
		"--title", "Saturday practice",
		"--rrule", "FREQ=WEEKLY;BYDAY=SA;COUNT=3",
		"--series", "sat-practice",
	}
	out, err := run(t, app, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "created 3 events, skipped 0")
	assert.Contains(t, out, "2026-03-21")

	events, err := store.ListEvents(context.Background(), "sat-practice")
	require.NoError(t, err)
	require.Len(t, events, 3)

	slots, err := store.ListTimeslots(context.Background(), events[0].ID)
	require.NoError(t, err)
	assert.Len(t, slots, 2)

	out, err = run(t, app, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "created 0 events, skipped 3")

	_, err = run(t, app, "createSeries", "07/03/2026")
	assert.Error(t, err)
}

func TestMigrate_MemoryStore(t *testing.T) {
	app, _ := newTestApp(t)
	out, err := run(t, app, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "no schema to migrate")
}

type fakeMigrator struct{ ran bool }

func (m *fakeMigrator) RunMigrations(ctx context.Context) error {
	m.ran = true
	return nil
}

func TestMigrate_RunsMigrator(t *testing.T) {
	app, _ := newTestApp(t)
	migrator := &fakeMigrator{}
	app.Migrator = migrator

	out, err := run(t, app, "migrate")
	require.NoError(t, err)
	assert.True(t, migrator.ran)
	assert.Contains(t, out, "Migrations applied")
}

func TestAppContextClose_RunsClosersInReverse(t *testing.T) {
	app, _ := newTestApp(t)
	var order []string
	app.OnClose(func() { order = append(order, "first") })
	app.OnClose(func() { order = append(order, "second") })

	app.Close()
	app.Close()
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestInteractive(t *testing.T) {
	app, store := newTestApp(t)
	var out bytes.Buffer
	root := newRoot(app, &out)

	interactive, _, err := root.Find([]string{"interactive"})
	require.NoError(t, err)

	input := strings.Join([]string{
		"addShift e1 09:00 10:00 --capacity 2",
		"addShift e1 10:00 11:00",
		"bogus",
		`signup "unterminated`,
		"help",
		"exit",
		"listShifts e1",
	}, "\n")
	require.NoError(t, runInteractive(interactive, strings.NewReader(input)))

	slots, err := store.ListTimeslots(context.Background(), "e1")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	// Flags reset between commands
	assert.Equal(t, 5, slots[1].Capacity)

	text := out.String()
	assert.Contains(t, text, "Unknown command: bogus")
	assert.Contains(t, text, "unclosed quote")
	assert.Contains(t, text, "Available commands:")
	assert.Contains(t, text, "Goodbye!")
	assert.NotContains(t, text, "Signed up")
}

func TestParseCommandLine(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{"listShifts e1", []string{"listShifts", "e1"}},
		{`createSeries 2026-03-07 --title "Saturday practice"`, []string{"createSeries", "2026-03-07", "--title", "Saturday practice"}},
		{`signup ts u1 --last-name 'O Neil'`, []string{"signup", "ts", "u1", "--last-name", "O Neil"}},
		{`addShift e1 "" 10:00`, []string{"addShift", "e1", "", "10:00"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{"", nil},
	}
	for _, tc := range cases {
		got, err := parseCommandLine(tc.line)
		require.NoError(t, err, tc.line)
		assert.Equal(t, tc.want, got, tc.line)
	}

	_, err := parseCommandLine(`say "hello`)
	assert.Error(t, err)
}
