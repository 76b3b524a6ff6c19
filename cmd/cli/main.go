package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/cmd/cli/commands"
	"github.com/jakechorley/shiftsignup/internal/config"
	"github.com/jakechorley/shiftsignup/pkg/memstore"
	"github.com/jakechorley/shiftsignup/pkg/postgres"
	"github.com/jakechorley/shiftsignup/pkg/utils/logging"
)

var env string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &commands.AppContext{Ctx: ctx}

	rootCmd := &cobra.Command{
		Use:   "shifts",
		Short: "Shift signup CLI - Manage event shifts and volunteer signups",
		Long:  `A CLI tool for generating event shifts, managing volunteer signups and attendance, and serving the signup API.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(app)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.GenerateShiftsCmd(app))
	rootCmd.AddCommand(commands.AddShiftCmd(app))
	rootCmd.AddCommand(commands.ListShiftsCmd(app))
	rootCmd.AddCommand(commands.UpdateShiftCmd(app))
	rootCmd.AddCommand(commands.DeleteShiftCmd(app))
	rootCmd.AddCommand(commands.AssignLeadCmd(app))
	rootCmd.AddCommand(commands.RemoveLeadCmd(app))
	rootCmd.AddCommand(commands.SignupCmd(app))
	rootCmd.AddCommand(commands.CancelSignupCmd(app))
	rootCmd.AddCommand(commands.MarkAttendanceCmd(app))
	rootCmd.AddCommand(commands.MySignupsCmd(app))
	rootCmd.AddCommand(commands.WatchCmd(app))
	rootCmd.AddCommand(commands.CreateSeriesCmd(app))
	rootCmd.AddCommand(commands.PublishRosterCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config and the store
func initApp(app *commands.AppContext) error {
	// Secrets may live in a .env file next to the binary or the repo root
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	var err error
	app.Env = env

	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully", zap.String("store", app.Cfg.Store))

	switch app.Cfg.Store {
	case config.StoreMemory:
		app.Logger.Warn("Using in-memory store, data is lost on exit")
		app.Database = memstore.New()
	default:
		app.Logger.Info("Connecting to database")
		pg, err := postgres.NewDB(app.Ctx, app.Cfg.Database.URL, postgres.WithPollInterval(app.Cfg.Database.PollInterval))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		app.Database = pg
		app.Migrator = pg
		app.OnClose(pg.Close)
	}
	app.Logger.Info("Database initialized successfully")

	return nil
}
