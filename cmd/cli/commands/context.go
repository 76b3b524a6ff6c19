package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/internal/config"
	"github.com/jakechorley/shiftsignup/pkg/clients/sheetsclient"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

// Migrator applies the store's schema migrations
type Migrator interface {
	RunMigrations(ctx context.Context) error
}

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Database db.Database
	Migrator Migrator // nil for stores without a schema
	Logger   *zap.Logger
	Ctx      context.Context

	sheetsClient *sheetsclient.Client
	closers      []func()
}

// OnClose registers fn to run when the app shuts down
func (a *AppContext) OnClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// Close releases everything registered with OnClose, last first, and flushes the logger
func (a *AppContext) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	if a.Logger != nil {
		a.Logger.Sync()
	}
}

// SheetsClient returns the Google Sheets client, authorising on first use.
// Only roster export needs it, so other commands never trigger the OAuth flow.
func (a *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if a.sheetsClient != nil {
		return a.sheetsClient, nil
	}

	a.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(a.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	a.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(a.Ctx, oauthCfg, a.Env, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	a.Logger.Debug("Sheets client initialized successfully")

	a.sheetsClient = client
	return client, nil
}
