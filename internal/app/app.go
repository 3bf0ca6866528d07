// Package app assembles the courier node: durable account store,
// deterministic execution engine, checkpoint scheduler and HTTP surface.
package app

import (
	"context"
	"fmt"
	"time"

	"courier/internal/checkpoint"
	"courier/pkg/banner"
	"courier/pkg/config"
	"courier/pkg/instr"
	"courier/pkg/ledger"
	"courier/pkg/logger"
	"courier/pkg/program"
	"courier/pkg/store"
)

// Options carries the resolved runtime settings into the app.
type Options struct {
	Config  *config.Config
	Addr    string
	DBPath  string
	Source  string
	Version string
}

// App owns the server components and their lifecycle.
type App struct {
	opts   Options
	db     *store.DB
	prog   *program.Program
	engine *ledger.Engine

	srv httpServer
}

// New opens the store and builds the execution stack. It does not start
// the HTTP server or the checkpoint scheduler; call Run for those.
func New(opts Options) (*App, error) {
	programID, err := opts.Config.ProgramID()
	if err != nil {
		return nil, fmt.Errorf("invalid program config: %w", err)
	}
	vault, err := opts.Config.VaultKey()
	if err != nil {
		return nil, fmt.Errorf("invalid program config: %w", err)
	}

	db, err := store.Open(opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", opts.DBPath, err)
	}

	prog := program.New(programID, vault)
	if pct := opts.Config.Program.FeePct; pct > 0 {
		prog.FeePct = pct
	}
	engine := ledger.NewEngine(db, ledger.WallClock{}, prog)
	engine.OpName = instr.Name

	return &App{opts: opts, db: db, prog: prog, engine: engine}, nil
}

// Run starts the checkpoint scheduler and the HTTP server, then blocks
// until ctx is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	banner.Print(a.opts.Config, a.opts.Addr, a.opts.DBPath, a.opts.Source, a.opts.Version)

	stopCheckpoints, err := checkpoint.Start(ctx, a.db, a.opts.Config.Storage.CheckpointCron)
	if err != nil {
		return err
	}
	defer stopCheckpoints()

	errCh := a.startHTTP()

	select {
	case <-ctx.Done():
		a.shutdown()
		return nil
	case err := <-errCh:
		a.shutdown()
		return err
	}
}

// shutdown drains the HTTP server and closes the store. Commits hold the
// engine mutex, so closing after the drain cannot race a write.
func (a *App) shutdown() {
	if a.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(ctx); err != nil {
			logger.Warn("http_shutdown_error", "error", err)
		}
	}
	if err := a.db.Close(); err != nil {
		logger.Warn("store_close_error", "error", err)
	}
	logger.Info("node_stopped")
}
