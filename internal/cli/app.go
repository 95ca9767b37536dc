package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/shelter/internal/config"
	"github.com/roach88/shelter/internal/directory"
	"github.com/roach88/shelter/internal/ledger"
	"github.com/roach88/shelter/internal/metrics"
	"github.com/roach88/shelter/internal/report"
	"github.com/roach88/shelter/internal/store"
)

// app is the set of components one command runs against.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	store   *store.Store

	directory *directory.Directory
	ledger    *ledger.Ledger
	reports   *report.Aggregator
}

// openApp loads the configuration, opens the database and wires the
// components. The caller must Close the app.
func (o *RootOptions) openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg)
	if cfg.File != "" {
		logger.Debug("config loaded", "file", cfg.File)
	}

	logger.Debug("opening database", "path", cfg.DBPath)
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	m := metrics.New()
	return &app{
		cfg:       cfg,
		logger:    logger,
		metrics:   m,
		store:     st,
		directory: directory.New(st, o.Clock, logger, m),
		ledger:    ledger.New(st, o.Clock, logger, m),
		reports:   report.New(st, o.Clock, logger, m),
	}, nil
}

// Close releases the database.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
	}
}
