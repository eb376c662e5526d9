// Package app wires configuration, input files, the engine and the
// presentation layer into the addcalc command.
package app

import (
	"context"
	"errors"
	"flag"
	"io"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agbru/addcalc/internal/config"
	"github.com/agbru/addcalc/internal/engine"
	"github.com/agbru/addcalc/internal/logging"
	"github.com/agbru/addcalc/internal/ui"
)

// Application represents the addcalc application instance.
type Application struct {
	Config    config.AppConfig
	Factory   *engine.Factory
	ErrWriter io.Writer
	// RunID identifies the invocation in every log line.
	RunID string
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom strategy factory for the application.
func WithFactory(f *engine.Factory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, RunID: uuid.NewString()}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = engine.NewDefaultFactory()
	}

	programName := "addcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the configured addition and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	zerolog.SetGlobalLevel(logging.ParseLevel(a.Config.LogLevel))
	ui.InitTheme(a.Config.NoColor)

	if a.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Config.Timeout)
		defer cancel()
	}
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.Distributed() {
		return a.runRank(ctx, out)
	}
	return a.runLocal(ctx, out)
}

// logger returns the console logger of this process, tagged with the run
// id and rank.
func (a *Application) logger() logging.Logger {
	return logging.NewConsoleLogger(a.ErrWriter, "addcalc").With(
		logging.String("run_id", a.RunID),
		logging.Int("rank", a.Config.Rank),
	)
}

// IsHelpError checks if the error is a help flag error (-help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
