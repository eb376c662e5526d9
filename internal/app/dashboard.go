package app

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/addcalc/internal/bignum"
	"github.com/agbru/addcalc/internal/engine"
	apperrors "github.com/agbru/addcalc/internal/errors"
	"github.com/agbru/addcalc/internal/logging"
	"github.com/agbru/addcalc/internal/orchestration"
	"github.com/agbru/addcalc/internal/tui"
)

// runDashboard runs the strategies under the interactive dashboard and
// writes the sum once the user leaves it. Console logging is silenced
// while the dashboard owns the terminal.
func (a *Application) runDashboard(ctx context.Context, strategies []engine.Strategy, x, y bignum.BigNumber, opts orchestration.RunOptions, out io.Writer, progOpts ...tea.ProgramOption) int {
	logger := opts.Logger
	opts.Logger = logging.Nop()
	outcome := tui.Run(ctx, tui.RunSpec{
		Strategies: strategies,
		A:          x,
		B:          y,
		Options:    opts,
		Verbose:    a.Config.Verbose,
	}, Version, progOpts...)
	a.writeMetrics(opts.Recorder, logger)

	// Successful runs sort first.
	if len(outcome.Results) == 0 || outcome.Results[0].Err != nil || outcome.ExitCode == apperrors.ExitErrorMismatch {
		return outcome.ExitCode
	}
	if c := a.finish(outcome.Results[0], out); c != apperrors.ExitSuccess {
		return c
	}
	return outcome.ExitCode
}
