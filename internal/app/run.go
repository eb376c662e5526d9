package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agbru/addcalc/internal/bignum"
	"github.com/agbru/addcalc/internal/cli"
	"github.com/agbru/addcalc/internal/comm"
	"github.com/agbru/addcalc/internal/engine"
	apperrors "github.com/agbru/addcalc/internal/errors"
	"github.com/agbru/addcalc/internal/logging"
	"github.com/agbru/addcalc/internal/metrics"
	"github.com/agbru/addcalc/internal/numfile"
	"github.com/agbru/addcalc/internal/orchestration"
	"github.com/agbru/addcalc/internal/sysmon"
	"github.com/agbru/addcalc/internal/ui"
	"github.com/agbru/addcalc/internal/verify"
)

// runLocal runs the selected strategies on an in-process world of
// Config.Procs ranks.
func (a *Application) runLocal(ctx context.Context, out io.Writer) int {
	logger := a.logger()
	presenter := cli.CLIResultPresenter{}

	strategies := orchestration.GetStrategiesToRun(a.Config.Strategy, a.Factory)
	// No strategy runs, and no file is touched, unless every selected one
	// fits the world.
	if err := orchestration.CheckStrategies(strategies, a.Config.Procs); err != nil {
		return presenter.HandleError(err, 0, a.ErrWriter)
	}
	x, y, err := a.readOperands(logger)
	if err != nil {
		return presenter.HandleError(err, 0, a.ErrWriter)
	}

	recorder := a.recorder()
	opts := orchestration.RunOptions{
		Procs:     a.Config.Procs,
		Transport: comm.Transport(a.Config.Transport),
		Verify:    a.Config.Verify,
		Logger:    logger,
		Recorder:  recorder,
	}
	if a.Config.TUI {
		return a.runDashboard(ctx, strategies, x, y, opts, out)
	}

	var progressReporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	reportOut := out
	if a.Config.Quiet {
		progressReporter = orchestration.NullProgressReporter{}
		reportOut = io.Discard
	} else {
		cli.PrintExecutionConfig(a.Config, x.Len(), y.Len(), out)
	}
	mem := metrics.NewMemoryCollector()
	before := mem.Snapshot()
	results := orchestration.ExecuteStrategies(ctx, strategies, x, y, opts, progressReporter, reportOut)
	usage := mem.Snapshot().Since(before)
	a.writeMetrics(recorder, logger)

	code := apperrors.ExitSuccess
	if len(results) == 1 {
		if results[0].Err != nil {
			return presenter.HandleError(results[0].Err, results[0].Duration, a.ErrWriter)
		}
		if !a.Config.Quiet {
			presenter.PresentResult(results[0], a.Config.Verbose, out)
		}
	} else {
		code = orchestration.AnalyzeComparisonResults(results, a.Config.Verbose, presenter, reportOut)
		// Successful runs sort first.
		if results[0].Err != nil || code == apperrors.ExitErrorMismatch {
			return code
		}
	}

	if c := a.finish(results[0], out); c != apperrors.ExitSuccess {
		return c
	}
	if a.Config.Verbose {
		cli.DisplayMemoryStats(usage, out)
		cli.DisplaySystemStats(sysmon.Sample(), out)
	}
	return code
}

// runRank runs this process as rank Config.Rank of a world whose ranks
// talk over gRPC. Only rank 0 reads the operands and writes the sum.
func (a *Application) runRank(ctx context.Context, out io.Writer) int {
	logger := a.logger()
	presenter := cli.CLIResultPresenter{}

	s, err := a.Factory.Get(a.Config.Strategy)
	if err != nil {
		return presenter.HandleError(apperrors.NewConfigError("%v", err), 0, a.ErrWriter)
	}
	if err := engine.CheckWorld(s, a.Config.WorldSize()); err != nil {
		return presenter.HandleError(err, 0, a.ErrWriter)
	}

	coordinator := a.Config.Rank == 0
	var x, y bignum.BigNumber
	if coordinator {
		if x, y, err = a.readOperands(logger); err != nil {
			return presenter.HandleError(err, 0, a.ErrWriter)
		}
		if !a.Config.Quiet {
			cli.PrintExecutionConfig(a.Config, x.Len(), y.Len(), out)
		}
	}

	endpoint, err := comm.DialGRPC(a.Config.Rank, a.Config.Peers)
	if err != nil {
		return presenter.HandleError(err, 0, a.ErrWriter)
	}
	defer endpoint.Close()

	logger = logger.With(logging.String("strategy", s.Name()))
	var c comm.Communicator = endpoint
	opts := []engine.Option{engine.WithLogger(logger)}
	recorder := a.recorder()
	if recorder != nil {
		c = recorder.Wrap(c, s.Name())
		opts = append(opts, engine.WithCarryObserver(recorder.CarryObserver(s.Name())))
	}

	logger.Info("joining world", logging.String("addr", endpoint.Addr()), logging.Int("size", c.Size()))
	start := time.Now()
	sum, err := engine.Participate(ctx, s, c, x, y, opts...)
	duration := time.Since(start)
	if err == nil && coordinator && recorder != nil {
		recorder.ObserveRun(s.Name(), duration, sum.Len())
	}
	a.writeMetrics(recorder, logger)
	if err != nil {
		logger.Error("run failed", err)
		return presenter.HandleError(err, duration, a.ErrWriter)
	}
	if !coordinator {
		logger.Info("rank finished", logging.Int("micros", int(duration.Microseconds())))
		return apperrors.ExitSuccess
	}

	if a.Config.Verify {
		if err := verify.Check(sum, x, y); err != nil {
			return presenter.HandleError(err, duration, a.ErrWriter)
		}
	}
	res := orchestration.RunResult{Name: s.Name(), Procs: a.Config.WorldSize(), Sum: sum, Duration: duration}
	if !a.Config.Quiet {
		presenter.PresentResult(res, a.Config.Verbose, out)
	}
	return a.finish(res, out)
}

func (a *Application) readOperands(logger logging.Logger) (x, y bignum.BigNumber, err error) {
	if x, err = numfile.Read(a.Config.Input1, logger); err != nil {
		return x, y, err
	}
	y, err = numfile.Read(a.Config.Input2, logger)
	return x, y, err
}

// finish writes the sum to the output file and reports the elapsed time.
func (a *Application) finish(res orchestration.RunResult, out io.Writer) int {
	if err := numfile.Write(a.Config.Output, res.Sum); err != nil {
		return cli.CLIResultPresenter{}.HandleError(err, 0, a.ErrWriter)
	}
	if a.Config.Quiet {
		cli.DisplayQuietResult(out, res.Duration)
		return apperrors.ExitSuccess
	}
	fmt.Fprintf(out, "\n%s✓ Sum saved to: %s%s%s\n", ui.ColorSuccess(), ui.ColorInfo(), a.Config.Output, ui.ColorReset())
	return apperrors.ExitSuccess
}

// recorder returns a metrics recorder when a metrics file was requested.
func (a *Application) recorder() *metrics.Recorder {
	if a.Config.MetricsFile == "" {
		return nil
	}
	return metrics.NewRecorder(engine.TagName)
}

// writeMetrics writes the recorder's registry. A failure is logged and does
// not change the exit code.
func (a *Application) writeMetrics(r *metrics.Recorder, logger logging.Logger) {
	if r == nil {
		return
	}
	if err := r.WriteFile(a.Config.MetricsFile); err != nil {
		logger.Warn("writing metrics failed", logging.String("path", a.Config.MetricsFile), logging.Err(err))
	}
}
