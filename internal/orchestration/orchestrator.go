package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/agbru/addcalc/internal/bignum"
	"github.com/agbru/addcalc/internal/carry"
	"github.com/agbru/addcalc/internal/comm"
	"github.com/agbru/addcalc/internal/engine"
	apperrors "github.com/agbru/addcalc/internal/errors"
	"github.com/agbru/addcalc/internal/logging"
	"github.com/agbru/addcalc/internal/metrics"
	"github.com/agbru/addcalc/internal/verify"
)

// RunOptions configures ExecuteStrategies.
type RunOptions struct {
	// Procs is the world size.
	Procs int
	// Transport selects the comm implementation.
	Transport comm.Transport
	// Verify checks each sum against the reference addition.
	Verify bool
	// Logger receives per-run diagnostics. Nil discards them.
	Logger logging.Logger
	// Recorder collects metrics when non-nil.
	Recorder *metrics.Recorder
	// CarryObserver, when non-nil, returns an observer attached to every
	// carry propagator of the named strategy's run.
	CarryObserver func(strategy string) carry.Observer
}

// CheckStrategies returns the ConfigError of the first strategy that cannot
// run on a world of procs ranks. It is meant to be called before any input
// is read so a bad world size stops the whole invocation.
func CheckStrategies(strategies []engine.Strategy, procs int) error {
	for _, s := range strategies {
		if err := engine.CheckWorld(s, procs); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteStrategies runs each strategy in turn on a fresh world of
// opts.Procs ranks. Runs are not concurrent so their timings do not
// interfere. A failing run does not stop the others; its error is kept in
// its result.
//
// Parameters:
//   - ctx: The context for cancellation and deadlines.
//   - strategies: The strategies to run.
//   - a, b: The operands.
//   - opts: World and instrumentation settings.
//   - progressReporter: The progress display (NullProgressReporter for quiet mode).
//   - out: The writer for progress output.
//
// Returns:
//   - []RunResult: One result per strategy, in input order.
func ExecuteStrategies(ctx context.Context, strategies []engine.Strategy, a, b bignum.BigNumber, opts RunOptions, progressReporter ProgressReporter, out io.Writer) []RunResult {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	results := make([]RunResult, len(strategies))
	progressChan := make(chan ProgressUpdate, 2*len(strategies))

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(strategies), out)

	for i, s := range strategies {
		progressChan <- ProgressUpdate{Index: i, Name: s.Name()}
		results[i] = runOne(ctx, s, a, b, opts, logger.With(logging.String("strategy", s.Name())))
		progressChan <- ProgressUpdate{Index: i, Name: s.Name(), Done: true}
	}

	close(progressChan)
	displayWg.Wait()
	return results
}

func runOne(ctx context.Context, s engine.Strategy, a, b bignum.BigNumber, opts RunOptions, logger logging.Logger) RunResult {
	res := RunResult{Name: s.Name(), Procs: opts.Procs}
	if err := engine.CheckWorld(s, opts.Procs); err != nil {
		res.Err = err
		return res
	}
	comms, err := comm.NewWorld(opts.Transport, opts.Procs)
	if err != nil {
		res.Err = apperrors.NewConfigError("%v", err)
		return res
	}
	defer comm.CloseAll(comms)

	engineOpts := []engine.Option{engine.WithLogger(logger)}
	if opts.Recorder != nil {
		comms = opts.Recorder.WrapAll(comms, s.Name())
		engineOpts = append(engineOpts, engine.WithCarryObserver(opts.Recorder.CarryObserver(s.Name())))
	}
	if opts.CarryObserver != nil {
		engineOpts = append(engineOpts, engine.WithCarryObserver(opts.CarryObserver(s.Name())))
	}

	start := time.Now()
	res.Sum, res.Err = engine.Run(ctx, s, comms, a, b, engineOpts...)
	res.Duration = time.Since(start)
	if res.Err != nil {
		logger.Error("run failed", res.Err)
		return res
	}
	if opts.Recorder != nil {
		opts.Recorder.ObserveRun(s.Name(), res.Duration, res.Sum.Len())
	}
	logger.Info("run finished", logging.Int("digits", res.Sum.Len()),
		logging.Int("micros", int(res.Duration.Microseconds())))

	if opts.Verify {
		res.Err = verify.Check(res.Sum, a, b)
	}
	return res
}

// ExitCode maps a run error to the process exit status. A sum rejected by
// verification counts as a mismatch.
func ExitCode(err error) int {
	var mm verify.MismatchError
	if errors.As(err, &mm) {
		return apperrors.ExitErrorMismatch
	}
	return apperrors.ExitCode(err)
}

// AnalyzeComparisonResults sorts the results by duration, checks that
// every successful strategy produced the same sum and presents the
// comparison.
//
// Parameters:
//   - results: The results to analyze.
//   - verbose: Whether the final result is shown in full.
//   - presenter: The result presenter for display formatting.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeComparisonResults(results []RunResult, verbose bool, presenter ResultPresenter, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValid *RunResult
	var firstError error
	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
		} else if firstValid == nil {
			firstValid = &results[i]
		}
	}

	presenter.PresentComparisonTable(results, out)

	if firstValid == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy could complete the addition.\n")
		return presenter.HandleError(firstError, 0, out)
	}

	for _, res := range results {
		if res.Err == nil && !res.Sum.Equal(firstValid.Sum) {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! The strategies produced different sums.\n")
			return apperrors.ExitErrorMismatch
		}
	}
	if firstError != nil {
		fmt.Fprintf(out, "\nGlobal Status: Partial failure. Successful strategies agree.\n")
		presenter.PresentResult(*firstValid, verbose, out)
		return ExitCode(firstError)
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All strategies agree.\n")
	presenter.PresentResult(*firstValid, verbose, out)
	return apperrors.ExitSuccess
}
