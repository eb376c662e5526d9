package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/addcalc/internal/bignum"
)

// RunResult is the outcome of running one strategy.
type RunResult struct {
	// Name is the strategy name.
	Name string
	// Procs is the number of ranks the strategy ran on.
	Procs int
	// Sum is the assembled sum. It is only meaningful when Err is nil.
	Sum bignum.BigNumber
	// Duration is the wall time of the distributed addition alone.
	Duration time.Duration
	// Err is the error that stopped the run, if any.
	Err error
}

// ProgressUpdate reports that the strategy at Index started or finished.
type ProgressUpdate struct {
	Index int
	Name  string
	Done  bool
}

// ProgressReporter displays run progress. It is decoupled from the
// orchestration so quiet mode and tests can replace the terminal display.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed, then
	// calls wg.Done.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numStrategies int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numStrategies int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numStrategies int, out io.Writer) {
	f(wg, progressChan, numStrategies, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
	}
}

// ResultPresenter presents run results.
type ResultPresenter interface {
	// PresentComparisonTable displays one row per strategy.
	PresentComparisonTable(results []RunResult, out io.Writer)
	// PresentResult displays a successful run.
	PresentResult(result RunResult, verbose bool, out io.Writer)
	// HandleError reports a failed run and returns the exit code.
	HandleError(err error, duration time.Duration, out io.Writer) int
}
