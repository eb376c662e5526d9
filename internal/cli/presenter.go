package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/addcalc/internal/format"
	"github.com/agbru/addcalc/internal/metrics"
	"github.com/agbru/addcalc/internal/orchestration"
	"github.com/agbru/addcalc/internal/sysmon"
	"github.com/agbru/addcalc/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// terminal spinner.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress delegates to DisplayProgress.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numStrategies int, out io.Writer) {
	DisplayProgress(wg, progressChan, numStrategies, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter with
// colorized terminal output.
type CLIResultPresenter struct{}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

func displayDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// PresentComparisonTable displays one row per strategy with its world
// size, duration and status. Padding is computed on the plain text so the
// ANSI codes do not break alignment.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.RunResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	maxNameLen := len("Strategy")
	maxDurationLen := len("Duration")
	for _, res := range results {
		if len(res.Name) > maxNameLen {
			maxNameLen = len(res.Name)
		}
		if l := len(displayDuration(res.Duration)); l > maxDurationLen {
			maxDurationLen = l
		}
	}

	fmt.Fprintf(out, "%sStrategy%s%s   %sRanks%s   %sDuration%s%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxNameLen-len("Strategy")),
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxDurationLen-len("Duration")),
		ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorError(), res.Err, ui.ColorReset())
		} else {
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorSuccess(), ui.ColorReset())
		}
		duration := displayDuration(res.Duration)
		ranks := fmt.Sprintf("%d", res.Procs)
		fmt.Fprintf(out, "%s%s%s%s   %s%s   %s%s%s%s   %s\n",
			ui.ColorPrimary(), res.Name, ui.ColorReset(), padRight("", maxNameLen-len(res.Name)),
			ranks, padRight("", len("Ranks")-len(ranks)),
			ui.ColorWarning(), duration, ui.ColorReset(), padRight("", maxDurationLen-len(duration)),
			status)
	}
}

// padRight appends length spaces to s.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentResult displays a successful run with DisplayResult.
func (CLIResultPresenter) PresentResult(result orchestration.RunResult, verbose bool, out io.Writer) {
	DisplayResult(result, verbose, out)
}

// HandleError prints err and returns its exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	if err == nil {
		return orchestration.ExitCode(nil)
	}
	if duration > 0 {
		fmt.Fprintf(out, "%sError after %s: %v%s\n", ui.ColorError(), format.FormatExecutionDuration(duration), err, ui.ColorReset())
	} else {
		fmt.Fprintf(out, "%sError: %v%s\n", ui.ColorError(), err, ui.ColorReset())
	}
	return orchestration.ExitCode(err)
}

// DisplayMemoryStats shows the memory activity of a run.
func DisplayMemoryStats(s metrics.MemorySnapshot, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(s.HeapAlloc))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(s.TotalAlloc))
	fmt.Fprintf(out, "  GC cycles:       %d\n", s.NumGC)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(s.PauseTotalNs)/1e6)
}

// DisplaySystemStats shows the system-wide load sampled after a run.
func DisplaySystemStats(s sysmon.Stats, out io.Writer) {
	fmt.Fprintf(out, "  System CPU:      %.1f%%\n", s.CPUPercent)
	fmt.Fprintf(out, "  System memory:   %.1f%% (%s of %s)\n", s.MemPercent, format.FormatBytes(s.MemUsed), format.FormatBytes(s.MemTotal))
}
