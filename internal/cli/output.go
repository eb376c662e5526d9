// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a string without performing I/O.
//   - Print* functions write a configuration summary.

package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agbru/addcalc/internal/bignum"
	"github.com/agbru/addcalc/internal/config"
	"github.com/agbru/addcalc/internal/format"
	"github.com/agbru/addcalc/internal/orchestration"
	"github.com/agbru/addcalc/internal/ui"
)

// FormatQuietResult returns the elapsed time in whole microseconds, the
// only output of quiet mode.
func FormatQuietResult(duration time.Duration) string {
	return fmt.Sprintf("%d", duration.Microseconds())
}

// DisplayQuietResult writes FormatQuietResult and a newline.
func DisplayQuietResult(out io.Writer, duration time.Duration) {
	fmt.Fprintln(out, FormatQuietResult(duration))
}

// FormatSum returns the decimal sum, shortened to its first and last
// DisplayEdges digits when it has more than TruncationLimit digits and
// full is false.
func FormatSum(n bignum.BigNumber, full bool) (string, bool) {
	s := n.String()
	if full || len(s) <= TruncationLimit {
		return s, false
	}
	return s[:DisplayEdges] + "..." + s[len(s)-DisplayEdges:], true
}

// DisplayResult prints the summary of a successful run under a lipgloss
// title.
//
// Parameters:
//   - res: The run to display.
//   - verbose: Whether the sum is printed in full.
//   - out: The output writer.
func DisplayResult(res orchestration.RunResult, verbose bool, out io.Writer) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.TitleStyle().Render("Result"))
	fmt.Fprintf(out, "  Strategy:         %s%s%s\n", ui.ColorPrimary(), res.Name, ui.ColorReset())
	fmt.Fprintf(out, "  Ranks:            %d\n", res.Procs)
	fmt.Fprintf(out, "  Computation time: %s%s%s\n", ui.ColorWarning(), format.FormatExecutionDuration(res.Duration), ui.ColorReset())
	fmt.Fprintf(out, "  Digits:           %d\n", res.Sum.Len())

	sum, truncated := FormatSum(res.Sum, verbose)
	fmt.Fprintf(out, "  Sum:              %s%s%s\n", ui.ColorBold(), sum, ui.ColorReset())
	if truncated {
		fmt.Fprintf(out, "  %s(truncated) Tip: use -verbose to print every digit.%s\n", ui.ColorInfo(), ui.ColorReset())
	}
}

// PrintExecutionConfig describes the run about to start.
func PrintExecutionConfig(cfg config.AppConfig, digitsA, digitsB int, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Adding %s%d%s-digit and %s%d%s-digit numbers.\n",
		ui.ColorPrimary(), digitsA, ui.ColorReset(), ui.ColorPrimary(), digitsB, ui.ColorReset())
	fmt.Fprintf(out, "Strategy: %s%s%s\n", ui.ColorPrimary(), cfg.Strategy, ui.ColorReset())
	if cfg.Distributed() {
		fmt.Fprintf(out, "World: rank %d of %d over %s\n", cfg.Rank, cfg.WorldSize(), strings.Join(cfg.Peers, ","))
	} else {
		fmt.Fprintf(out, "World: %d ranks, %s transport\n", cfg.Procs, cfg.Transport)
	}
	if cfg.Timeout > 0 {
		fmt.Fprintf(out, "Timeout: %s\n", cfg.Timeout)
	}
	if cfg.Verify {
		fmt.Fprintf(out, "Verification: enabled\n")
	}
	fmt.Fprintln(out)
}
