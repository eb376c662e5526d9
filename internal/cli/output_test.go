package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agbru/addcalc/internal/bignum"
	"github.com/agbru/addcalc/internal/config"
	apperrors "github.com/agbru/addcalc/internal/errors"
	"github.com/agbru/addcalc/internal/metrics"
	"github.com/agbru/addcalc/internal/orchestration"
	"github.com/agbru/addcalc/internal/sysmon"
	"github.com/agbru/addcalc/internal/ui"
	"github.com/agbru/addcalc/internal/verify"
)

func init() {
	ui.InitTheme(true)
}

func TestFormatQuietResult(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0"},
		{1500 * time.Nanosecond, "1"},
		{2 * time.Second, "2000000"},
	}
	for _, tt := range tests {
		if got := FormatQuietResult(tt.d); got != tt.want {
			t.Errorf("FormatQuietResult(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatSum(t *testing.T) {
	t.Parallel()
	long := bignum.MustParse("1" + strings.Repeat("0", 149) + "7")

	if s, tr := FormatSum(bignum.MustParse("1000"), false); s != "1000" || tr {
		t.Errorf("short sum: %q %v", s, tr)
	}
	s, tr := FormatSum(long, false)
	if !tr || len(s) != 2*DisplayEdges+3 || !strings.HasPrefix(s, "1") || !strings.HasSuffix(s, "7") {
		t.Errorf("long sum: %q %v", s, tr)
	}
	if s, tr := FormatSum(long, true); tr || s != long.String() {
		t.Errorf("full sum truncated")
	}
}

func TestDisplayResult(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		sum      string
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name:     "short",
			sum:      "1000",
			contains: []string{"Result", "synchronous", "Ranks:            4", "Digits:           4", "1000"},
			excludes: []string{"truncated"},
		},
		{
			name:     "truncated",
			sum:      strings.Repeat("9", 200),
			contains: []string{"...", "(truncated)", "-verbose"},
		},
		{
			name:     "verbose",
			sum:      strings.Repeat("9", 200),
			verbose:  true,
			contains: []string{strings.Repeat("9", 200)},
			excludes: []string{"truncated"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			res := orchestration.RunResult{Name: "synchronous", Procs: 4, Sum: bignum.MustParse(tt.sum), Duration: time.Millisecond}
			DisplayResult(res, tt.verbose, &buf)
			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output lacks %q:\n%s", want, out)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(out, bad) {
					t.Errorf("output contains %q:\n%s", bad, out)
				}
			}
		})
	}
}

func TestPresentComparisonTable(t *testing.T) {
	t.Parallel()
	results := []orchestration.RunResult{
		{Name: "collective", Procs: 4, Sum: bignum.MustParse("3"), Duration: 3 * time.Millisecond},
		{Name: "overlapped", Procs: 1, Err: apperrors.NewConfigError("too few processes")},
	}
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentComparisonTable(results, &buf)
	out := buf.String()
	for _, want := range []string{"Comparison Summary", "Strategy", "Duration", "collective", "3ms", "Success", "Failure (too few processes)", "< 1µs"} {
		if !strings.Contains(out, want) {
			t.Errorf("table lacks %q:\n%s", want, out)
		}
	}
}

func TestHandleError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		want int
	}{
		{nil, apperrors.ExitSuccess},
		{apperrors.NewConfigError("bad"), apperrors.ExitErrorConfig},
		{verify.MismatchError{Got: bignum.MustParse("1"), Want: bignum.MustParse("2")}, apperrors.ExitErrorMismatch},
		{errors.New("boom"), apperrors.ExitErrorGeneric},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if got := (CLIResultPresenter{}).HandleError(tt.err, time.Millisecond, &buf); got != tt.want {
			t.Errorf("HandleError(%v) = %d, want %d", tt.err, got, tt.want)
		}
		if tt.err != nil && !strings.Contains(buf.String(), tt.err.Error()) {
			t.Errorf("output %q lacks the error", buf.String())
		}
	}
}

func TestPrintExecutionConfig(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()
	cfg.Strategy = "overlapped"
	cfg.Verify = true
	cfg.Timeout = time.Minute

	var buf bytes.Buffer
	PrintExecutionConfig(cfg, 12, 3, &buf)
	out := buf.String()
	for _, want := range []string{"12-digit", "3-digit", "overlapped", "4 ranks", "local", "1m0s", "Verification"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}

	cfg.Peers = []string{"h0:1", "h1:1"}
	cfg.Rank = 1
	buf.Reset()
	PrintExecutionConfig(cfg, 1, 1, &buf)
	if !strings.Contains(buf.String(), "rank 1 of 2") {
		t.Errorf("distributed world not described:\n%s", buf.String())
	}
}

func TestDisplayMemoryStats(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayMemoryStats(metrics.MemorySnapshot{HeapAlloc: 2048, TotalAlloc: 1 << 20, NumGC: 3, PauseTotalNs: 1500000}, &buf)
	out := buf.String()
	for _, want := range []string{"2.0 KiB", "1.0 MiB", "GC cycles:       3", "1.50ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestDisplaySystemStats(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplaySystemStats(sysmon.Stats{CPUPercent: 7.25, MemPercent: 50, MemUsed: 1 << 30, MemTotal: 2 << 30}, &buf)
	out := buf.String()
	for _, want := range []string{"7.2%", "50.0%", "1.0 GiB of 2.0 GiB"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}
