package orchestration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agbru/addcalc/internal/bignum"
	"github.com/agbru/addcalc/internal/carry"
	"github.com/agbru/addcalc/internal/comm"
	"github.com/agbru/addcalc/internal/engine"
	apperrors "github.com/agbru/addcalc/internal/errors"
	"github.com/agbru/addcalc/internal/metrics"
	"github.com/agbru/addcalc/internal/verify"
)

// MockResultPresenter records what it was asked to present.
type MockResultPresenter struct {
	table     []RunResult
	presented *RunResult
}

func (m *MockResultPresenter) PresentComparisonTable(results []RunResult, out io.Writer) {
	m.table = results
}

func (m *MockResultPresenter) PresentResult(result RunResult, verbose bool, out io.Writer) {
	m.presented = &result
}

func (m *MockResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return ExitCode(err)
}

// brokenStrategy is a sequential strategy whose coordinator always
// returns a fixed sum.
type brokenStrategy struct {
	engine.Strategy
	sum bignum.BigNumber
}

func (b brokenStrategy) Name() string { return "broken" }

func (b brokenStrategy) Coordinator(c comm.Communicator, x, y bignum.BigNumber, opts ...engine.Option) engine.Coordinator {
	return fixedCoordinator{b.sum}
}

type fixedCoordinator struct{ sum bignum.BigNumber }

func (f fixedCoordinator) Participate(context.Context) error { return nil }
func (f fixedCoordinator) Result() bignum.BigNumber          { return f.sum }

func TestExecuteStrategies(t *testing.T) {
	t.Parallel()
	a, b := bignum.MustParse("999"), bignum.MustParse("1")
	strategies := engine.NewDefaultFactory().GetAll()

	var updates []ProgressUpdate
	var mu sync.Mutex
	reporter := ProgressReporterFunc(func(wg *sync.WaitGroup, ch <-chan ProgressUpdate, n int, out io.Writer) {
		defer wg.Done()
		for u := range ch {
			mu.Lock()
			updates = append(updates, u)
			mu.Unlock()
		}
	})

	rec := metrics.NewRecorder(engine.TagName)
	opts := RunOptions{Procs: 3, Transport: comm.TransportLocal, Verify: true, Recorder: rec}
	results := ExecuteStrategies(context.Background(), strategies, a, b, opts, reporter, io.Discard)

	if len(results) != len(strategies) {
		t.Fatalf("got %d results, want %d", len(results), len(strategies))
	}
	for _, res := range results {
		if res.Err != nil {
			t.Errorf("%s: %v", res.Name, res.Err)
			continue
		}
		if res.Sum.String() != "1000" {
			t.Errorf("%s: sum %s, want 1000", res.Name, res.Sum)
		}
	}
	if len(updates) != 2*len(strategies) {
		t.Errorf("got %d progress updates, want %d", len(updates), 2*len(strategies))
	}
}

func TestExecuteStrategiesTooFewProcesses(t *testing.T) {
	t.Parallel()
	opts := RunOptions{Procs: 1, Transport: comm.TransportLocal}
	results := ExecuteStrategies(context.Background(),
		[]engine.Strategy{engine.Sequential(), engine.Collective()},
		bignum.MustParse("1"), bignum.MustParse("2"), opts, NullProgressReporter{}, io.Discard)

	if results[0].Err != nil || results[0].Sum.String() != "3" {
		t.Errorf("sequential: %v %s", results[0].Err, results[0].Sum)
	}
	var cfgErr apperrors.ConfigError
	if !errors.As(results[1].Err, &cfgErr) {
		t.Errorf("collective: error = %v, want ConfigError", results[1].Err)
	}
}

func TestExecuteStrategiesVerifyFailure(t *testing.T) {
	t.Parallel()
	broken := brokenStrategy{Strategy: engine.Sequential(), sum: bignum.MustParse("7")}
	opts := RunOptions{Procs: 1, Transport: comm.TransportLocal, Verify: true}
	results := ExecuteStrategies(context.Background(), []engine.Strategy{broken},
		bignum.MustParse("1"), bignum.MustParse("2"), opts, NullProgressReporter{}, io.Discard)

	var mm verify.MismatchError
	if !errors.As(results[0].Err, &mm) {
		t.Fatalf("error = %v, want MismatchError", results[0].Err)
	}
	if ExitCode(results[0].Err) != apperrors.ExitErrorMismatch {
		t.Errorf("ExitCode() = %d", ExitCode(results[0].Err))
	}
}

func TestAnalyzeComparisonResults(t *testing.T) {
	t.Parallel()
	three := bignum.MustParse("3")
	tests := []struct {
		name     string
		results  []RunResult
		wantCode int
		wantOut  string
	}{
		{
			name: "all agree",
			results: []RunResult{
				{Name: "synchronous", Sum: three, Duration: 2 * time.Millisecond},
				{Name: "collective", Sum: three, Duration: time.Millisecond},
			},
			wantCode: apperrors.ExitSuccess,
			wantOut:  "Success",
		},
		{
			name: "mismatch",
			results: []RunResult{
				{Name: "synchronous", Sum: three},
				{Name: "overlapped", Sum: bignum.MustParse("4")},
			},
			wantCode: apperrors.ExitErrorMismatch,
			wantOut:  "CRITICAL",
		},
		{
			name: "all failed",
			results: []RunResult{
				{Name: "synchronous", Err: apperrors.NewConfigError("too few")},
			},
			wantCode: apperrors.ExitErrorConfig,
			wantOut:  "Failure",
		},
		{
			name: "partial failure",
			results: []RunResult{
				{Name: "sequential", Sum: three},
				{Name: "collective", Err: context.DeadlineExceeded},
			},
			wantCode: apperrors.ExitErrorTimeout,
			wantOut:  "Partial failure",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			presenter := &MockResultPresenter{}
			code := AnalyzeComparisonResults(tt.results, false, presenter, &out)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output %q lacks %q", out.String(), tt.wantOut)
			}
			if len(presenter.table) != len(tt.results) {
				t.Errorf("comparison table not presented")
			}
		})
	}
}

func TestAnalyzeSortsByDuration(t *testing.T) {
	t.Parallel()
	one := bignum.MustParse("1")
	results := []RunResult{
		{Name: "failed", Err: errors.New("x")},
		{Name: "slow", Sum: one, Duration: time.Second},
		{Name: "fast", Sum: one, Duration: time.Millisecond},
	}
	presenter := &MockResultPresenter{}
	AnalyzeComparisonResults(results, false, presenter, io.Discard)
	if presenter.table[0].Name != "fast" || presenter.table[2].Name != "failed" {
		t.Errorf("order = %s, %s, %s", presenter.table[0].Name, presenter.table[1].Name, presenter.table[2].Name)
	}
	if presenter.presented == nil || presenter.presented.Name != "fast" {
		t.Errorf("fastest successful result not presented")
	}
}

func TestGetStrategiesToRun(t *testing.T) {
	t.Parallel()
	factory := engine.NewDefaultFactory()
	if got := GetStrategiesToRun("all", factory); len(got) != 4 {
		t.Errorf("all: got %d strategies, want 4", len(got))
	}
	if got := GetStrategiesToRun("collective", factory); len(got) != 1 || got[0].Name() != "collective" {
		t.Errorf("collective: got %v", got)
	}
	if got := GetStrategiesToRun("pipelined", factory); got != nil {
		t.Errorf("unknown: got %v, want nil", got)
	}
}

func TestCheckStrategies(t *testing.T) {
	t.Parallel()
	all := engine.NewDefaultFactory().GetAll()

	err := CheckStrategies(all, 1)
	var cfgErr apperrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("CheckStrategies(all, 1) = %v, want ConfigError", err)
	}
	if err := CheckStrategies([]engine.Strategy{engine.Sequential()}, 1); err != nil {
		t.Errorf("sequential on one process: %v", err)
	}
	if err := CheckStrategies(all, 2); err != nil {
		t.Errorf("CheckStrategies(all, 2) = %v", err)
	}
}

func TestExecuteStrategiesCarryObserver(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	done := map[string]int{}
	opts := RunOptions{
		Procs:     4,
		Transport: comm.TransportLocal,
		CarryObserver: func(strategy string) carry.Observer {
			return carry.ObserverFunc(func(tr carry.Transition) {
				if tr.To == carry.Done {
					mu.Lock()
					done[strategy]++
					mu.Unlock()
				}
			})
		},
	}
	strategies := []engine.Strategy{engine.Synchronous(), engine.Collective()}
	results := ExecuteStrategies(context.Background(), strategies,
		bignum.MustParse("999999"), bignum.MustParse("1"), opts, NullProgressReporter{}, io.Discard)
	for _, res := range results {
		if res.Err != nil {
			t.Fatalf("%s: %v", res.Name, res.Err)
		}
	}
	// Synchronous runs a propagator on the 3 workers, collective on all 4 ranks.
	if done["synchronous"] != 3 || done["collective"] != 4 {
		t.Errorf("propagators finished = %v", done)
	}
}
