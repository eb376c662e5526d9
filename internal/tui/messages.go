package tui

import (
	"time"

	"github.com/agbru/addcalc/internal/carry"
	"github.com/agbru/addcalc/internal/orchestration"
)

// ProgressMsg reports that a strategy started or finished.
type ProgressMsg struct {
	Index int
	Name  string
	Done  bool
}

// ProgressDoneMsg is sent once every strategy has run.
type ProgressDoneMsg struct{}

// TransitionMsg carries one state change of a rank's carry propagator.
type TransitionMsg struct {
	Strategy   string
	Transition carry.Transition
}

// ComparisonResultsMsg holds the sorted results of a multi-strategy run.
type ComparisonResultsMsg struct {
	Results []orchestration.RunResult
}

// FinalResultMsg holds the result whose sum is written out.
type FinalResultMsg struct {
	Result  orchestration.RunResult
	Verbose bool
}

// ErrorMsg reports a failed run.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// RunCompleteMsg is returned by the run command once the orchestration is
// over.
type RunCompleteMsg struct {
	Results  []orchestration.RunResult
	ExitCode int
}

// ContextCancelledMsg is sent when the run context ends before the run
// completes.
type ContextCancelledMsg struct {
	Err error
}

// TickMsg drives the periodic refresh.
type TickMsg time.Time

// SysStatsMsg holds a system-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}
