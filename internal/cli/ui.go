package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/addcalc/internal/orchestration"
)

const (
	// TruncationLimit is the digit count from which a sum is truncated on
	// standard output.
	TruncationLimit = 100
	// DisplayEdges is the number of digits shown at each end of a
	// truncated sum.
	DisplayEdges = 25
	// ProgressRefreshRate is the spinner frame interval.
	ProgressRefreshRate = 200 * time.Millisecond
)

// Spinner abstracts a terminal spinner so DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// progressSuffix is the text shown next to the spinner while strategy
// index of total runs.
func progressSuffix(u orchestration.ProgressUpdate, total int) string {
	return fmt.Sprintf(" Running %s (%d/%d)", u.Name, u.Index+1, total)
}

// DisplayProgress shows a spinner naming the strategy currently running.
// It returns, and calls wg.Done, once progressChan is closed.
//
// Parameters:
//   - wg: The WaitGroup to signal on completion.
//   - progressChan: The channel of start and finish updates.
//   - numStrategies: The number of strategies that will run.
//   - out: The writer the spinner draws on.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numStrategies int, out io.Writer) {
	defer wg.Done()
	if numStrategies <= 0 {
		for range progressChan {
		}
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(" Preparing...")
	s.Start()
	defer s.Stop()

	finished := 0
	for u := range progressChan {
		if u.Done {
			finished++
			continue
		}
		s.UpdateSuffix(progressSuffix(u, numStrategies))
	}
	if finished == numStrategies {
		s.UpdateSuffix(" Done")
	}
}
