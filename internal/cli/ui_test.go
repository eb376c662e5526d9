package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/briandowns/spinner"

	"github.com/agbru/addcalc/internal/orchestration"
)

// MockSpinner records the calls made by DisplayProgress.
type MockSpinner struct {
	mu       sync.Mutex
	started  bool
	stopped  bool
	suffixes []string
}

func (m *MockSpinner) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
}

func (m *MockSpinner) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

func (m *MockSpinner) UpdateSuffix(suffix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suffixes = append(m.suffixes, suffix)
}

func withMockSpinner(t *testing.T) *MockSpinner {
	t.Helper()
	mock := &MockSpinner{}
	orig := newSpinner
	newSpinner = func(...spinner.Option) Spinner { return mock }
	t.Cleanup(func() { newSpinner = orig })
	return mock
}

func TestDisplayProgress(t *testing.T) {
	mock := withMockSpinner(t)

	ch := make(chan orchestration.ProgressUpdate, 4)
	ch <- orchestration.ProgressUpdate{Index: 0, Name: "sequential"}
	ch <- orchestration.ProgressUpdate{Index: 0, Name: "sequential", Done: true}
	ch <- orchestration.ProgressUpdate{Index: 1, Name: "collective"}
	ch <- orchestration.ProgressUpdate{Index: 1, Name: "collective", Done: true}
	close(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, ch, 2, &bytes.Buffer{})
	wg.Wait()

	if !mock.started || !mock.stopped {
		t.Errorf("spinner started=%v stopped=%v, want both", mock.started, mock.stopped)
	}
	joined := strings.Join(mock.suffixes, "|")
	for _, want := range []string{"Running sequential (1/2)", "Running collective (2/2)", "Done"} {
		if !strings.Contains(joined, want) {
			t.Errorf("suffixes %q lack %q", joined, want)
		}
	}
}

func TestDisplayProgressNoStrategies(t *testing.T) {
	mock := withMockSpinner(t)

	ch := make(chan orchestration.ProgressUpdate)
	close(ch)
	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, ch, 0, &bytes.Buffer{})
	wg.Wait()

	if mock.started {
		t.Error("spinner started with no strategies")
	}
}
