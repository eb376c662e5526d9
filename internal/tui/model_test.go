package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/addcalc/internal/bignum"
	"github.com/agbru/addcalc/internal/carry"
	"github.com/agbru/addcalc/internal/comm"
	"github.com/agbru/addcalc/internal/engine"
	apperrors "github.com/agbru/addcalc/internal/errors"
	"github.com/agbru/addcalc/internal/orchestration"
)

func testSpec(procs int) RunSpec {
	return RunSpec{
		Strategies: engine.NewDefaultFactory().GetAll(),
		A:          bignum.MustParse("999999"),
		B:          bignum.MustParse("1"),
		Options:    orchestration.RunOptions{Procs: procs, Transport: comm.TransportLocal, Verify: true},
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func transition(strategy string, rank int, to carry.State, c carry.Token) TransitionMsg {
	return TransitionMsg{Strategy: strategy, Transition: carry.Transition{Rank: rank, To: to, Carry: c}}
}

func TestModelTracksCarryChain(t *testing.T) {
	m := NewModel(context.Background(), testSpec(3), "v1.0.0")
	defer m.cancel()

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	if got := m.View(); !strings.Contains(got, "waiting for the first carry") {
		t.Errorf("empty chain not shown:\n%s", got)
	}

	m, _ = update(t, m, ProgressMsg{Index: 1, Name: "synchronous"})
	m, _ = update(t, m, transition("synchronous", 1, carry.ForwardingCarry, 1))
	m, _ = update(t, m, transition("synchronous", 2, carry.Done, 0))
	m, _ = update(t, m, transition("overlapped", 1, carry.Done, 1))

	chain := m.rows[m.index["synchronous"]].chain
	if done, seen := chain.settled(); done != 1 || seen != 2 {
		t.Errorf("settled() = %d/%d, want 1/2", done, seen)
	}
	view := m.View()
	for _, want := range []string{"Carry chain: synchronous", "rank 1", "ForwardingCarry", "rank 2", "(1/2 settled)", "v1.0.0"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestModelPauseFreezesChain(t *testing.T) {
	m := NewModel(context.Background(), testSpec(2), "dev")
	defer m.cancel()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.paused {
		t.Fatal("space should pause")
	}
	m, _ = update(t, m, transition("collective", 1, carry.Done, 0))
	if _, seen := m.rows[m.index["collective"]].chain.settled(); seen != 0 {
		t.Errorf("paused model recorded %d ranks", seen)
	}
}

func TestModelSelection(t *testing.T) {
	m := NewModel(context.Background(), testSpec(2), "dev")
	defer m.cancel()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.selected != 0 {
		t.Errorf("selected = %d after up at the top, want 0", m.selected)
	}
	for range m.rows {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.selected != len(m.rows)-1 {
		t.Errorf("selected = %d, want last row %d", m.selected, len(m.rows)-1)
	}
}

func TestModelQuitBeforeCompletion(t *testing.T) {
	m := NewModel(context.Background(), testSpec(2), "dev")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("quit key returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit key should quit the program")
	}
	out := m.Outcome()
	if out.ExitCode != apperrors.ExitErrorCanceled || out.Results != nil {
		t.Errorf("Outcome() = %+v, want canceled without results", out)
	}
}

func TestModelContextEndsRun(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	m := NewModel(ctx, testSpec(2), "dev")
	defer m.cancel()
	<-ctx.Done()

	m, cmd := update(t, m, ContextCancelledMsg{Err: context.DeadlineExceeded})
	if cmd == nil {
		t.Fatal("an ended context should quit the program")
	}
	if got := m.Outcome().ExitCode; got != apperrors.ExitErrorTimeout {
		t.Errorf("exit code = %d, want %d", got, apperrors.ExitErrorTimeout)
	}
}

func TestModelRunComplete(t *testing.T) {
	m := NewModel(context.Background(), testSpec(2), "dev")
	defer m.cancel()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 24})

	sum := bignum.MustParse("1000000")
	results := []orchestration.RunResult{
		{Name: "collective", Procs: 2, Sum: sum, Duration: time.Millisecond},
		{Name: "overlapped", Procs: 2, Err: errors.New("link down")},
	}
	m, _ = update(t, m, FinalResultMsg{Result: results[0]})
	m, _ = update(t, m, ErrorMsg{Err: results[1].Err})
	m, _ = update(t, m, RunCompleteMsg{Results: results, ExitCode: apperrors.ExitErrorGeneric})

	out := m.Outcome()
	if out.ExitCode != apperrors.ExitErrorGeneric || len(out.Results) != 2 {
		t.Fatalf("Outcome() = %+v", out)
	}
	if m.rows[m.index["overlapped"]].status != rowFailed {
		t.Error("failed run not marked")
	}
	view := m.View()
	for _, want := range []string{"Sum (7 digits, collective): 1000000", "link down", "done"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}

	// A context ending after completion quits but keeps the results.
	m, cmd := update(t, m, ContextCancelledMsg{Err: context.Canceled})
	if cmd == nil {
		t.Error("an ended context should quit the program")
	}
	if out := m.Outcome(); out.ExitCode != apperrors.ExitErrorGeneric || len(out.Results) != 2 {
		t.Errorf("Outcome() after context end = %+v", out)
	}
}

func TestStartRunCmd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	spec := testSpec(4)
	msg := startRunCmd(&programRef{}, ctx, spec)()
	done, ok := msg.(RunCompleteMsg)
	if !ok {
		t.Fatalf("command returned %T, want RunCompleteMsg", msg)
	}
	if done.ExitCode != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", done.ExitCode)
	}
	if len(done.Results) != len(spec.Strategies) {
		t.Fatalf("got %d results, want %d", len(done.Results), len(spec.Strategies))
	}
	for _, r := range done.Results {
		if r.Err != nil || r.Sum.String() != "1000000" {
			t.Errorf("%s: sum %s, err %v", r.Name, r.Sum, r.Err)
		}
	}
}

func TestStartRunCmdSingleFailure(t *testing.T) {
	spec := testSpec(1)
	s, err := engine.NewDefaultFactory().Get("collective")
	if err != nil {
		t.Fatal(err)
	}
	spec.Strategies = []engine.Strategy{s}

	done := startRunCmd(&programRef{}, context.Background(), spec)().(RunCompleteMsg)
	if done.ExitCode != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", done.ExitCode, apperrors.ExitErrorConfig)
	}
}
