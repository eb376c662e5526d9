// Package tui is the interactive dashboard of addcalc. It shows each
// strategy's run and, for the selected strategy, the carry chain as it
// travels from rank to rank.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/addcalc/internal/bignum"
	"github.com/agbru/addcalc/internal/cli"
	"github.com/agbru/addcalc/internal/engine"
	apperrors "github.com/agbru/addcalc/internal/errors"
	"github.com/agbru/addcalc/internal/format"
	"github.com/agbru/addcalc/internal/orchestration"
	"github.com/agbru/addcalc/internal/sysmon"
)

// RunSpec is the work the dashboard runs.
type RunSpec struct {
	Strategies []engine.Strategy
	A, B       bignum.BigNumber
	// Options configures the runs. Its CarryObserver is replaced by the
	// dashboard's own.
	Options orchestration.RunOptions
	Verbose bool
}

// Outcome is what a dashboard session leaves behind.
type Outcome struct {
	// Results is nil when the session ended before the runs completed.
	Results  []orchestration.RunResult
	ExitCode int
}

type rowStatus int

const (
	rowPending rowStatus = iota
	rowRunning
	rowFinished
	rowFailed
)

type strategyRow struct {
	name     string
	status   rowStatus
	duration time.Duration
	err      error
	chain    chainView
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	keymap KeyMap
	spec   RunSpec

	rows     []strategyRow
	index    map[string]int
	selected int
	paused   bool

	sys       SysStatsMsg
	startTime time.Time
	endTime   time.Time
	width     int
	height    int
	version   string

	final    *orchestration.RunResult
	errText  string
	done     bool
	exitCode int
	results  []orchestration.RunResult

	ctx    context.Context
	cancel context.CancelFunc
	ref    *programRef
}

// NewModel creates the dashboard for spec.
func NewModel(parentCtx context.Context, spec RunSpec, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	rows := make([]strategyRow, len(spec.Strategies))
	index := make(map[string]int, len(spec.Strategies))
	for i, s := range spec.Strategies {
		rows[i] = strategyRow{name: s.Name()}
		index[s.Name()] = i
	}
	return Model{
		keymap:    DefaultKeyMap(),
		spec:      spec,
		rows:      rows,
		index:     index,
		startTime: time.Now(),
		version:   version,
		exitCode:  apperrors.ExitSuccess,
		ctx:       ctx,
		cancel:    cancel,
		ref:       &programRef{},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startRunCmd(m.ref, m.ctx, m.spec),
		watchContextCmd(m.ctx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ProgressMsg:
		if i, ok := m.index[msg.Name]; ok {
			if msg.Done {
				m.rows[i].status = rowFinished
			} else {
				m.rows[i].status = rowRunning
				if !m.paused {
					m.selected = i
				}
			}
		}
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case TransitionMsg:
		if m.paused {
			return m, nil
		}
		if i, ok := m.index[msg.Strategy]; ok {
			m.rows[i].chain.apply(msg.Transition)
		}
		return m, nil

	case ComparisonResultsMsg:
		m.applyResults(msg.Results)
		return m, nil

	case FinalResultMsg:
		res := msg.Result
		m.final = &res
		return m, nil

	case ErrorMsg:
		m.errText = msg.Err.Error()
		return m, nil

	case RunCompleteMsg:
		m.applyResults(msg.Results)
		m.results = msg.Results
		m.exitCode = msg.ExitCode
		m.done = true
		m.endTime = time.Now()
		return m, nil

	case ContextCancelledMsg:
		// A completed session keeps its results.
		if !m.done {
			m.errText = msg.Err.Error()
			m.endTime = time.Now()
		}
		return m, tea.Quit

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			return m, tea.Batch(sampleSysStatsCmd(), tickCmd())
		}
		return m, tickCmd()

	case SysStatsMsg:
		m.sys = msg
		return m, nil
	}

	return m, nil
}

func (m *Model) applyResults(results []orchestration.RunResult) {
	for _, r := range results {
		i, ok := m.index[r.Name]
		if !ok {
			continue
		}
		m.rows[i].duration = r.Duration
		m.rows[i].err = r.Err
		if r.Err != nil {
			m.rows[i].status = rowFailed
		} else {
			m.rows[i].status = rowFinished
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		if m.selected < len(m.rows)-1 {
			m.selected++
		}
		return m, nil
	}
	return m, nil
}

// Outcome returns the results of the session. Before the runs complete it
// reports the exit code of the context that stopped them.
func (m Model) Outcome() Outcome {
	if m.done {
		return Outcome{Results: m.results, ExitCode: m.exitCode}
	}
	if err := m.ctx.Err(); err != nil {
		return Outcome{ExitCode: orchestration.ExitCode(err)}
	}
	return Outcome{ExitCode: apperrors.ExitErrorCanceled}
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	half := m.width / 2
	left := panelStyle.Width(max(half-2, 10)).Render(m.strategiesView())
	right := panelStyle.Width(max(m.width-half-2, 10)).Render(m.chainPanelView())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), body, m.resultView(), m.footerView())
}

func (m Model) headerView() string {
	title := "addcalc"
	if m.version != "" && m.version != "dev" {
		title += " " + m.version
	}
	elapsed := time.Since(m.startTime)
	if !m.endTime.IsZero() {
		elapsed = m.endTime.Sub(m.startTime)
	}
	return titleStyle.Render(title) + dimStyle.Render(fmt.Sprintf(" | %d ranks | %d + %d digits | Elapsed: %s",
		m.spec.Options.Procs, m.spec.A.Len(), m.spec.B.Len(), format.FormatExecutionDuration(elapsed)))
}

func (m Model) strategiesView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Strategies"))
	for i, r := range m.rows {
		marker := "  "
		name := fmt.Sprintf("%-12s", r.name)
		if i == m.selected {
			marker = selectedStyle.Render("> ")
			name = selectedStyle.Render(name)
		}
		var status string
		switch r.status {
		case rowPending:
			status = dimStyle.Render("pending")
		case rowRunning:
			status = runningStyle.Render("running")
		case rowFinished:
			status = doneStyle.Render("✓ ")
			if r.duration > 0 {
				status += format.FormatExecutionDuration(r.duration)
			}
		case rowFailed:
			status = errorStyle.Render("✗ " + r.err.Error())
		}
		fmt.Fprintf(&b, "\n%s%s %s", marker, name, status)
	}
	return b.String()
}

func (m Model) chainPanelView() string {
	if len(m.rows) == 0 {
		return titleStyle.Render("Carry chain")
	}
	r := m.rows[m.selected]
	return titleStyle.Render("Carry chain: "+r.name) + "\n" + r.chain.View()
}

func (m Model) resultView() string {
	switch {
	case m.errText != "" && m.final == nil:
		return errorStyle.Render("Error: " + m.errText)
	case m.final != nil:
		sum, _ := cli.FormatSum(m.final.Sum, m.spec.Verbose)
		line := fmt.Sprintf("Sum (%d digits, %s): %s", m.final.Sum.Len(), m.final.Name, sum)
		if m.errText != "" {
			line += "\n" + errorStyle.Render("Partial failure: "+m.errText)
		}
		return line
	case m.done && m.exitCode == apperrors.ExitErrorMismatch:
		return errorStyle.Render("The strategies produced different sums.")
	}
	return ""
}

func (m Model) footerView() string {
	state := runningStyle.Render("running")
	switch {
	case m.done:
		state = doneStyle.Render("done")
	case m.paused:
		state = awaitingStyle.Render("paused")
	}
	keys := []key.Binding{m.keymap.Quit, m.keymap.Pause, m.keymap.Up, m.keymap.Down}
	help := make([]string, len(keys))
	for i, k := range keys {
		h := k.Help()
		help[i] = footerKeyStyle.Render(h.Key) + " " + dimStyle.Render(h.Desc)
	}
	return fmt.Sprintf("%s  CPU %.1f%%  MEM %.1f%%  %s", state, m.sys.CPUPercent, m.sys.MemPercent, strings.Join(help, "  "))
}

// Run is the entry point of the dashboard. It runs spec under a bubbletea
// program and returns once the user quits or ctx ends.
func Run(ctx context.Context, spec RunSpec, version string, progOpts ...tea.ProgramOption) Outcome {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, spec, version)
	defer model.cancel()

	if len(progOpts) == 0 {
		progOpts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	p := tea.NewProgram(model, progOpts...)
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return Outcome{ExitCode: apperrors.ExitErrorGeneric}
	}
	if m, ok := finalModel.(Model); ok {
		return m.Outcome()
	}
	return Outcome{ExitCode: apperrors.ExitErrorGeneric}
}

// startRunCmd returns a tea.Cmd that runs the strategies and presents the
// results through the bridge.
func startRunCmd(ref *programRef, ctx context.Context, spec RunSpec) tea.Cmd {
	return func() tea.Msg {
		opts := spec.Options
		opts.CarryObserver = carryObserver(ref)
		results := orchestration.ExecuteStrategies(ctx, spec.Strategies, spec.A, spec.B, opts, &TUIProgressReporter{ref: ref}, io.Discard)

		presenter := &TUIResultPresenter{ref: ref}
		code := apperrors.ExitSuccess
		switch {
		case len(results) == 1 && results[0].Err != nil:
			code = presenter.HandleError(results[0].Err, results[0].Duration, io.Discard)
		case len(results) == 1:
			presenter.PresentResult(results[0], spec.Verbose, io.Discard)
		default:
			code = orchestration.AnalyzeComparisonResults(results, spec.Verbose, presenter, io.Discard)
		}
		return RunCompleteMsg{Results: results, ExitCode: code}
	}
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleSysStatsCmd reads system-wide CPU and memory stats.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
