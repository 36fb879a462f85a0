package tui

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/forgetbench/internal/config"
	apperrors "github.com/agbru/forgetbench/internal/errors"
	"github.com/agbru/forgetbench/internal/format"
	"github.com/agbru/forgetbench/internal/metrics"
	"github.com/agbru/forgetbench/internal/orchestration"
	"github.com/agbru/forgetbench/internal/sysmon"
)

// rowState is the display state of one requested experiment.
type rowState int

const (
	rowPending rowState = iota
	rowRunning
	rowDone
	rowFailed
)

// experimentRow tracks one entry of the requested sequence.
type experimentRow struct {
	id       string
	state    rowState
	duration time.Duration
	err      error
}

// RunFunc executes the requested experiments, reporting lifecycle events to
// the given observer, and returns the ordered outcomes.
type RunFunc func(ctx context.Context, observer orchestration.RunObserver) []orchestration.Outcome

// Model is the root bubbletea model for the TUI dashboard.
type Model struct {
	rows   []experimentRow
	keymap KeyMap

	ctx        context.Context
	cancel     context.CancelFunc
	run        RunFunc
	generation uint64

	config  config.AppConfig
	version string
	ref     *programRef

	startTime time.Time
	elapsed   time.Duration
	mem       MemStatsMsg
	sys       SysStatsMsg

	width  int
	height int
	paused bool
	done   bool

	outcomes []orchestration.Outcome
	exitCode int
}

// NewModel creates a new TUI model for the requested experiments.
func NewModel(parentCtx context.Context, run RunFunc, cfg config.AppConfig, version string) Model {
	rows := make([]experimentRow, len(cfg.Experiments))
	for i, id := range cfg.Experiments {
		rows[i] = experimentRow{id: id, state: rowPending}
	}

	ctx, cancel := context.WithCancel(parentCtx)

	return Model{
		rows:      rows,
		keymap:    DefaultKeyMap(),
		ctx:       ctx,
		cancel:    cancel,
		run:       run,
		config:    cfg,
		version:   version,
		ref:       &programRef{},
		startTime: time.Now(),
		exitCode:  apperrors.ExitSuccess,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startRunCmd(m.ref, m.ctx, m.run, m.generation),
		watchContextCmd(m.ctx, m.generation),
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

	case ExperimentStartedMsg:
		if msg.Index >= 0 && msg.Index < len(m.rows) {
			m.rows[msg.Index].state = rowRunning
		}
		return m, nil

	case ExperimentFinishedMsg:
		if msg.Index >= 0 && msg.Index < len(m.rows) {
			row := &m.rows[msg.Index]
			row.duration = msg.Outcome.Duration
			row.err = msg.Outcome.Err
			if msg.Outcome.Completed() {
				row.state = rowDone
			} else {
				row.state = rowFailed
			}
		}
		return m, nil

	case RunCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from previous run
		}
		m.done = true
		m.outcomes = msg.Outcomes
		m.elapsed = time.Since(m.startTime)
		return m, tea.Quit

	case TickMsg:
		if m.done {
			return m, nil
		}
		m.elapsed = time.Since(m.startTime)
		if !m.paused {
			return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())
		}
		return m, tickCmd()

	case MemStatsMsg:
		m.mem = msg
		return m, nil

	case SysStatsMsg:
		m.sys = msg
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.exitCode = apperrors.ExitErrorCanceled
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		// Quitting before the run finished abandons it, same as a SIGINT.
		if !m.done {
			m.exitCode = apperrors.ExitErrorCanceled
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		return m, nil
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	header := m.renderHeader()
	rows := m.renderRows()
	stats := m.renderStats()
	footer := m.renderFooter()

	body := panelStyle.Width(m.width - 2).Render(rows + "\n" + stats)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("forgetbench")
	version := versionStyle.Render(m.version)
	elapsed := elapsedStyle.Render(m.elapsed.Truncate(time.Second).String())
	return headerStyle.Width(m.width).Render(fmt.Sprintf("%s %s  elapsed %s", title, version, elapsed))
}

func (m Model) renderRows() string {
	var b strings.Builder
	for _, row := range m.rows {
		var status string
		switch row.state {
		case rowPending:
			status = rowPendingStyle.Render("· pending")
		case rowRunning:
			status = statusRunningStyle.Render("▶ running")
		case rowDone:
			status = statusDoneStyle.Render("✅ completed") + " " +
				rowDurationStyle.Render(format.FormatExecutionDuration(row.duration))
		case rowFailed:
			status = statusErrorStyle.Render(fmt.Sprintf("❌ failed (%v)", row.err)) + " " +
				rowDurationStyle.Render(format.FormatExecutionDuration(row.duration))
		}
		fmt.Fprintf(&b, "%s  %s\n", rowIDStyle.Width(maxIDWidth(m.rows)).Render(row.id), status)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderStats() string {
	heap := metricValueStyle.Render(formatBytes(m.mem.Alloc))
	goroutines := metricValueStyle.Render(fmt.Sprintf("%d", m.mem.NumGoroutine))
	cpu := metricValueStyle.Render(fmt.Sprintf("%.1f%%", m.sys.CPUPercent))
	sysMem := metricValueStyle.Render(fmt.Sprintf("%.1f%%", m.sys.MemPercent))
	return fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		metricLabelStyle.Render("heap"), heap,
		metricLabelStyle.Render("goroutines"), goroutines,
		metricLabelStyle.Render("cpu"), cpu,
		metricLabelStyle.Render("mem"), sysMem)
}

func (m Model) renderFooter() string {
	parts := []string{
		footerKeyStyle.Render("q") + footerDescStyle.Render(" quit"),
		footerKeyStyle.Render("p") + footerDescStyle.Render(" pause sampling"),
	}
	if m.paused {
		parts = append(parts, statusErrorStyle.Render("paused"))
	}
	return strings.Join(parts, "  ")
}

func maxIDWidth(rows []experimentRow) int {
	w := 0
	for _, r := range rows {
		if len(r.id) > w {
			w = len(r.id)
		}
	}
	return w
}

// formatBytes renders a byte count in human-readable binary units.
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// Run is the public entry point for the TUI mode. It creates the bubbletea
// program, runs the experiments through it, and returns the ordered outcomes
// together with an exit code.
func Run(ctx context.Context, run RunFunc, cfg config.AppConfig, version string) ([]orchestration.Outcome, int) {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, run, cfg, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return nil, apperrors.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.outcomes, m.exitCode
	}
	return nil, apperrors.ExitSuccess
}

// startRunCmd returns a tea.Cmd that launches the orchestration.
func startRunCmd(ref *programRef, ctx context.Context, run RunFunc, gen uint64) tea.Cmd {
	return func() tea.Msg {
		observer := &TUIRunObserver{ref: ref}
		outcomes := run(ctx, observer)
		return RunCompleteMsg{Outcomes: outcomes, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		snap := metrics.NewMemoryCollector().Snapshot()
		return MemStatsMsg{
			Alloc:        snap.HeapAlloc,
			HeapSys:      snap.HeapSys,
			NumGC:        snap.NumGC,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

// sampleSysStatsCmd reads system-wide CPU and memory stats and returns a SysStatsMsg.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
		}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
