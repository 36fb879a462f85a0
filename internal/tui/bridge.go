package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/forgetbench/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIRunObserver implements orchestration.RunObserver by forwarding
// experiment lifecycle events as bubbletea messages.
type TUIRunObserver struct {
	ref *programRef
}

// Verify interface compliance.
var _ orchestration.RunObserver = (*TUIRunObserver)(nil)

// ExperimentStarted sends an ExperimentStartedMsg to the dashboard.
func (t *TUIRunObserver) ExperimentStarted(id string, index, total int) {
	t.ref.Send(ExperimentStartedMsg{ID: id, Index: index, Total: total})
}

// ExperimentFinished sends an ExperimentFinishedMsg to the dashboard.
func (t *TUIRunObserver) ExperimentFinished(outcome orchestration.Outcome, index, total int) {
	t.ref.Send(ExperimentFinishedMsg{Outcome: outcome, Index: index, Total: total})
}
