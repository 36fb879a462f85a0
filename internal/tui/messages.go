package tui

import (
	"time"

	"github.com/agbru/forgetbench/internal/orchestration"
)

// ExperimentStartedMsg marks an experiment entering the running state.
type ExperimentStartedMsg struct {
	ID    string
	Index int
	Total int
}

// ExperimentFinishedMsg carries the terminal outcome of an experiment.
type ExperimentFinishedMsg struct {
	Outcome orchestration.Outcome
	Index   int
	Total   int
}

// RunCompleteMsg signals that the whole batch has finished.
type RunCompleteMsg struct {
	Outcomes   []orchestration.Outcome
	Generation uint64
}

// TickMsg drives periodic refresh of elapsed time and resource sampling.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapSys      uint64
	NumGC        uint32
	NumGoroutine int
}

// SysStatsMsg carries a system-wide resource usage sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// ContextCancelledMsg signals that the run context was canceled.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
