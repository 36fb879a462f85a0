package orchestration

import (
	"context"
	"time"

	"github.com/agbru/forgetbench/internal/config"
)

// Outcome encapsulates the terminal state of a single experiment invocation.
// It serves as the shared domain type between orchestration and presentation
// layers.
type Outcome struct {
	// ID is the experiment identifier as requested.
	ID string
	// Payload is the opaque experiment-specific result. It is nil if the
	// experiment failed.
	Payload any
	// Duration is the wall-clock time of the invocation, measured up to the
	// failure point for failed experiments. Always non-negative.
	Duration time.Duration
	// Err contains the failure cause, or nil for a completed experiment.
	Err error
}

// Completed reports whether the experiment finished without error.
func (o Outcome) Completed() bool { return o.Err == nil }

// Runner is the boundary to the experiment-execution collaborator: given an
// identifier and the run's configuration, execute the named experiment and
// return its result payload, or fail. Implementations must be stateless with
// respect to the orchestrator; each invocation is independent.
type Runner interface {
	Run(ctx context.Context, id string, cfg config.AppConfig) (any, error)
}

// RunnerFunc is a function adapter that implements Runner.
// This allows passing a function directly where a Runner is expected.
type RunnerFunc func(ctx context.Context, id string, cfg config.AppConfig) (any, error)

// Run calls the underlying function.
func (f RunnerFunc) Run(ctx context.Context, id string, cfg config.AppConfig) (any, error) {
	return f(ctx, id, cfg)
}

// RunObserver receives experiment lifecycle notifications. This interface
// decouples the orchestration layer from the presentation layer: the CLI
// spinner and the TUI dashboard both implement it, while orchestration stays
// free of UI concerns.
type RunObserver interface {
	// ExperimentStarted is called immediately before an experiment's start
	// timestamp is recorded. index is zero-based within total requested.
	ExperimentStarted(id string, index, total int)
	// ExperimentFinished is called with the terminal outcome of an
	// experiment, after its duration has been measured.
	ExperimentFinished(outcome Outcome, index, total int)
}

// NullObserver is a no-op implementation of RunObserver.
// Useful for quiet mode or testing.
type NullObserver struct{}

// ExperimentStarted does nothing.
func (NullObserver) ExperimentStarted(string, int, int) {}

// ExperimentFinished does nothing.
func (NullObserver) ExperimentFinished(Outcome, int, int) {}

// multiObserver fans lifecycle notifications out to several observers.
type multiObserver []RunObserver

func (m multiObserver) ExperimentStarted(id string, index, total int) {
	for _, o := range m {
		o.ExperimentStarted(id, index, total)
	}
}

func (m multiObserver) ExperimentFinished(outcome Outcome, index, total int) {
	for _, o := range m {
		o.ExperimentFinished(outcome, index, total)
	}
}

// MultiObserver composes observers into one; notifications are delivered in
// argument order. Nil observers are skipped.
func MultiObserver(observers ...RunObserver) RunObserver {
	kept := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			kept = append(kept, o)
		}
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return kept
}

// ByID folds outcomes into a mapping keyed by experiment identifier. When the
// request contained duplicate identifiers, the later outcome overwrites the
// earlier one; both executions still occurred and were individually timed in
// the ordered slice. This overwrite rule is deliberate, documented behavior
// and matches the persisted report shape.
func ByID(outcomes []Outcome) map[string]Outcome {
	m := make(map[string]Outcome, len(outcomes))
	for _, o := range outcomes {
		m[o.ID] = o
	}
	return m
}
