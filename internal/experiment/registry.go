package experiment

import (
	"context"
	"sort"
	"sync"

	"github.com/agbru/forgetbench/internal/config"
	apperrors "github.com/agbru/forgetbench/internal/errors"
)

// Experiment is one named evaluation procedure executed against the
// forgetting mechanism under a fixed configuration. Implementations must be
// safe to invoke multiple times; each invocation is independent, and all
// randomized behavior must derive from cfg.Seed so identical configurations
// yield identical payloads.
type Experiment interface {
	// Name returns the experiment identifier used for dispatch and reporting.
	Name() string
	// Run executes the experiment and returns its result payload. The payload
	// is opaque to the harness. Implementations should honor ctx cancellation
	// at loop boundaries.
	Run(ctx context.Context, cfg config.AppConfig) (any, error)
}

// Registry holds the known experiments, keyed by identifier. Lookup of an
// unknown identifier fails explicitly with an UnknownExperimentError rather
// than silently.
type Registry struct {
	mu          sync.RWMutex
	experiments map[string]Experiment
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{experiments: make(map[string]Experiment)}
}

// NewDefaultRegistry creates a registry pre-populated with the six canonical
// experiments.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&BaselineComparison{})
	r.Register(&TemporalEvaluation{})
	r.Register(&ParameterSensitivity{})
	r.Register(&PrivacyImpact{})
	r.Register(&ScalabilityTest{})
	r.Register(&UserSegmentation{})
	return r
}

// Register adds an experiment under its own name, replacing any previous
// registration with the same name.
func (r *Registry) Register(e Experiment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.experiments[e.Name()] = e
}

// Get retrieves an experiment by identifier.
//
// Returns:
//   - Experiment: The registered experiment.
//   - error: An UnknownExperimentError if the identifier is not registered.
func (r *Registry) Get(id string) (Experiment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.experiments[id]
	if !ok {
		return nil, apperrors.UnknownExperimentError{ID: id}
	}
	return e, nil
}

// List returns the registered identifiers in sorted order for consistent,
// reproducible usage output.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.experiments))
	for id := range r.experiments {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RegistryRunner adapts a Registry to the orchestration runner boundary:
// given an identifier and the run configuration, execute the named experiment
// and return its payload or fail.
type RegistryRunner struct {
	registry *Registry
}

// NewRunner creates a runner dispatching into the given registry.
func NewRunner(r *Registry) *RegistryRunner {
	return &RegistryRunner{registry: r}
}

// Run dispatches one experiment invocation. Unknown identifiers fail with an
// UnknownExperimentError; execution failures are wrapped in an
// ExperimentError carrying the identifier. The runner is stateless across
// calls: nothing is shared between experiments beyond what the configuration
// encodes.
func (r *RegistryRunner) Run(ctx context.Context, id string, cfg config.AppConfig) (any, error) {
	e, err := r.registry.Get(id)
	if err != nil {
		return nil, err
	}
	payload, err := e.Run(ctx, cfg)
	if err != nil {
		return nil, apperrors.ExperimentError{ID: id, Cause: err}
	}
	return payload, nil
}
