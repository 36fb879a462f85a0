package experiment

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/agbru/forgetbench/internal/config"
	apperrors "github.com/agbru/forgetbench/internal/errors"
)

func testConfig() config.AppConfig {
	return config.AppConfig{
		DataPath:      "./ml-100k",
		OutputDir:     "./results",
		NumUsers:      25,
		TemporalSplit: true,
		TestDays:      30,
		Seed:          42,
	}
}

// stubExperiment is a minimal experiment for registry tests.
type stubExperiment struct {
	name    string
	payload any
	err     error
}

func (s stubExperiment) Name() string { return s.name }
func (s stubExperiment) Run(context.Context, config.AppConfig) (any, error) {
	return s.payload, s.err
}

// TestRegistry_GetUnknown verifies explicit failure on unknown identifiers.
func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("nonexistent")

	var ue apperrors.UnknownExperimentError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnknownExperimentError, got %v", err)
	}
	if ue.ID != "nonexistent" {
		t.Errorf("error ID = %q, want %q", ue.ID, "nonexistent")
	}
}

// TestRegistry_RegisterAndGet verifies round-trip registration.
func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(stubExperiment{name: "custom"})

	e, err := r.Get("custom")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if e.Name() != "custom" {
		t.Errorf("Name() = %q", e.Name())
	}
}

// TestRegistry_ListSorted verifies List returns sorted identifiers.
func TestRegistry_ListSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(stubExperiment{name: "zeta"})
	r.Register(stubExperiment{name: "alpha"})
	r.Register(stubExperiment{name: "mid"})

	want := []string{"alpha", "mid", "zeta"}
	if got := r.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

// TestNewDefaultRegistry verifies the canonical six are registered.
func TestNewDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()
	for _, id := range config.DefaultExperiments() {
		if _, err := r.Get(id); err != nil {
			t.Errorf("default registry missing %q: %v", id, err)
		}
	}
	if got := len(r.List()); got != 6 {
		t.Errorf("default registry has %d experiments, want 6", got)
	}
}

// TestRegistryRunner_Dispatch covers success, unknown id, and failure wrapping.
func TestRegistryRunner_Dispatch(t *testing.T) {
	r := NewRegistry()
	r.Register(stubExperiment{name: "ok", payload: map[string]any{"metric": 1.0}})
	r.Register(stubExperiment{name: "broken", err: errors.New("singular matrix")})
	runner := NewRunner(r)

	t.Run("success returns payload", func(t *testing.T) {
		payload, err := runner.Run(context.Background(), "ok", testConfig())
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if payload == nil {
			t.Error("payload should not be nil")
		}
	})

	t.Run("unknown id fails with UnknownExperimentError", func(t *testing.T) {
		_, err := runner.Run(context.Background(), "missing", testConfig())
		if !apperrors.IsUnknownExperiment(err) {
			t.Errorf("expected unknown experiment error, got %v", err)
		}
	})

	t.Run("execution failure is wrapped with the identifier", func(t *testing.T) {
		_, err := runner.Run(context.Background(), "broken", testConfig())
		var ee apperrors.ExperimentError
		if !errors.As(err, &ee) {
			t.Fatalf("expected ExperimentError, got %v", err)
		}
		if ee.ID != "broken" {
			t.Errorf("wrapped ID = %q", ee.ID)
		}
	})
}
