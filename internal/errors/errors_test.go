package apperrors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// TestConfigError verifies message formatting for configuration errors.
func TestConfigError(t *testing.T) {
	err := NewConfigError("num_users must be positive, got %d", -3)
	if !strings.Contains(err.Error(), "num_users must be positive, got -3") {
		t.Errorf("unexpected message: %q", err.Error())
	}

	var ce ConfigError
	if !errors.As(err, &ce) {
		t.Error("NewConfigError should produce a ConfigError")
	}
}

// TestValidationError verifies the field name appears in the message.
func TestValidationError(t *testing.T) {
	err := ValidationError{Field: "test_days", Message: "must be positive"}
	want := `validation error for "test_days": must be positive`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

// TestUnknownExperimentError verifies identification through error chains.
func TestUnknownExperimentError(t *testing.T) {
	base := UnknownExperimentError{ID: "quantum_forgetting"}
	if !strings.Contains(base.Error(), "quantum_forgetting") {
		t.Errorf("message should name the identifier, got %q", base.Error())
	}

	wrapped := fmt.Errorf("dispatch: %w", base)
	if !IsUnknownExperiment(wrapped) {
		t.Error("IsUnknownExperiment should see through wrapping")
	}
	if IsUnknownExperiment(errors.New("other")) {
		t.Error("IsUnknownExperiment should be false for unrelated errors")
	}
}

// TestExperimentError verifies cause preservation.
func TestExperimentError(t *testing.T) {
	cause := errors.New("matrix not invertible")
	err := ExperimentError{ID: "baseline_comparison", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("ExperimentError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "baseline_comparison") {
		t.Errorf("message should name the experiment, got %q", err.Error())
	}
}

// TestTimeoutError verifies the limit is included in the message.
func TestTimeoutError(t *testing.T) {
	err := TimeoutError{Operation: "scalability_test", Limit: 5 * time.Minute}
	if !strings.Contains(err.Error(), "5m0s") {
		t.Errorf("message should include the limit, got %q", err.Error())
	}
}

// TestReportWriteError verifies path and cause handling.
func TestReportWriteError(t *testing.T) {
	cause := errors.New("disk full")
	err := ReportWriteError{Path: "/results/experiment_report.json", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("ReportWriteError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "experiment_report.json") {
		t.Errorf("message should include the path, got %q", err.Error())
	}
}

// TestWrapError verifies nil handling and wrapping semantics.
func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should be nil")
	}

	base := errors.New("base")
	wrapped := WrapError(base, "while doing %s", "work")
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should match base via errors.Is")
	}
	if !strings.Contains(wrapped.Error(), "while doing work") {
		t.Errorf("wrapped message missing context: %q", wrapped.Error())
	}
}

// TestIsContextError covers both cancellation and deadline cases.
func TestIsContextError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"canceled", context.Canceled, true},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped canceled", fmt.Errorf("run: %w", context.Canceled), true},
		{"unrelated", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsContextError(tt.err); got != tt.want {
				t.Errorf("IsContextError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// TestIsConfigError covers both configuration error kinds.
func TestIsConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"config error", NewConfigError("bad dir"), true},
		{"validation error", ValidationError{Field: "num-users", Message: "must be positive"}, true},
		{"wrapped validation", fmt.Errorf("parse: %w", ValidationError{Field: "seed"}), true},
		{"unrelated", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConfigError(tt.err); got != tt.want {
				t.Errorf("IsConfigError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
