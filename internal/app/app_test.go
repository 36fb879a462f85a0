package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/forgetbench/internal/config"
	apperrors "github.com/agbru/forgetbench/internal/errors"
	"github.com/agbru/forgetbench/internal/orchestration"
	"github.com/agbru/forgetbench/internal/report"
)

func newTestApp(t *testing.T, extraArgs ...string) (*Application, string) {
	t.Helper()
	dir := t.TempDir()
	args := append([]string{
		"forgetbench",
		"-output-dir", dir,
		"-num-users", "5",
		"-quiet",
		"-no-color",
		"-log-file", "",
	}, extraArgs...)

	a, err := New(args, io.Discard)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return a, dir
}

func TestNew_DefaultsToAllKnownExperiments(t *testing.T) {
	a, _ := newTestApp(t)
	if len(a.Config.Experiments) != 6 {
		t.Fatalf("got %d default experiments, want 6", len(a.Config.Experiments))
	}
	if a.Config.Experiments[0] != "baseline_comparison" {
		t.Errorf("first default experiment = %q", a.Config.Experiments[0])
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New([]string{"forgetbench", "-num-users", "-1"}, io.Discard)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ve apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("got %T, want ValidationError", err)
	}
}

func TestNew_HelpFlag(t *testing.T) {
	var buf bytes.Buffer
	_, err := New([]string{"forgetbench", "-h"}, &buf)
	if !IsHelpError(err) {
		t.Fatalf("expected help error, got %v", err)
	}
	if !strings.Contains(buf.String(), "baseline_comparison") {
		t.Error("usage should list known experiments")
	}
}

func TestRun_EndToEnd_WritesReport(t *testing.T) {
	a, dir := newTestApp(t, "baseline_comparison", "unknown_experiment", "temporal_evaluation")

	var out bytes.Buffer
	code := a.Run(context.Background(), &out)

	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}

	rep, err := report.Load(dir)
	if err != nil {
		t.Fatalf("loading report: %v", err)
	}
	if len(rep.Experiments) != 3 {
		t.Fatalf("got %d report entries, want 3", len(rep.Experiments))
	}
	if !rep.Experiments["baseline_comparison"].Completed {
		t.Error("baseline_comparison should complete")
	}
	if !rep.Experiments["temporal_evaluation"].Completed {
		t.Error("temporal_evaluation should complete")
	}
	unknown := rep.Experiments["unknown_experiment"]
	if unknown.Completed {
		t.Error("unknown experiment must be recorded as failed")
	}
	if unknown.Error == "" {
		t.Error("unknown experiment entry should carry the error message")
	}
	if rep.Configuration.NumUsers != 5 || rep.Configuration.OutputDir != dir {
		t.Errorf("configuration snapshot wrong: %+v", rep.Configuration)
	}

	if !strings.Contains(out.String(), "===== Experiment Summary =====") {
		t.Error("console summary missing")
	}
	if !strings.Contains(out.String(), "- unknown_experiment: Failed in") {
		t.Errorf("summary should show the failed experiment:\n%s", out.String())
	}
}

func TestRun_ExperimentFailureDoesNotChangeExitCode(t *testing.T) {
	a, _ := newTestApp(t, "no_such_experiment")

	code := a.Run(context.Background(), io.Discard)
	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want %d despite the failed experiment", code, apperrors.ExitSuccess)
	}
}

func TestRun_IncludePayloads(t *testing.T) {
	a, dir := newTestApp(t, "-include-payloads", "privacy_impact")

	if code := a.Run(context.Background(), io.Discard); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	rep, err := report.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Experiments["privacy_impact"].Payload == nil {
		t.Error("payload requested but not embedded in report")
	}
}

func TestRun_TimeoutRecordsFailure(t *testing.T) {
	slow := orchestration.RunnerFunc(func(ctx context.Context, _ string, _ config.AppConfig) (any, error) {
		select {
		case <-time.After(time.Second):
			return "done", nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	dir := t.TempDir()
	a, err := New([]string{
		"forgetbench",
		"-output-dir", dir,
		"-quiet", "-no-color", "-log-file", "",
		"-timeout", "10ms",
		"baseline_comparison",
	}, io.Discard, WithRunner(slow))
	if err != nil {
		t.Fatal(err)
	}

	if code := a.Run(context.Background(), io.Discard); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want 0", code)
	}
	rep, err := report.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	entry := rep.Experiments["baseline_comparison"]
	if entry.Completed {
		t.Error("timed-out experiment must be recorded as failed")
	}
	if !strings.Contains(entry.Error, "timed out") {
		t.Errorf("entry error should mention the timeout, got %q", entry.Error)
	}
}

func TestRun_ReportWriteFailure(t *testing.T) {
	a, dir := newTestApp(t, "baseline_comparison")

	// Replace the output directory with a regular file so the report's temp
	// file cannot be created.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir, []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(dir) })
	a.Config.LogFile = ""

	var errBuf bytes.Buffer
	a.ErrWriter = &errBuf

	code := a.Run(context.Background(), io.Discard)
	if code != apperrors.ExitErrorReport {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitErrorReport)
	}
	if !strings.Contains(errBuf.String(), "Error writing report") {
		t.Errorf("report failure should be surfaced loudly, got %q", errBuf.String())
	}
}

func TestRun_CanceledContext(t *testing.T) {
	a, _ := newTestApp(t, "baseline_comparison")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code := a.Run(ctx, io.Discard)
	if code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
}

func TestRun_RerunOverwritesReport(t *testing.T) {
	a, dir := newTestApp(t, "baseline_comparison")
	if code := a.Run(context.Background(), io.Discard); code != apperrors.ExitSuccess {
		t.Fatal("first run failed")
	}

	b, err := New([]string{
		"forgetbench", "-output-dir", dir, "-num-users", "5",
		"-quiet", "-no-color", "-log-file", "",
		"user_segmentation",
	}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if code := b.Run(context.Background(), io.Discard); code != apperrors.ExitSuccess {
		t.Fatal("second run failed")
	}

	rep, err := report.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, stale := rep.Experiments["baseline_comparison"]; stale {
		t.Error("second run's report should not contain first run's entries")
	}
	if _, ok := rep.Experiments["user_segmentation"]; !ok {
		t.Error("second run's entry missing")
	}
}

func TestRun_WritesLogFile(t *testing.T) {
	dir := t.TempDir()
	a, err := New([]string{
		"forgetbench", "-output-dir", dir, "-num-users", "5",
		"-quiet", "-no-color",
		"baseline_comparison",
	}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	if code := a.Run(context.Background(), io.Discard); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}

	data, err := os.ReadFile(filepath.Join(dir, config.DefaultLogFile))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "starting run") {
		t.Error("log file missing run start entry")
	}
}

func TestHasVersionFlag(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"-version"}, true},
		{[]string{"--version"}, true},
		{[]string{"-num-users", "5"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %t, want %t", tt.args, got, tt.want)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintVersion(&buf)
	if !strings.Contains(buf.String(), "forgetbench") {
		t.Errorf("version banner = %q", buf.String())
	}
}
