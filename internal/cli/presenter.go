// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayRunConfig], [DisplayOutcomeTable].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatStatus].

package cli

import (
	"fmt"
	"io"

	"github.com/briandowns/spinner"

	"github.com/agbru/forgetbench/internal/config"
	"github.com/agbru/forgetbench/internal/format"
	"github.com/agbru/forgetbench/internal/orchestration"
	"github.com/agbru/forgetbench/internal/ui"
)

// ProgressPresenter implements orchestration.RunObserver for CLI output. It
// shows a spinner with the currently running experiment and prints a status
// line when each experiment finishes.
type ProgressPresenter struct {
	out     io.Writer
	spinner Spinner
}

// Verify that ProgressPresenter implements orchestration.RunObserver.
var _ orchestration.RunObserver = (*ProgressPresenter)(nil)

// NewProgressPresenter creates a presenter writing status lines to out.
func NewProgressPresenter(out io.Writer) *ProgressPresenter {
	return &ProgressPresenter{
		out:     out,
		spinner: newSpinner(spinner.WithWriter(out)),
	}
}

// ExperimentStarted updates the spinner with the experiment now running.
func (p *ProgressPresenter) ExperimentStarted(id string, index, total int) {
	p.spinner.UpdateSuffix(fmt.Sprintf(" Running %s (%d/%d)...", id, index+1, total))
	p.spinner.Start()
}

// ExperimentFinished stops the spinner and prints the experiment's status line.
func (p *ProgressPresenter) ExperimentFinished(outcome orchestration.Outcome, index, total int) {
	p.spinner.Stop()
	fmt.Fprintf(p.out, "[%d/%d] %s: %s (%s)\n",
		index+1, total, outcome.ID, FormatStatus(outcome), format.FormatExecutionDuration(outcome.Duration))
}

// FormatStatus returns the colorized terminal status of an outcome.
func FormatStatus(outcome orchestration.Outcome) string {
	if outcome.Completed() {
		return ui.ColorGreen() + "✅ Completed" + ui.ColorReset()
	}
	return fmt.Sprintf("%s❌ Failed (%v)%s", ui.ColorRed(), outcome.Err, ui.ColorReset())
}

// DisplayRunConfig prints the run configuration banner before execution.
func DisplayRunConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "%sForgetting Mechanism Experiment Harness%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "  Data path:      %s\n", cfg.DataPath)
	fmt.Fprintf(out, "  Output dir:     %s\n", cfg.OutputDir)
	fmt.Fprintf(out, "  Users sampled:  %d\n", cfg.NumUsers)
	fmt.Fprintf(out, "  Temporal split: %t", cfg.TemporalSplit)
	if cfg.TemporalSplit {
		fmt.Fprintf(out, " (%d test days)", cfg.TestDays)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Seed:           %d\n", cfg.Seed)
	if cfg.Timeout > 0 {
		fmt.Fprintf(out, "  Timeout:        %s per experiment\n", cfg.Timeout)
	}
	fmt.Fprintf(out, "  Experiments:    %d requested\n\n", len(cfg.Experiments))
}

// DisplayOutcomeTable displays the outcome summary table with experiment
// identifiers, durations, and status in a formatted tabular layout.
// Uses manual padding to correctly handle ANSI color codes.
func DisplayOutcomeTable(outcomes []orchestration.Outcome, out io.Writer) {
	fmt.Fprintf(out, "\n--- Outcome Summary ---\n")

	maxNameLen := 10 // "Experiment" header length
	maxDurationLen := 8
	for _, o := range outcomes {
		if len(o.ID) > maxNameLen {
			maxNameLen = len(o.ID)
		}
		duration := format.FormatExecutionDuration(o.Duration)
		if len(duration) > maxDurationLen {
			maxDurationLen = len(duration)
		}
	}

	fmt.Fprintf(out, "%sExperiment%s%s   %sDuration%s%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxNameLen-10),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxDurationLen-8),
		ui.ColorUnderline(), ui.ColorReset())

	for _, o := range outcomes {
		duration := format.FormatExecutionDuration(o.Duration)
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s\n",
			ui.ColorBlue(), o.ID, ui.ColorReset(), padRight("", maxNameLen-len(o.ID)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", maxDurationLen-len(duration)),
			FormatStatus(o))
	}
}

// padRight returns s followed by the given number of spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}
