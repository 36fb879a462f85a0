package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/agbru/forgetbench/internal/config"
	apperrors "github.com/agbru/forgetbench/internal/errors"
	"github.com/agbru/forgetbench/internal/format"
	"github.com/agbru/forgetbench/internal/orchestration"
	"github.com/agbru/forgetbench/internal/ui"
)

// FileName is the fixed report file name under the output directory.
const FileName = "experiment_report.json"

// ConfigSnapshot is the verbatim, user-facing view of the run configuration
// embedded in every report.
type ConfigSnapshot struct {
	DataPath      string `json:"data_path"`
	OutputDir     string `json:"output_dir"`
	NumUsers      int    `json:"num_users"`
	TemporalSplit bool   `json:"temporal_split"`
	TestDays      int    `json:"test_days"`
	Seed          int64  `json:"seed"`
}

// ExperimentEntry summarizes one experiment outcome. Completed and Duration
// are always present; Error appears only for failed experiments, and Payload
// only when payload inclusion was requested.
type ExperimentEntry struct {
	Completed bool    `json:"completed"`
	Duration  float64 `json:"duration"`
	Error     string  `json:"error,omitempty"`
	Payload   any     `json:"payload,omitempty"`
}

// Report is the single persisted artifact of a run.
type Report struct {
	Configuration ConfigSnapshot             `json:"configuration"`
	Experiments   map[string]ExperimentEntry `json:"experiments"`
}

// Build assembles the report document from the run configuration and the
// ordered outcomes. Duplicate identifiers collapse to their last outcome;
// payloads are embedded only when includePayloads is set.
func Build(cfg config.AppConfig, outcomes []orchestration.Outcome, includePayloads bool) Report {
	entries := make(map[string]ExperimentEntry, len(outcomes))
	for _, o := range outcomes {
		entry := ExperimentEntry{
			Completed: o.Completed(),
			Duration:  roundedSeconds(o.Duration.Seconds()),
		}
		if o.Err != nil {
			entry.Error = o.Err.Error()
		}
		if includePayloads && o.Completed() {
			entry.Payload = o.Payload
		}
		entries[o.ID] = entry
	}

	return Report{
		Configuration: ConfigSnapshot{
			DataPath:      cfg.DataPath,
			OutputDir:     cfg.OutputDir,
			NumUsers:      cfg.NumUsers,
			TemporalSplit: cfg.TemporalSplit,
			TestDays:      cfg.TestDays,
			Seed:          cfg.Seed,
		},
		Experiments: entries,
	}
}

// roundedSeconds keeps the persisted duration stable across round-trips at
// the same two-decimal precision the console summary shows.
func roundedSeconds(s float64) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(s, 'f', 2, 64), 64)
	if err != nil {
		return s
	}
	return v
}

// Write persists the report atomically to <outputDir>/experiment_report.json,
// overwriting any prior report. The document is staged in a temporary file in
// the same directory and moved into place with a rename, so a failed write
// never leaves a partial report behind. Returns the final path.
func Write(r Report, outputDir string) (string, error) {
	path := filepath.Join(outputDir, FileName)

	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return "", apperrors.ReportWriteError{Path: path, Cause: err}
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(outputDir, FileName+".tmp-*")
	if err != nil {
		return "", apperrors.ReportWriteError{Path: path, Cause: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", apperrors.ReportWriteError{Path: path, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", apperrors.ReportWriteError{Path: path, Cause: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", apperrors.ReportWriteError{Path: path, Cause: err}
	}

	return path, nil
}

// Load reads a previously written report back from the output directory.
func Load(outputDir string) (Report, error) {
	path := filepath.Join(outputDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("reading report %s: %w", path, err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return Report{}, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return r, nil
}

// PrintSummary writes the condensed console summary: one line per executed
// experiment in request order, with status and duration in seconds.
func PrintSummary(w io.Writer, outcomes []orchestration.Outcome) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.ColorBold()+"===== Experiment Summary ====="+ui.ColorReset())
	for _, o := range outcomes {
		status := ui.ColorGreen() + "Completed" + ui.ColorReset()
		if !o.Completed() {
			status = ui.ColorRed() + "Failed" + ui.ColorReset()
		}
		fmt.Fprintf(w, "- %s: %s in %s seconds\n", o.ID, status, format.FormatSeconds(o.Duration))
	}
	fmt.Fprintln(w, ui.ColorBold()+"=============================="+ui.ColorReset())
	fmt.Fprintln(w)
}
