package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/agbru/forgetbench/internal/errors"
)

// EnvPrefix is prepended to all environment variable names recognized by the
// harness (e.g. FORGETBENCH_SEED).
const EnvPrefix = "FORGETBENCH_"

// Default values mirroring the canonical harness invocation.
const (
	DefaultDataPath  = "./ml-100k"
	DefaultOutputDir = "./results"
	DefaultNumUsers  = 50
	DefaultTestDays  = 30
	DefaultSeed      = 42
	DefaultLogFile   = "forgetbench.log"
)

// AppConfig holds the full run configuration. It is constructed once by
// ParseConfig, validated, and never mutated afterwards: every experiment in a
// run observes the identical value, so differences between experiments are
// attributable only to the experiment logic.
type AppConfig struct {
	// DataPath is the filesystem location of the source dataset.
	DataPath string
	// OutputDir is the directory receiving all run artifacts, including the
	// persisted report. It is created (with parents) during construction.
	OutputDir string
	// Experiments is the ordered list of experiment identifiers to run.
	// Order is caller-significant; duplicates run independently. Treated as
	// read-only after construction.
	Experiments []string
	// NumUsers is the number of users sampled for evaluation. Positive.
	NumUsers int
	// TemporalSplit selects temporal train/test partitioning instead of
	// random sampling.
	TemporalSplit bool
	// TestDays is the temporal evaluation window in days. Meaningful only
	// when TemporalSplit is true; must be positive in that case.
	TestDays int
	// Seed seeds all randomized behavior in the experiment runner.
	Seed int64
	// Timeout is the per-experiment time budget. Zero disables the limit;
	// an expired budget records the experiment as failed with a timeout
	// error and the run continues.
	Timeout time.Duration
	// Quiet suppresses banners, spinner, and per-experiment console output.
	Quiet bool
	// TUI enables the live dashboard instead of plain CLI output.
	TUI bool
	// NoColor disables colored output.
	NoColor bool
	// IncludePayloads embeds each experiment's result payload in the report
	// in addition to the mandatory completion flag and duration.
	IncludePayloads bool
	// MetricsAddr, when non-empty, enables the Prometheus /metrics endpoint
	// on the given listen address for the duration of the run.
	MetricsAddr string
	// LogFile is the run log destination, resolved under OutputDir when
	// relative. Empty disables file logging.
	LogFile string
}

// DefaultExperiments returns the canonical set of six experiments in their
// canonical order.
func DefaultExperiments() []string {
	return []string{
		"baseline_comparison",
		"temporal_evaluation",
		"parameter_sensitivity",
		"privacy_impact",
		"scalability_test",
		"user_segmentation",
	}
}

// ParseConfig builds the run configuration from command-line arguments,
// applies environment overrides, validates the result, and ensures the output
// directory exists.
//
// Unknown experiment identifiers are deliberately NOT rejected here: they are
// dispatched like any other and recorded as failed outcomes, so a typo in one
// identifier cannot abort the rest of the batch.
//
// Parameters:
//   - programName: The name used in usage output.
//   - args: The command-line arguments (without the program name).
//   - errWriter: The destination for flag parse errors and usage text.
//   - knownExperiments: The registry's identifiers, listed in usage output.
//
// Returns:
//   - AppConfig: The validated configuration.
//   - error: flag.ErrHelp when help was requested, a ConfigError or
//     ValidationError otherwise.
func ParseConfig(programName string, args []string, errWriter io.Writer, knownExperiments []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	var cfg AppConfig
	var experiments string

	fs.StringVar(&cfg.DataPath, "data-path", DefaultDataPath, "Path to the source dataset")
	fs.StringVar(&cfg.OutputDir, "output-dir", DefaultOutputDir, "Directory to save results")
	fs.StringVar(&experiments, "experiments", "", "Experiments to run (space or comma separated; default: all known)")
	fs.IntVar(&cfg.NumUsers, "num-users", DefaultNumUsers, "Number of users to evaluate")
	fs.BoolVar(&cfg.TemporalSplit, "temporal-split", false, "Use temporal split instead of random")
	fs.IntVar(&cfg.TestDays, "test-days", DefaultTestDays, "Number of days for testing in temporal split")
	fs.Int64Var(&cfg.Seed, "seed", DefaultSeed, "Random seed")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "Per-experiment time budget (0 disables)")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Suppress banners and progress output")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for -quiet")
	fs.BoolVar(&cfg.TUI, "tui", false, "Run with the live dashboard")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&cfg.IncludePayloads, "include-payloads", false, "Embed experiment payloads in the report")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Listen address for the Prometheus /metrics endpoint (disabled when empty)")
	fs.StringVar(&cfg.LogFile, "log-file", DefaultLogFile, "Run log file under the output directory (empty disables)")

	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [flags] [experiment ...]\n\n", programName)
		fmt.Fprintf(errWriter, "Runs forgetting-mechanism experiments and writes a JSON report.\n\n")
		fmt.Fprintf(errWriter, "Known experiments:\n")
		for _, id := range knownExperiments {
			fmt.Fprintf(errWriter, "  %s\n", id)
		}
		fmt.Fprintf(errWriter, "\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	// Positional arguments are additional experiment identifiers.
	cfg.Experiments = append(splitExperiments(experiments), fs.Args()...)

	applyEnvOverrides(&cfg, fs)

	if len(cfg.Experiments) == 0 {
		cfg.Experiments = DefaultExperiments()
	}

	if err := validate(cfg); err != nil {
		return AppConfig{}, err
	}

	if err := EnsureOutputDir(cfg.OutputDir); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

// splitExperiments splits a flag value on commas and whitespace, dropping
// empty entries.
func splitExperiments(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// validate checks the cross-field invariants of a parsed configuration.
func validate(cfg AppConfig) error {
	if cfg.OutputDir == "" {
		return apperrors.ValidationError{Field: "output-dir", Message: "must not be empty"}
	}
	if cfg.NumUsers <= 0 {
		return apperrors.ValidationError{Field: "num-users", Message: fmt.Sprintf("must be positive, got %d", cfg.NumUsers)}
	}
	if cfg.TemporalSplit && cfg.TestDays <= 0 {
		return apperrors.ValidationError{Field: "test-days", Message: fmt.Sprintf("must be positive with -temporal-split, got %d", cfg.TestDays)}
	}
	if cfg.Timeout < 0 {
		return apperrors.ValidationError{Field: "timeout", Message: "must not be negative"}
	}
	return nil
}

// EnsureOutputDir creates the output directory and any missing parents.
// Safe to call when the directory already exists.
func EnsureOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewConfigError("cannot create output directory %q: %v", dir, err)
	}
	return nil
}

// LogPath resolves the configured log file under the output directory.
// Returns "" when file logging is disabled.
func (c AppConfig) LogPath() string {
	if c.LogFile == "" {
		return ""
	}
	if filepath.IsAbs(c.LogFile) {
		return c.LogFile
	}
	return filepath.Join(c.OutputDir, c.LogFile)
}
