// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the FORGETBENCH_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	// String overrides
	{"DATA_PATH", []string{"data-path"}, func(c *AppConfig, v string) {
		c.DataPath = v
	}},
	{"OUTPUT_DIR", []string{"output-dir"}, func(c *AppConfig, v string) {
		c.OutputDir = v
	}},
	{"EXPERIMENTS", []string{"experiments"}, func(c *AppConfig, v string) {
		// Positional identifiers count as explicit too.
		if len(c.Experiments) > 0 {
			return
		}
		if ids := splitExperiments(v); len(ids) > 0 {
			c.Experiments = ids
		}
	}},
	{"METRICS_ADDR", []string{"metrics-addr"}, func(c *AppConfig, v string) {
		c.MetricsAddr = v
	}},
	{"LOG_FILE", []string{"log-file"}, func(c *AppConfig, v string) {
		c.LogFile = v
	}},

	// Numeric overrides
	{"NUM_USERS", []string{"num-users"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.NumUsers = parsed
		}
	}},
	{"TEST_DAYS", []string{"test-days"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.TestDays = parsed
		}
	}},
	{"SEED", []string{"seed"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}},

	// Duration overrides
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	// Boolean overrides
	{"TEMPORAL_SPLIT", []string{"temporal-split"}, func(c *AppConfig, v string) {
		c.TemporalSplit = parseBoolEnv(v, c.TemporalSplit)
	}},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, v string) {
		c.Quiet = parseBoolEnv(v, c.Quiet)
	}},
	{"TUI", []string{"tui"}, func(c *AppConfig, v string) {
		c.TUI = parseBoolEnv(v, c.TUI)
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) {
		c.NoColor = parseBoolEnv(v, c.NoColor)
	}},
	{"INCLUDE_PAYLOADS", []string{"include-payloads"}, func(c *AppConfig, v string) {
		c.IncludePayloads = parseBoolEnv(v, c.IncludePayloads)
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Supported environment variables (all prefixed with FORGETBENCH_):
//   - DATA_PATH, OUTPUT_DIR, EXPERIMENTS, NUM_USERS, TEMPORAL_SPLIT,
//     TEST_DAYS, SEED, TIMEOUT, QUIET, TUI, NO_COLOR, INCLUDE_PAYLOADS,
//     METRICS_ADDR, LOG_FILE
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
