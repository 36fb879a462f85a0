// Package report assembles the run's configuration snapshot and per-experiment
// outcomes into the persisted JSON report and the condensed console summary.
package report
