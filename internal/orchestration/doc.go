// Package orchestration drives the sequential execution of requested
// experiments, isolates per-experiment failures, and aggregates timed
// outcomes for reporting. It decouples business logic from presentation via
// the RunObserver interface.
package orchestration
