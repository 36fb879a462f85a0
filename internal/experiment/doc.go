// Package experiment defines the experiment contract, the registry used for
// dispatch by identifier, and the canonical forgetting-mechanism experiments.
// All experiments are deterministic for a given configuration seed.
package experiment
