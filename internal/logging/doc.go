// Package logging defines the structured logging sink used throughout the
// harness and adapters backing it with zerolog or the standard library.
// Loggers are passed in explicitly; the package holds no global state.
package logging
