package app

import (
	"errors"
	"flag"
	"io"

	"github.com/agbru/forgetbench/internal/config"
	"github.com/agbru/forgetbench/internal/experiment"
	"github.com/agbru/forgetbench/internal/orchestration"
)

// Application represents the forgetbench application instance.
type Application struct {
	Config    config.AppConfig
	Registry  *experiment.Registry
	Runner    orchestration.Runner
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithRegistry sets a custom experiment registry for the application.
func WithRegistry(r *experiment.Registry) AppOption {
	return func(a *Application) { a.Registry = r }
}

// WithRunner sets a custom runner, bypassing the registry dispatch.
func WithRunner(r orchestration.Runner) AppOption {
	return func(a *Application) { a.Runner = r }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Registry == nil {
		app.Registry = experiment.NewDefaultRegistry()
	}
	if app.Runner == nil {
		app.Runner = experiment.NewRunner(app.Registry)
	}

	programName := "forgetbench"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Registry.List())
	if err != nil {
		return nil, err
	}

	app.Config = cfg
	return app, nil
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
