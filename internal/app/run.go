package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/forgetbench/internal/cli"
	apperrors "github.com/agbru/forgetbench/internal/errors"
	"github.com/agbru/forgetbench/internal/logging"
	"github.com/agbru/forgetbench/internal/orchestration"
	"github.com/agbru/forgetbench/internal/report"
	"github.com/agbru/forgetbench/internal/server"
	"github.com/agbru/forgetbench/internal/tui"
	"github.com/agbru/forgetbench/internal/ui"
)

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	ui.InitTheme(a.Config.NoColor)

	logger, closeLog := a.setupLogger()
	defer closeLog()

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	logger.Info("starting run",
		logging.String("data_path", a.Config.DataPath),
		logging.String("output_dir", a.Config.OutputDir),
		logging.Int("experiments", len(a.Config.Experiments)),
		logging.Int64("seed", a.Config.Seed))

	promMetrics := server.NewMetrics()
	if a.Config.MetricsAddr != "" {
		srv := server.New(a.Config.MetricsAddr, promMetrics, logger)
		go func() {
			if err := srv.Start(ctx); err != nil {
				logger.Error("metrics server stopped", err)
			}
		}()
	}

	var outcomes []orchestration.Outcome
	if a.Config.TUI {
		var code int
		outcomes, code = a.runTUI(ctx, promMetrics, logger)
		if outcomes == nil {
			return code
		}
	} else {
		outcomes = a.runCLI(ctx, promMetrics, logger, out)
	}

	return a.finishRun(ctx, outcomes, logger, out)
}

// runCLI drives the experiments with plain console output.
func (a *Application) runCLI(ctx context.Context, promMetrics *server.Metrics, logger logging.Logger, out io.Writer) []orchestration.Outcome {
	observers := []orchestration.RunObserver{promMetrics}
	if !a.Config.Quiet {
		cli.DisplayRunConfig(a.Config, out)
		observers = append(observers, cli.NewProgressPresenter(out))
	}

	orch := orchestration.New(a.Runner,
		orchestration.WithObserver(orchestration.MultiObserver(observers...)),
		orchestration.WithLogger(logger),
		orchestration.WithTimeout(a.Config.Timeout))

	return orch.Run(ctx, a.Config.Experiments, a.Config)
}

// runTUI drives the experiments inside the live dashboard. A nil outcome
// slice means the dashboard exited before the run finished.
func (a *Application) runTUI(ctx context.Context, promMetrics *server.Metrics, logger logging.Logger) ([]orchestration.Outcome, int) {
	run := func(ctx context.Context, observer orchestration.RunObserver) []orchestration.Outcome {
		orch := orchestration.New(a.Runner,
			orchestration.WithObserver(orchestration.MultiObserver(promMetrics, observer)),
			orchestration.WithLogger(logger),
			orchestration.WithTimeout(a.Config.Timeout))
		return orch.Run(ctx, a.Config.Experiments, a.Config)
	}
	return tui.Run(ctx, run, a.Config, Version)
}

// finishRun persists the report, prints the summary, and maps the run state
// to an exit code. Experiment failures never change the exit code; a failed
// report write does, since it defeats the purpose of the run.
func (a *Application) finishRun(ctx context.Context, outcomes []orchestration.Outcome, logger logging.Logger, out io.Writer) int {
	rep := report.Build(a.Config, outcomes, a.Config.IncludePayloads)
	path, err := report.Write(rep, a.Config.OutputDir)
	if err != nil {
		logger.Error("report write failed", err, logging.String("output_dir", a.Config.OutputDir))
		fmt.Fprintf(a.ErrWriter, "Error writing report: %v\n", err)
		return apperrors.ExitErrorReport
	}
	logger.Info("report written", logging.String("path", path))

	if !a.Config.Quiet {
		cli.DisplayOutcomeTable(outcomes, out)
	}
	report.PrintSummary(out, outcomes)
	if !a.Config.Quiet {
		fmt.Fprintf(out, "%s✓ Report saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), path, ui.ColorReset())
	}

	if ctx.Err() != nil {
		logger.Info("run canceled before completion")
		return apperrors.ExitErrorCanceled
	}
	logger.Info("all experiments processed", logging.Int("outcomes", len(outcomes)))
	return apperrors.ExitSuccess
}

// setupLogger builds the run logger. When a log file is configured it
// receives structured JSON; otherwise logs go to stderr in console format.
// The returned func closes the log file, if any.
func (a *Application) setupLogger() (logging.Logger, func()) {
	path := a.Config.LogPath()
	if path == "" {
		return logging.NewDefaultLogger(), func() {}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Warning: cannot open log file %s: %v\n", path, err)
		return logging.NewDefaultLogger(), func() {}
	}
	return logging.NewLogger(file, "forgetbench"), func() { file.Close() }
}
