package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/forgetbench/internal/config"
	apperrors "github.com/agbru/forgetbench/internal/errors"
	"github.com/agbru/forgetbench/internal/logging"
)

// tracerName identifies this package's OpenTelemetry tracer.
const tracerName = "github.com/agbru/forgetbench/internal/orchestration"

// Orchestrator drives a requested, ordered sequence of experiment
// identifiers to completion, isolating failures and recording timing.
// Experiments execute strictly one after another; there is no parallel
// execution and no retry. A single Orchestrator is safe to reuse across runs.
type Orchestrator struct {
	runner   Runner
	observer RunObserver
	logger   logging.Logger
	timeout  time.Duration
	tracer   trace.Tracer
}

// Option configures an Orchestrator during construction.
type Option func(*Orchestrator)

// WithObserver sets the lifecycle observer (default: NullObserver).
func WithObserver(obs RunObserver) Option {
	return func(o *Orchestrator) { o.observer = obs }
}

// WithLogger sets the logger (default: NopLogger).
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithTimeout sets the per-experiment time budget. Zero (the default)
// disables the limit; an expired budget records the experiment as failed
// with a TimeoutError and the run continues with the next identifier.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// New creates an Orchestrator dispatching into the given runner.
func New(runner Runner, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		runner:   runner,
		observer: NullObserver{},
		logger:   logging.NopLogger{},
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the requested experiments in order and returns one Outcome per
// request, preserving request order. Failures of any kind (unknown
// identifier, execution error, panic, timeout) are converted into failed
// outcomes; they never propagate and never abort the remaining experiments.
// An empty request yields an empty, non-nil slice.
//
// Every invocation observes the identical cfg value, so differences between
// outcomes in one run are attributable only to the experiment logic.
func (o *Orchestrator) Run(ctx context.Context, ids []string, cfg config.AppConfig) []Outcome {
	outcomes := make([]Outcome, 0, len(ids))

	for i, id := range ids {
		o.observer.ExperimentStarted(id, i, len(ids))
		o.logger.Info("starting experiment",
			logging.String("experiment", id),
			logging.Int("position", i+1),
			logging.Int("total", len(ids)))

		start := time.Now()
		payload, err := o.invoke(ctx, id, cfg)
		outcome := Outcome{ID: id, Payload: payload, Duration: time.Since(start), Err: err}

		if err != nil {
			o.logger.Error("experiment failed", err,
				logging.String("experiment", id),
				logging.Duration("duration", outcome.Duration))
		} else {
			o.logger.Info("completed experiment",
				logging.String("experiment", id),
				logging.Duration("duration", outcome.Duration))
		}

		o.observer.ExperimentFinished(outcome, i, len(ids))
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// invoke runs a single experiment inside its own span and, when configured,
// its own deadline.
func (o *Orchestrator) invoke(ctx context.Context, id string, cfg config.AppConfig) (any, error) {
	ctx, span := o.tracer.Start(ctx, "experiment.run",
		trace.WithAttributes(attribute.String("experiment.id", id)))
	defer span.End()

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	payload, err := o.callRunner(ctx, id, cfg)
	if err != nil {
		if o.timeout > 0 && errors.Is(err, context.DeadlineExceeded) {
			err = apperrors.TimeoutError{Operation: id, Limit: o.timeout}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return payload, nil
}

// callRunner shields the run loop from a panicking runner. A panic is a
// failure of that one experiment, not of the batch.
func (o *Orchestrator) callRunner(ctx context.Context, id string, cfg config.AppConfig) (payload any, err error) {
	defer func() {
		if r := recover(); r != nil {
			payload = nil
			err = fmt.Errorf("experiment %q panicked: %v", id, r)
		}
	}()
	return o.runner.Run(ctx, id, cfg)
}
