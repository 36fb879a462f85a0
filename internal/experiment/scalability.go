package experiment

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/forgetbench/internal/config"
	"github.com/agbru/forgetbench/internal/metrics"
	"github.com/agbru/forgetbench/internal/sysmon"
)

// populationScales are the synthetic population sizes the scalability
// experiment scores, as multiples of the configured sample size.
var populationScales = []int{1, 10, 50, 100}

// ScalabilityTest measures decay-scoring throughput as the user population
// grows. Scoring inside one batch is parallelized across CPUs; the
// orchestrator-level execution remains strictly sequential.
type ScalabilityTest struct{}

// Name returns the experiment identifier.
func (ScalabilityTest) Name() string { return "scalability_test" }

// Run scores each population scale and reports per-scale wall time plus
// process and system resource snapshots.
func (ScalabilityTest) Run(ctx context.Context, cfg config.AppConfig) (any, error) {
	m := newInteractionModel("scalability_test", cfg)
	collector := metrics.NewMemoryCollector()

	perScale := make(map[string]any, len(populationScales))
	for _, scale := range populationScales {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		population := cfg.NumUsers * scale
		start := time.Now()
		if err := scorePopulation(ctx, m, population); err != nil {
			return nil, err
		}
		elapsed := time.Since(start)

		throughput := 0.0
		if elapsed > 0 {
			throughput = float64(population) / elapsed.Seconds()
		}
		perScale[fmt.Sprintf("users_%d", population)] = map[string]any{
			"seconds":          elapsed.Seconds(),
			"users_per_second": throughput,
		}
	}

	mem := collector.Snapshot()
	sys := sysmon.Sample()

	return map[string]any{
		"scales":           perScale,
		"workers":          runtime.NumCPU(),
		"heap_alloc_bytes": mem.HeapAlloc,
		"gc_cycles":        mem.NumGC,
		"cpu_percent":      sys.CPUPercent,
		"mem_percent":      sys.MemPercent,
	}, nil
}

// scorePopulation computes decay-weighted scores for a synthetic population,
// spread over one worker per CPU.
func scorePopulation(ctx context.Context, m *interactionModel, population int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	chunk := population/runtime.NumCPU() + 1
	for lo := 0; lo < population; lo += chunk {
		lo, hi := lo, minInt(lo+chunk, population)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if i%4096 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				// Map the synthetic index back onto a modeled user profile.
				u := i % m.numUsers
				age := float64(i%365) + 0.5
				_ = m.activity[u] * decayWeight(age, defaultHalfLifeDays)
			}
			return nil
		})
	}
	return g.Wait()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
