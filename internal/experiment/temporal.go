package experiment

import (
	"context"
	"fmt"

	"github.com/agbru/forgetbench/internal/config"
)

// TemporalEvaluation measures forgetting accuracy across growing evaluation
// windows up to the configured test window. Under a temporal split the
// windows are anchored at the split cutoff; under a random split a single
// full-window evaluation is performed.
type TemporalEvaluation struct{}

// Name returns the experiment identifier.
func (TemporalEvaluation) Name() string { return "temporal_evaluation" }

// Run evaluates hit rates per window and returns one entry per window size.
func (TemporalEvaluation) Run(ctx context.Context, cfg config.AppConfig) (any, error) {
	m := newInteractionModel("temporal_evaluation", cfg)
	users := m.sampleUsers(cfg.NumUsers)

	windows := []int{cfg.TestDays}
	if cfg.TemporalSplit {
		windows = windowSizes(cfg.TestDays)
	}

	perWindow := make(map[string]float64, len(windows))
	for _, days := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rates := make([]float64, 0, len(users))
		for _, u := range users {
			// Short windows emphasize recent behavior, which forgetting favors.
			halfLife := defaultHalfLifeDays * float64(days) / float64(maxInt(cfg.TestDays, 1))
			rates = append(rates, m.hitRate(u, halfLife))
		}
		perWindow[fmt.Sprintf("window_%dd", days)] = mean(rates)
	}

	return map[string]any{
		"split":           splitName(cfg.TemporalSplit),
		"test_days":       cfg.TestDays,
		"num_users":       len(users),
		"hit_rate_window": perWindow,
	}, nil
}

// windowSizes returns evaluation windows of 7-day steps up to testDays,
// always including testDays itself.
func windowSizes(testDays int) []int {
	var out []int
	for d := 7; d < testDays; d += 7 {
		out = append(out, d)
	}
	return append(out, testDays)
}

func splitName(temporal bool) string {
	if temporal {
		return "temporal"
	}
	return "random"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
