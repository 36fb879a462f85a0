package experiment

import (
	"context"

	"github.com/agbru/forgetbench/internal/config"
)

// defaultHalfLifeDays is the forgetting half-life used by experiments that do
// not sweep it.
const defaultHalfLifeDays = 30.0

// BaselineComparison evaluates the forgetting recommender against a
// no-forgetting baseline over the sampled user population.
type BaselineComparison struct{}

// Name returns the experiment identifier.
func (BaselineComparison) Name() string { return "baseline_comparison" }

// Run computes hit-rate statistics for both variants and their relative lift.
func (BaselineComparison) Run(ctx context.Context, cfg config.AppConfig) (any, error) {
	m := newInteractionModel("baseline_comparison", cfg)
	users := m.sampleUsers(cfg.NumUsers)

	baseline := make([]float64, 0, len(users))
	forgetting := make([]float64, 0, len(users))

	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		baseline = append(baseline, m.hitRate(u, 0))
		forgetting = append(forgetting, m.hitRate(u, defaultHalfLifeDays))
	}

	baseMean := mean(baseline)
	forgetMean := mean(forgetting)
	lift := 0.0
	if baseMean > 0 {
		lift = (forgetMean - baseMean) / baseMean
	}

	return map[string]any{
		"num_users":           len(users),
		"baseline_hit_rate":   baseMean,
		"forgetting_hit_rate": forgetMean,
		"relative_lift":       lift,
		"half_life_days":      defaultHalfLifeDays,
	}, nil
}
