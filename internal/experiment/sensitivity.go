package experiment

import (
	"context"
	"fmt"

	"github.com/agbru/forgetbench/internal/config"
)

// halfLifeSweep is the forgetting half-life grid (days) evaluated by the
// sensitivity experiment.
var halfLifeSweep = []float64{7, 14, 30, 60, 90, 180}

// ParameterSensitivity sweeps the forgetting half-life and reports accuracy
// per parameter value plus the best setting found.
type ParameterSensitivity struct{}

// Name returns the experiment identifier.
func (ParameterSensitivity) Name() string { return "parameter_sensitivity" }

// Run evaluates every half-life in the sweep over the sampled users.
func (ParameterSensitivity) Run(ctx context.Context, cfg config.AppConfig) (any, error) {
	m := newInteractionModel("parameter_sensitivity", cfg)
	users := m.sampleUsers(cfg.NumUsers)

	perParam := make(map[string]float64, len(halfLifeSweep))
	bestHalfLife, bestRate := 0.0, -1.0

	for _, hl := range halfLifeSweep {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rates := make([]float64, 0, len(users))
		for _, u := range users {
			rates = append(rates, m.hitRate(u, hl))
		}
		avg := mean(rates)
		perParam[fmt.Sprintf("half_life_%dd", int(hl))] = avg
		if avg > bestRate {
			bestRate, bestHalfLife = avg, hl
		}
	}

	return map[string]any{
		"num_users":           len(users),
		"hit_rate_per_param":  perParam,
		"best_half_life_days": bestHalfLife,
		"best_hit_rate":       bestRate,
	}, nil
}
