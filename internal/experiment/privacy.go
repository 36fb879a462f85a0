package experiment

import (
	"context"

	"github.com/agbru/forgetbench/internal/config"
)

// PrivacyImpact quantifies how effectively the forgetting mechanism removes
// the influence of old interactions: the residual influence of interactions
// past the half-life and the fraction of users whose stale history falls
// below an influence floor.
type PrivacyImpact struct{}

// influenceFloor is the residual weight below which an interaction is
// considered effectively forgotten.
const influenceFloor = 0.05

// Name returns the experiment identifier.
func (PrivacyImpact) Name() string { return "privacy_impact" }

// Run measures residual influence of aged interactions per user.
func (PrivacyImpact) Run(ctx context.Context, cfg config.AppConfig) (any, error) {
	m := newInteractionModel("privacy_impact", cfg)
	users := m.sampleUsers(cfg.NumUsers)

	residuals := make([]float64, 0, len(users))
	forgottenUsers := 0

	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Average surviving weight of interactions older than the half-life.
		total, count := 0.0, 0
		for age := defaultHalfLifeDays; age <= float64(m.historyDays[u]); age += defaultHalfLifeDays {
			total += decayWeight(age, defaultHalfLifeDays)
			count++
		}
		residual := 0.0
		if count > 0 {
			residual = total / float64(count)
		}
		residuals = append(residuals, residual)
		if residual < influenceFloor {
			forgottenUsers++
		}
	}

	return map[string]any{
		"num_users":            len(users),
		"half_life_days":       defaultHalfLifeDays,
		"mean_residual":        mean(residuals),
		"influence_floor":      influenceFloor,
		"forgotten_user_share": float64(forgottenUsers) / float64(maxInt(len(users), 1)),
		"forgotten_user_count": forgottenUsers,
	}, nil
}
