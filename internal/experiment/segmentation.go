package experiment

import (
	"context"

	"github.com/agbru/forgetbench/internal/config"
)

// UserSegmentation splits the sampled population into activity segments and
// reports how the forgetting mechanism affects each segment separately.
// Heavy users accumulate long histories, so forgetting is expected to help
// them most.
type UserSegmentation struct{}

// Name returns the experiment identifier.
func (UserSegmentation) Name() string { return "user_segmentation" }

// Run assigns users to segments by activity level and evaluates both
// recommender variants per segment.
func (UserSegmentation) Run(ctx context.Context, cfg config.AppConfig) (any, error) {
	m := newInteractionModel("user_segmentation", cfg)
	users := m.sampleUsers(cfg.NumUsers)

	type segmentStats struct {
		baseline   []float64
		forgetting []float64
	}
	segments := map[string]*segmentStats{
		"casual":  {},
		"regular": {},
		"heavy":   {},
	}

	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s := segments[segmentFor(m.activity[u])]
		s.baseline = append(s.baseline, m.hitRate(u, 0))
		s.forgetting = append(s.forgetting, m.hitRate(u, defaultHalfLifeDays))
	}

	payload := make(map[string]any, len(segments))
	for name, s := range segments {
		payload[name] = map[string]any{
			"num_users":           len(s.baseline),
			"baseline_hit_rate":   mean(s.baseline),
			"forgetting_hit_rate": mean(s.forgetting),
		}
	}

	return map[string]any{
		"num_users": len(users),
		"segments":  payload,
	}, nil
}

// segmentFor buckets a user by expected daily activity.
func segmentFor(activity float64) string {
	switch {
	case activity < 0.2:
		return "casual"
	case activity < 1.0:
		return "regular"
	default:
		return "heavy"
	}
}
