package experiment

import (
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/agbru/forgetbench/internal/config"
)

// interactionModel is a seeded synthetic user-interaction model shared by the
// experiment implementations. The harness deliberately does not parse real
// datasets; experiments draw users and interaction histories from this model
// so runs are self-contained and fully reproducible from the configuration
// seed.
type interactionModel struct {
	rng      *rand.Rand
	numUsers int
	// activity[u] is the expected interactions per day for user u.
	activity []float64
	// historyDays is the simulated observation window per user.
	historyDays []int
}

// newInteractionModel builds a model for the experiment named by id. The
// effective seed mixes cfg.Seed with the identifier so experiments are
// mutually independent yet individually deterministic.
func newInteractionModel(id string, cfg config.AppConfig) *interactionModel {
	h := fnv.New64a()
	h.Write([]byte(id))
	rng := rand.New(rand.NewSource(cfg.Seed ^ int64(h.Sum64())))

	m := &interactionModel{
		rng:         rng,
		numUsers:    cfg.NumUsers,
		activity:    make([]float64, cfg.NumUsers),
		historyDays: make([]int, cfg.NumUsers),
	}
	for u := 0; u < cfg.NumUsers; u++ {
		// Log-normal activity: most users casual, a few heavy.
		m.activity[u] = math.Exp(rng.NormFloat64()*0.8 - 1.0)
		m.historyDays[u] = 30 + rng.Intn(335)
	}
	return m
}

// interactionCount returns the simulated number of interactions for user u
// over the given number of days.
func (m *interactionModel) interactionCount(u, days int) int {
	expected := m.activity[u] * float64(days)
	// Poisson-ish jitter around the expectation.
	jitter := 1.0 + 0.2*m.rng.NormFloat64()
	if jitter < 0 {
		jitter = 0
	}
	return int(expected * jitter)
}

// decayWeight is the exponential forgetting weight for an interaction ageDays
// old under the given half-life.
func decayWeight(ageDays, halfLifeDays float64) float64 {
	if halfLifeDays <= 0 {
		return 1.0
	}
	return math.Exp(-math.Ln2 * ageDays / halfLifeDays)
}

// hitRate simulates top-N recommendation accuracy for one user. The base
// probability grows with interaction volume; applying forgetting shifts mass
// towards recent behavior, modeled as a recency bonus proportional to how
// much of the user's history survives the decay.
func (m *interactionModel) hitRate(u int, halfLifeDays float64) float64 {
	interactions := m.interactionCount(u, m.historyDays[u])
	if interactions == 0 {
		return 0
	}

	base := 1.0 - math.Exp(-float64(interactions)/50.0)

	if halfLifeDays <= 0 {
		// No forgetting: stale preferences dilute accuracy on long histories.
		staleness := float64(m.historyDays[u]) / 365.0
		return clamp01(base * (1.0 - 0.15*staleness))
	}

	// Surviving weight fraction over a uniformly spread history.
	survived := 0.0
	samples := 10
	for i := 0; i < samples; i++ {
		age := float64(m.historyDays[u]) * (float64(i) + 0.5) / float64(samples)
		survived += decayWeight(age, halfLifeDays)
	}
	survived /= float64(samples)

	recencyBonus := 0.1 * (1.0 - survived)
	return clamp01(base*(0.9+survived*0.1) + recencyBonus)
}

// sampleUsers returns n distinct user indices drawn from the model.
func (m *interactionModel) sampleUsers(n int) []int {
	if n > m.numUsers {
		n = m.numUsers
	}
	return m.rng.Perm(m.numUsers)[:n]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// mean returns the arithmetic mean of vs, or 0 for an empty slice.
func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
