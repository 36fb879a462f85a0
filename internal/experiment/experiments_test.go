package experiment

import (
	"context"
	"reflect"
	"testing"
)

// deterministicExperiments are the experiments whose payloads contain no
// wall-clock measurements and must therefore be byte-identical across runs
// with the same seed.
func deterministicExperiments() []Experiment {
	return []Experiment{
		&BaselineComparison{},
		&TemporalEvaluation{},
		&ParameterSensitivity{},
		&PrivacyImpact{},
		&UserSegmentation{},
	}
}

// TestExperiments_Deterministic verifies seed-driven reproducibility.
func TestExperiments_Deterministic(t *testing.T) {
	cfg := testConfig()

	for _, e := range deterministicExperiments() {
		t.Run(e.Name(), func(t *testing.T) {
			first, err := e.Run(context.Background(), cfg)
			if err != nil {
				t.Fatalf("first run failed: %v", err)
			}
			second, err := e.Run(context.Background(), cfg)
			if err != nil {
				t.Fatalf("second run failed: %v", err)
			}
			if !reflect.DeepEqual(first, second) {
				t.Errorf("payloads differ across runs with identical config:\n%v\n%v", first, second)
			}
		})
	}
}

// TestExperiments_SeedChangesPayload verifies the seed actually flows into
// the simulation.
func TestExperiments_SeedChangesPayload(t *testing.T) {
	cfgA := testConfig()
	cfgB := testConfig()
	cfgB.Seed = 1337

	e := &BaselineComparison{}
	a, err := e.Run(context.Background(), cfgA)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Run(context.Background(), cfgB)
	if err != nil {
		t.Fatal(err)
	}
	if reflect.DeepEqual(a, b) {
		t.Error("different seeds should produce different payloads")
	}
}

// TestExperiments_HonorCancellation verifies experiments stop on a canceled
// context.
func TestExperiments_HonorCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	all := append(deterministicExperiments(), &ScalabilityTest{})
	for _, e := range all {
		t.Run(e.Name(), func(t *testing.T) {
			if _, err := e.Run(ctx, testConfig()); err == nil {
				t.Error("canceled context should abort the experiment")
			}
		})
	}
}

// TestBaselineComparison_PayloadShape verifies the mandatory metric keys.
func TestBaselineComparison_PayloadShape(t *testing.T) {
	payload, err := (&BaselineComparison{}).Run(context.Background(), testConfig())
	if err != nil {
		t.Fatal(err)
	}

	p, ok := payload.(map[string]any)
	if !ok {
		t.Fatalf("payload type %T, want map", payload)
	}
	for _, key := range []string{"baseline_hit_rate", "forgetting_hit_rate", "relative_lift", "num_users"} {
		if _, ok := p[key]; !ok {
			t.Errorf("payload missing key %q", key)
		}
	}
	if p["num_users"] != 25 {
		t.Errorf("num_users = %v, want 25", p["num_users"])
	}

	for _, key := range []string{"baseline_hit_rate", "forgetting_hit_rate"} {
		rate := p[key].(float64)
		if rate < 0 || rate > 1 {
			t.Errorf("%s = %v, want within [0, 1]", key, rate)
		}
	}
}

// TestTemporalEvaluation_Windows verifies window generation per split mode.
func TestTemporalEvaluation_Windows(t *testing.T) {
	t.Run("temporal split produces 7-day steps", func(t *testing.T) {
		want := []int{7, 14, 21, 28, 30}
		if got := windowSizes(30); !reflect.DeepEqual(got, want) {
			t.Errorf("windowSizes(30) = %v, want %v", got, want)
		}
	})

	t.Run("random split evaluates one window", func(t *testing.T) {
		cfg := testConfig()
		cfg.TemporalSplit = false

		payload, err := (&TemporalEvaluation{}).Run(context.Background(), cfg)
		if err != nil {
			t.Fatal(err)
		}
		p := payload.(map[string]any)
		if p["split"] != "random" {
			t.Errorf("split = %v, want random", p["split"])
		}
		windows := p["hit_rate_window"].(map[string]float64)
		if len(windows) != 1 {
			t.Errorf("random split should produce a single window, got %v", windows)
		}
	})
}

// TestParameterSensitivity_SweepsAllParams verifies one entry per half-life.
func TestParameterSensitivity_SweepsAllParams(t *testing.T) {
	payload, err := (&ParameterSensitivity{}).Run(context.Background(), testConfig())
	if err != nil {
		t.Fatal(err)
	}
	p := payload.(map[string]any)
	perParam := p["hit_rate_per_param"].(map[string]float64)
	if len(perParam) != len(halfLifeSweep) {
		t.Errorf("got %d sweep entries, want %d", len(perParam), len(halfLifeSweep))
	}
	best := p["best_half_life_days"].(float64)
	if best <= 0 {
		t.Errorf("best_half_life_days = %v, want positive", best)
	}
}

// TestPrivacyImpact_Bounds verifies the residual metrics stay in range.
func TestPrivacyImpact_Bounds(t *testing.T) {
	payload, err := (&PrivacyImpact{}).Run(context.Background(), testConfig())
	if err != nil {
		t.Fatal(err)
	}
	p := payload.(map[string]any)

	residual := p["mean_residual"].(float64)
	if residual < 0 || residual > 1 {
		t.Errorf("mean_residual = %v, want within [0, 1]", residual)
	}
	share := p["forgotten_user_share"].(float64)
	if share < 0 || share > 1 {
		t.Errorf("forgotten_user_share = %v, want within [0, 1]", share)
	}
}

// TestScalabilityTest_PayloadShape verifies per-scale entries and resource
// snapshots are present.
func TestScalabilityTest_PayloadShape(t *testing.T) {
	cfg := testConfig()
	cfg.NumUsers = 10 // keep populations small

	payload, err := (&ScalabilityTest{}).Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	p := payload.(map[string]any)

	scales := p["scales"].(map[string]any)
	if len(scales) != len(populationScales) {
		t.Errorf("got %d scales, want %d", len(scales), len(populationScales))
	}
	for name, v := range scales {
		entry := v.(map[string]any)
		if entry["seconds"].(float64) < 0 {
			t.Errorf("scale %s has negative duration", name)
		}
	}
	if p["workers"].(int) < 1 {
		t.Error("workers should be at least 1")
	}
}

// TestUserSegmentation_CoversAllUsers verifies segment counts add up.
func TestUserSegmentation_CoversAllUsers(t *testing.T) {
	cfg := testConfig()
	payload, err := (&UserSegmentation{}).Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	p := payload.(map[string]any)
	segments := p["segments"].(map[string]any)

	total := 0
	for _, v := range segments {
		total += v.(map[string]any)["num_users"].(int)
	}
	if total != cfg.NumUsers {
		t.Errorf("segment sizes sum to %d, want %d", total, cfg.NumUsers)
	}
}

// TestDecayWeight verifies half-life semantics.
func TestDecayWeight(t *testing.T) {
	if w := decayWeight(0, 30); w != 1.0 {
		t.Errorf("decayWeight(0) = %v, want 1", w)
	}
	if w := decayWeight(30, 30); w < 0.49 || w > 0.51 {
		t.Errorf("decayWeight at the half-life = %v, want ~0.5", w)
	}
	if w := decayWeight(300, 30); w > 0.01 {
		t.Errorf("decayWeight(10 half-lives) = %v, want near 0", w)
	}
	if w := decayWeight(100, 0); w != 1.0 {
		t.Errorf("zero half-life disables decay, got %v", w)
	}
}
