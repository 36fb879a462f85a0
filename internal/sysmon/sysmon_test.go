package sysmon

import "testing"

// TestSample_GaugesWithinDisplayRange verifies both gauges fit the 0..100
// range the dashboard and the scalability payload render as percentages.
func TestSample_GaugesWithinDisplayRange(t *testing.T) {
	s := Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
}

// TestSample_SuccessiveSamples exercises the delta-since-last-call CPU path:
// the scalability experiment and the TUI tick both sample repeatedly, so the
// second and later samples must stay well-formed too.
func TestSample_SuccessiveSamples(t *testing.T) {
	_ = Sample()
	s := Sample()

	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("second CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent == 0 {
		t.Error("expected non-zero MemPercent on a running system")
	}
}
