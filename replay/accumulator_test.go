package replay

import (
	"math"
	"testing"
)

func TestAccumulator_Observe(t *testing.T) {
	tests := []struct {
		name        string
		predictions []float64
		actuals     []float64
		wantRMSE    float64
		wantCount   int64
	}{
		{
			name:        "perfect predictions stay at zero",
			predictions: []float64{3.0, 4.0, 2.5},
			actuals:     []float64{3.0, 4.0, 2.5},
			wantRMSE:    0,
			wantCount:   3,
		},
		{
			name:        "constant error of one",
			predictions: []float64{4.0, 4.0},
			actuals:     []float64{3.0, 3.0},
			wantRMSE:    1,
			wantCount:   2,
		},
		{
			name:        "nan is a no-op",
			predictions: []float64{4.0, math.NaN(), math.Inf(1)},
			actuals:     []float64{3.0, 100, 100},
			wantRMSE:    1,
			wantCount:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Accumulator{}
			var got float64
			for i := range tt.predictions {
				got = acc.Observe(tt.predictions[i], tt.actuals[i])
			}
			if math.Abs(got-tt.wantRMSE) > 1e-9 {
				t.Errorf("RMSE = %v, want %v", got, tt.wantRMSE)
			}
			if acc.Count() != tt.wantCount {
				t.Errorf("Count = %v, want %v", acc.Count(), tt.wantCount)
			}
		})
	}
}

func TestAccumulator_ZeroBeforeFirstObservation(t *testing.T) {
	acc := &Accumulator{}
	if got := acc.RMSE(); got != 0 {
		t.Errorf("RMSE before any observation = %v, want 0", got)
	}
	if got := acc.Observe(math.NaN(), 5.0); got != 0 {
		t.Errorf("RMSE after no-op observation = %v, want 0", got)
	}
	if acc.Count() != 0 {
		t.Errorf("Count = %v, want 0", acc.Count())
	}
}

func TestAccumulator_MonotonicCount(t *testing.T) {
	acc := &Accumulator{}
	prev := int64(0)
	inputs := []float64{1, math.NaN(), 2, math.Inf(-1), 3}
	for _, p := range inputs {
		acc.Observe(p, 2.0)
		if acc.Count() < prev {
			t.Fatalf("count decreased: %d -> %d", prev, acc.Count())
		}
		prev = acc.Count()
	}
	if prev != 3 {
		t.Errorf("final count = %d, want 3", prev)
	}
}

func TestAccumulator_Restore(t *testing.T) {
	acc := &Accumulator{}
	acc.Restore(8, 2)
	if got := acc.RMSE(); math.Abs(got-2) > 1e-9 {
		t.Errorf("RMSE after restore = %v, want 2", got)
	}
	sse, n := acc.State()
	if sse != 8 || n != 2 {
		t.Errorf("State = (%v, %v), want (8, 2)", sse, n)
	}
}
