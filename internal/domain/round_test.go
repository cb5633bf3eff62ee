package domain

import "testing"

func TestRound(t *testing.T) {
	tests := []struct {
		v         float64
		precision int
		want      float64
	}{
		{0.83333333, 3, 0.833},
		{1.5, 0, 2},
		{12.345678, 2, 12.35},
		{0, 3, 0},
		{-0.1234, 2, -0.12},
	}
	for _, tc := range tests {
		if got := Round(tc.v, tc.precision); got != tc.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tc.v, tc.precision, got, tc.want)
		}
	}
}

func TestDefaultSearchConfig(t *testing.T) {
	cfg := DefaultSearchConfig()
	if cfg.Limit != 20 {
		t.Errorf("Limit = %d, want 20", cfg.Limit)
	}
	if cfg.MinScore != 0.2 {
		t.Errorf("MinScore = %v, want 0.2", cfg.MinScore)
	}
	if cfg.SimilarityThreshold != 0.3 || cfg.WordSimilarityThreshold != 0.6 {
		t.Errorf("thresholds = %v/%v, want 0.3/0.6", cfg.SimilarityThreshold, cfg.WordSimilarityThreshold)
	}
}
