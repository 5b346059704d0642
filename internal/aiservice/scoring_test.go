package aiservice

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTrajectoryScore(t *testing.T) {
	tests := []struct {
		name   string
		speeds []float64
		gaps   []float64
		want   float64
	}{
		{name: "empty inputs score zero", speeds: nil, gaps: nil, want: 0},
		{name: "constant speeds score zero deviation", speeds: []float64{5, 5, 5}, gaps: nil, want: 0},
		{name: "gaps contribute their mean", speeds: nil, gaps: []float64{0.1, 0.3}, want: 0.2},
		{name: "deviation plus mean gap", speeds: []float64{0, 1}, gaps: []float64{0.25}, want: 0.75},
		{name: "score clamps at one", speeds: []float64{0, 100}, gaps: []float64{10}, want: 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrajectoryScore(tt.speeds, tt.gaps)
			if !almostEqual(got, tt.want) {
				t.Fatalf("TrajectoryScore(%v, %v) = %v, want %v", tt.speeds, tt.gaps, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		text           string
		wantLabel      string
		wantConfidence float64
	}{
		{"Please send HELP now", "emergency", 0.85},
		{"sos", "emergency", 0.85},
		{"I am lost near the temple", "emergency", 0.85},
		{"nearest hospital?", "emergency", 0.85},
		{"lovely weather today", "other", 0.6},
		{"", "other", 0.6},
	}
	for _, tt := range tests {
		label, confidence := Classify(tt.text)
		if label != tt.wantLabel || !almostEqual(confidence, tt.wantConfidence) {
			t.Fatalf("Classify(%q) = (%q, %v), want (%q, %v)",
				tt.text, label, confidence, tt.wantLabel, tt.wantConfidence)
		}
	}
}
