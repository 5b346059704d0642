// Package aiservice implements the placeholder scoring endpoints served by the
// companion AI process. Both scorers are stand-ins for real models: the
// trajectory score is a crude statistical proxy and the classifier is a
// keyword match.
package aiservice

import (
	"math"
	"strings"
)

// emergencyKeywords trigger the emergency label when present anywhere in the
// lowercased text.
var emergencyKeywords = []string{"help", "sos", "panic", "attack", "harass", "hospital", "lost"}

// TrajectoryScore combines the population standard deviation of speeds with
// the mean gap, clamped to 1.0. Empty slices score as a single zero sample.
func TrajectoryScore(speeds, gaps []float64) float64 {
	score := stdDev(speeds) + mean(gaps)
	return math.Min(score, 1.0)
}

// Classify labels text as emergency or other with a fixed confidence.
func Classify(text string) (label string, confidence float64) {
	lowered := strings.ToLower(text)
	for _, kw := range emergencyKeywords {
		if strings.Contains(lowered, kw) {
			return "emergency", 0.85
		}
	}
	return "other", 0.6
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdDev is the population standard deviation.
func stdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}
