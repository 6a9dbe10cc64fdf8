// Package comparison builds the normalized metric set contrasting a product
// with a more sustainable alternative.
package comparison

import (
	"math"
	"strings"

	"go-ecoscan/pkg/models"
)

// Default scores applied when a malformed descriptor is missing its
// sustainability score; synthesis succeeds regardless.
const (
	defaultOriginalScore    = 60
	defaultAlternativeScore = 80
)

// dimension is one canonical comparison axis. The offsets shape the derived
// heuristic so the four axes don't collapse onto one curve.
type dimension struct {
	name           string
	unitLabel      string
	originalOffset int
	altOffset      int
}

// The four canonical dimensions, always emitted in this order.
var dimensions = []dimension{
	{name: "Carbon Footprint", unitLabel: "kg CO2", originalOffset: 0, altOffset: 0},
	{name: "Water Usage", unitLabel: "liters", originalOffset: 5, altOffset: 3},
	{name: "Energy Efficiency", unitLabel: "kWh", originalOffset: 10, altOffset: 5},
	{name: "Recyclability", unitLabel: "percentage", originalOffset: -10, altOffset: 10},
}

// Synthesize builds a ComparisonResult from the original product, its
// alternatives and optional raw metrics from the LLM. Every alternative is
// carried into the result; the metric values contrast the original against
// the first one. Raw values are normalized into the 0-100 percentage domain;
// dimensions the LLM did not supply are derived from the two sustainability
// scores. Missing scores fall back to documented defaults, so synthesis
// never fails.
func Synthesize(original models.Product, alternatives []models.Product, raw []models.RawMetric) models.ComparisonResult {
	var alternative models.Product
	if len(alternatives) > 0 {
		alternative = alternatives[0]
	}

	origScore := original.Score(defaultOriginalScore)
	altScore := alternative.Score(defaultAlternativeScore)

	metrics := make([]models.ComparisonMetric, 0, len(dimensions))
	for _, dim := range dimensions {
		if m, ok := findRaw(raw, dim.name); ok {
			metrics = append(metrics, models.ComparisonMetric{
				Name:             dim.name,
				OriginalValue:    Normalize(m.Original),
				AlternativeValue: Normalize(m.Alternative),
				UnitLabel:        dim.unitLabel,
			})
			continue
		}
		metrics = append(metrics, derive(dim, origScore, altScore))
	}

	return models.ComparisonResult{
		Original:     original,
		Alternatives: alternatives,
		Metrics:      metrics,
	}
}

// Normalize maps an upstream value of unknown range into [0,100]. Values
// already in the percentage domain pass through, values in [0,1) are treated
// as fractions, anything else is clamped. This absorbs an LLM that
// inconsistently emits fractions and percentages.
func Normalize(v float64) int {
	switch {
	case v >= 0 && v < 1:
		return int(math.Round(v * 100))
	case v >= 0 && v <= 100:
		return int(math.Round(v))
	case v < 0:
		return 0
	default:
		return 100
	}
}

// derive computes a deterministic heuristic metric pair from the two
// sustainability scores. This is a substitute for measured data, not measured
// data itself.
func derive(dim dimension, origScore, altScore int) models.ComparisonMetric {
	improvement := float64(altScore-origScore) / 100

	originalValue := clamp(100-origScore+dim.originalOffset, 20, 100)
	alternativeValue := clamp(int(math.Round(float64(altScore)*(1+improvement/4)))+dim.altOffset, 65, 95)

	return models.ComparisonMetric{
		Name:             dim.name,
		OriginalValue:    originalValue,
		AlternativeValue: alternativeValue,
		UnitLabel:        dim.unitLabel,
	}
}

func findRaw(raw []models.RawMetric, name string) (models.RawMetric, bool) {
	for _, m := range raw {
		if strings.EqualFold(strings.TrimSpace(m.Name), name) {
			return m, true
		}
	}
	return models.RawMetric{}, false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
