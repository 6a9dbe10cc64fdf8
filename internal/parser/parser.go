// Package parser turns untrusted LLM completions into validated comparison
// documents. Parse is total: malformed input degrades the result, it never
// fails.
package parser

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"go-ecoscan/internal/logger"
	"go-ecoscan/pkg/models"
)

// Outcome tags which tier produced the document.
type Outcome int

const (
	// OutcomeParsed means the full text was strict JSON.
	OutcomeParsed Outcome = iota
	// OutcomeRecovered means the document was rebuilt from an embedded
	// object span after syntactic repair.
	OutcomeRecovered
	// OutcomeDefaulted means nothing parseable was found and the fixed
	// fallback document was returned.
	OutcomeDefaulted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeParsed:
		return "parsed"
	case OutcomeRecovered:
		return "recovered"
	case OutcomeDefaulted:
		return "defaulted"
	default:
		return "unknown"
	}
}

// Parse extracts a comparison document from text using a three-tier strategy:
// strict parse, repair-and-parse of the largest object span, then a fixed
// default document. It never returns an error.
func Parse(text string) (models.Document, Outcome) {
	var doc models.Document
	if err := json.Unmarshal([]byte(text), &doc); err == nil {
		return sanitize(doc), OutcomeParsed
	}

	if span := ExtractObject(text); span != "" {
		repaired := Repair(span)
		doc = models.Document{}
		if err := json.Unmarshal([]byte(repaired), &doc); err == nil {
			logger.WithField("outcome", OutcomeRecovered.String()).Debug("Recovered document from malformed completion")
			return sanitize(doc), OutcomeRecovered
		}
	}

	logger.WithFields(logrus.Fields{
		"outcome":     OutcomeDefaulted.String(),
		"text_length": len(text),
	}).Warn("Completion held no parseable document, using defaults")
	return DefaultDocument(), OutcomeDefaulted
}

// sanitize enforces the document invariants on parsed data: scores clamped
// into [0,100] and prices never empty. Untrusted input is not trusted past
// this boundary.
func sanitize(doc models.Document) models.Document {
	doc.Original = sanitizeProduct(doc.Original)
	for i, alt := range doc.Alternatives {
		doc.Alternatives[i] = sanitizeProduct(alt)
	}
	return doc
}

func sanitizeProduct(p models.Product) models.Product {
	if p.Price == "" {
		p.Price = models.PriceUnavailable
	}
	if p.SustainabilityScore != nil {
		s := *p.SustainabilityScore
		if s < 0 {
			s = 0
		} else if s > 100 {
			s = 100
		}
		p.SustainabilityScore = &s
	}
	return p
}

// DefaultDocument is the tier-3 fallback: a fully populated sentinel product,
// alternative and metric set so a malformed completion degrades the feature
// instead of crashing the pipeline.
func DefaultDocument() models.Document {
	originalScore := 40
	alternativeScore := 85
	return models.Document{
		Original: models.Product{
			Name:                "Standard Water Bottle",
			Brand:               "AquaBasic",
			Price:               "$14.99",
			SustainabilityScore: &originalScore,
			Category:            "Drinkware",
		},
		Alternatives: []models.Product{
			{
				Name:                "Eco-friendly Water Bottle",
				Brand:               "GreenLife",
				Price:               "$24.99",
				SustainabilityScore: &alternativeScore,
				Category:            "Drinkware",
			},
		},
		Metrics: []models.RawMetric{
			{Name: "Carbon Footprint", Original: 40, Alternative: 85, UnitLabel: "kg CO2"},
			{Name: "Water Usage", Original: 45, Alternative: 88, UnitLabel: "liters"},
			{Name: "Energy Efficiency", Original: 50, Alternative: 90, UnitLabel: "kWh"},
			{Name: "Recyclability", Original: 30, Alternative: 95, UnitLabel: "percentage"},
		},
	}
}
