package models

// Product describes one product as shown to the user. JSON field names follow
// the client contract (camelCase), not the usual snake_case.
type Product struct {
	Name  string `json:"name"`
	Brand string `json:"brand"`
	// Price is a formatted currency string or the "Price unavailable"
	// sentinel, never empty.
	Price string `json:"price"`
	// Image is a public URL or a data URI.
	Image string `json:"image"`
	// SustainabilityScore lies in [0,100] when present.
	SustainabilityScore *int   `json:"sustainabilityScore"`
	Category            string `json:"category,omitempty"`
}

// PriceUnavailable is the sentinel used when no price could be extracted.
const PriceUnavailable = "Price unavailable"

// Score returns the sustainability score or the given fallback when absent.
func (p Product) Score(fallback int) int {
	if p.SustainabilityScore == nil {
		return fallback
	}
	return *p.SustainabilityScore
}

// IngredientRecord is the scoring outcome for a single ingredient.
// Score is nil exactly when no lookup match was found, and MatchedWith is nil
// exactly when Score is nil.
type IngredientRecord struct {
	Name        string  `json:"name"`
	Score       *int    `json:"score"`
	MatchedWith *string `json:"matchedWith"`
}

// ComparisonMetric holds one normalized comparison dimension. Both values are
// percentages in [0,100] regardless of the range the upstream source used.
type ComparisonMetric struct {
	Name             string `json:"name"`
	OriginalValue    int    `json:"originalValue"`
	AlternativeValue int    `json:"alternativeValue"`
	UnitLabel        string `json:"unitLabel"`
}

// ComparisonResult is the final product of one analysis run. Alternatives is
// non-empty whenever the pipeline succeeds and Metrics always holds exactly
// the four canonical dimensions.
type ComparisonResult struct {
	Original     Product            `json:"original"`
	Alternatives []Product          `json:"alternatives"`
	Metrics      []ComparisonMetric `json:"metrics"`
}

// RawMetric is an unnormalized metric pair as emitted by the LLM. Values may
// be fractions, percentages or anything else; the synthesizer normalizes them.
type RawMetric struct {
	Name        string  `json:"name"`
	Original    float64 `json:"original"`
	Alternative float64 `json:"alternative"`
	UnitLabel   string  `json:"unitLabel"`
}

// Document is the validated shape recovered from an LLM completion.
type Document struct {
	Original     Product     `json:"original"`
	Alternatives []Product   `json:"alternatives"`
	Metrics      []RawMetric `json:"metrics,omitempty"`
}

// AnalysisResponse is the client-facing payload of POST /analyze.
type AnalysisResponse struct {
	Ingredients        []string           `json:"ingredients,omitempty"`
	AverageScore       *int               `json:"averageScore"`
	MatchedIngredients int                `json:"matchedIngredients"`
	TotalIngredients   int                `json:"totalIngredients"`
	IngredientScores   []IngredientRecord `json:"ingredientScores,omitempty"`
	Result             string             `json:"result,omitempty"`
	Alternatives       []Product          `json:"alternatives,omitempty"`
	Comparison         *ComparisonResult  `json:"comparison,omitempty"`
}
