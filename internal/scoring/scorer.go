// Package scoring matches extracted ingredients against the score table and
// aggregates the matches into a single sustainability average.
package scoring

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/arbovm/levenshtein"
	"github.com/sirupsen/logrus"

	"go-ecoscan/internal/logger"
	"go-ecoscan/internal/repository"
	"go-ecoscan/pkg/models"
)

// Report aggregates the scoring outcome for one ingredient list.
// AverageScore is nil when no ingredient matched.
type Report struct {
	Records      []models.IngredientRecord
	AverageScore *int
	Matched      int
	Total        int
}

// Scorer performs read-only lookups against the ingredient score table.
type Scorer struct {
	table repository.ScoreTable
}

// NewScorer creates a scorer backed by the given score table.
func NewScorer(table repository.ScoreTable) *Scorer {
	return &Scorer{table: table}
}

// Score looks up each ingredient and returns per-ingredient records plus the
// rounded mean of the matched scores. A missing match is recorded with a nil
// score, never treated as a failure; only context cancellation aborts.
func (s *Scorer) Score(ctx context.Context, ingredientNames []string) (Report, error) {
	report := Report{
		Records: make([]models.IngredientRecord, 0, len(ingredientNames)),
		Total:   len(ingredientNames),
	}

	var sum int
	for _, name := range ingredientNames {
		record := models.IngredientRecord{Name: name}

		rows, err := s.table.Lookup(ctx, name)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return Report{}, err
			}
			logger.WithError(err).WithField("ingredient", name).Warn("Score table lookup failed, recording miss")
		}

		if row, ok := pickMatch(name, rows); ok {
			score := row.Score
			matched := row.IngredientName
			record.Score = &score
			record.MatchedWith = &matched
			report.Matched++
			sum += score
		}

		report.Records = append(report.Records, record)
	}

	if report.Matched > 0 {
		avg := int(math.Round(float64(sum) / float64(report.Matched)))
		report.AverageScore = &avg
	}

	logger.WithFields(logrus.Fields{
		"matched": report.Matched,
		"total":   report.Total,
	}).Debug("Ingredient scoring completed")

	return report, nil
}

// pickMatch selects at most one row for an ingredient. The upstream table
// gives no tie-break of its own, so matching is made deterministic here: an
// exact case-insensitive name match wins, otherwise the candidate with the
// lowest word error rate against the ingredient, then the smallest character
// edit distance, with the lexicographically smaller name breaking remaining
// ties. The word-level stage keeps multi-word table names ("Raw Cane Sugar
// Extract") from losing to short near-misspellings on raw character count.
func pickMatch(ingredient string, rows []repository.ScoreRow) (repository.ScoreRow, bool) {
	if len(rows) == 0 {
		return repository.ScoreRow{}, false
	}

	lowerIngredient := strings.ToLower(strings.TrimSpace(ingredient))
	ingredientWords := strings.Fields(lowerIngredient)

	best := rows[0]
	bestWords, bestChars := -1, -1
	for _, row := range rows {
		lowerName := strings.ToLower(row.IngredientName)
		if lowerName == lowerIngredient {
			return row, true
		}
		// The reference word count is the same for every candidate, so
		// ranking by word error rate reduces to ranking by word-level
		// edit distance.
		words := wordDistance(ingredientWords, strings.Fields(lowerName))
		chars := levenshtein.Distance(lowerIngredient, lowerName)
		if bestWords == -1 || words < bestWords ||
			(words == bestWords && chars < bestChars) ||
			(words == bestWords && chars == bestChars && row.IngredientName < best.IngredientName) {
			best = row
			bestWords = words
			bestChars = chars
		}
	}
	return best, true
}

// wordDistance is the Levenshtein distance over whole words, the numerator of
// a word error rate with ref as the reference.
func wordDistance(ref, hyp []string) int {
	prev := make([]int, len(hyp)+1)
	curr := make([]int, len(hyp)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ref); i++ {
		curr[0] = i
		for j := 1; j <= len(hyp); j++ {
			cost := 1
			if ref[i-1] == hyp[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(hyp)]
}
