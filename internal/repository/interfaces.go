package repository

import "context"

// ScoreRow is one entry of the external ingredient score table.
type ScoreRow struct {
	IngredientName string
	Score          int
}

// ScoreTable gives read-only access to the ingredient score lookup table.
// Queries are idempotent and side-effect-free; no locking is required.
type ScoreTable interface {
	// Lookup returns every row whose ingredient name contains the given
	// ingredient, case-insensitively, in a deterministic order. An empty
	// slice means no match.
	Lookup(ctx context.Context, ingredient string) ([]ScoreRow, error)

	Close() error
}
