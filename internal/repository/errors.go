package repository

import "errors"

var (
	// ErrEmptyIngredient indicates a lookup with an empty ingredient name
	ErrEmptyIngredient = errors.New("empty ingredient name")

	// ErrTableUnavailable indicates the score table cannot be queried
	ErrTableUnavailable = errors.New("score table unavailable")
)
