package repository

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

// SQLiteScoreTable implements ScoreTable over an embedded SQLite database.
type SQLiteScoreTable struct {
	db *sql.DB
}

// NewSQLiteScoreTable opens (and if necessary initializes) the score table at
// the given path.
func NewSQLiteScoreTable(dbPath string) (*SQLiteScoreTable, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening score table: %w", err)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing score table schema: %w", err)
	}

	return &SQLiteScoreTable{db: db}, nil
}

func initializeSchema(db *sql.DB) error {
	schemaBytes, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("error reading schema file: %w", err)
	}
	if _, err := db.Exec(string(schemaBytes)); err != nil {
		return fmt.Errorf("error executing schema: %w", err)
	}
	return nil
}

// Lookup returns candidate rows whose names contain the ingredient,
// case-insensitively. Rows come back ordered by name so repeated lookups are
// deterministic regardless of insertion order.
func (t *SQLiteScoreTable) Lookup(ctx context.Context, ingredient string) ([]ScoreRow, error) {
	ingredient = strings.TrimSpace(ingredient)
	if ingredient == "" {
		return nil, ErrEmptyIngredient
	}

	query := `
		SELECT ingredient_name, score
		FROM ingredient_scores
		WHERE LOWER(ingredient_name) LIKE '%' || LOWER(?) || '%'
		ORDER BY ingredient_name
	`

	rows, err := t.db.QueryContext(ctx, query, ingredient)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTableUnavailable, err)
	}
	defer rows.Close()

	var result []ScoreRow
	for rows.Next() {
		var row ScoreRow
		if err := rows.Scan(&row.IngredientName, &row.Score); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTableUnavailable, err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// Close releases the underlying database handle.
func (t *SQLiteScoreTable) Close() error {
	return t.db.Close()
}
