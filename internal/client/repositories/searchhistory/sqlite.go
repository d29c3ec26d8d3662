package searchhistory

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/storebox/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, query string) error {
	// one row per distinct query; repeating a search refreshes its position
	if _, err := r.db.ExecContext(ctx, `DELETE FROM search_history WHERE query = ?`, query); err != nil {
		return fmt.Errorf("failed to refresh search history: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `INSERT INTO search_history (query) VALUES (?)`, query); err != nil {
		return fmt.Errorf("failed to add search history: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, query, searched_at FROM search_history
		ORDER BY searched_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list search history: %w", err)
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Query, &e.SearchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search history row: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search history rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM search_history`); err != nil {
		return fmt.Errorf("failed to clear search history: %w", err)
	}
	return nil
}
