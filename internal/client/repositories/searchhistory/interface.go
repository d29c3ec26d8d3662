// Package searchhistory records the queries a user has searched for, so
// the CLI can offer them again.
package searchhistory

import (
	"context"
	"time"
)

// Entry is one remembered search.
type Entry struct {
	ID         int64
	Query      string
	SearchedAt time.Time
}

type Repository interface {
	// Add records a query. Re-searching an existing query moves it to the top.
	Add(ctx context.Context, query string) error

	// Recent returns up to limit entries, most recent first.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// Clear forgets all history.
	Clear(ctx context.Context) error
}
