// Package blob abstracts binary object storage for uploaded file content.
// Metadata lives in PostgreSQL; only the raw bytes go through here.
package blob

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store is the contract the file service uses to persist and remove
// uploaded content. Implementations return the public URL of the stored
// object.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// RandomStorageKey produces a date-partitioned object key so buckets stay
// browsable: users/<year>/<month>/<day>/<uuid>.
func RandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("users/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}
