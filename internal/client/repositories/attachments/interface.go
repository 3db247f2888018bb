// Package attachments stores photo blobs captured while offline, keyed by
// generated ids that queued submissions reference.
package attachments

import (
	"context"

	"github.com/culvertcrawlers/fieldsurvey/internal/client/models"
)

// Repository stores photo blobs by generated id until their submission is delivered.
type Repository interface {
	// Save stores a non-empty blob and returns its new id. Empty input
	// returns common.ErrEmptyAttachment and stores nothing.
	Save(ctx context.Context, data []byte) (string, error)

	// Get returns (nil, nil) when nothing usable is stored under id.
	Get(ctx context.Context, id string) (*models.Attachment, error)

	// Delete succeeds for absent ids.
	Delete(ctx context.Context, id string) error

	// Usage reports how many blobs are stored and their total size.
	Usage(ctx context.Context) (count int, bytes int64, err error)
}
