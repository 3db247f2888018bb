// Package queue persists the offline submission queue as one JSON array
// under a single metadata key. Every mutation rewrites the whole array.
package queue

import (
	"context"

	"github.com/culvertcrawlers/fieldsurvey/internal/client/models"
)

// Repository is the offline queue of submissions awaiting delivery.
type Repository interface {
	// Enqueue appends s at the tail.
	Enqueue(ctx context.Context, s models.Submission) error

	// List returns the queue in enqueue order. A missing key is an empty
	// queue.
	List(ctx context.Context) ([]models.Submission, error)

	// Replace overwrites the whole queue. An empty sequence removes the key.
	Replace(ctx context.Context, seq []models.Submission) error

	Count(ctx context.Context) (int, error)

	// Rewrite runs read, fn, replace as one atomic step.
	Rewrite(ctx context.Context, fn func(current []models.Submission) []models.Submission) error
}
