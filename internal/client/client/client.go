package client

import (
	"context"

	"github.com/culvertcrawlers/fieldsurvey/internal/client/models"
)

// Pinger checks that the survey server answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Client is the survey server API used by the field client.
type Client interface {
	Pinger
	Submit(ctx context.Context, p models.Payload) (*Ack, error)
	History(ctx context.Context, reporter string) ([]models.HistoryItem, error)
	Close() error
}

// Ack is the acknowledgment body of a successful submit.
type Ack struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ID        int64  `json:"id,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
}
