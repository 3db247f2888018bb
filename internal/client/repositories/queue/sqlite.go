package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/culvertcrawlers/fieldsurvey/internal/client/models"
	"github.com/culvertcrawlers/fieldsurvey/internal/client/repositories/metadata"
	"github.com/culvertcrawlers/fieldsurvey/internal/common"
	"github.com/culvertcrawlers/fieldsurvey/internal/dbx"
	"github.com/culvertcrawlers/fieldsurvey/internal/logging"
)

// DB is satisfied by *sql.DB.
type DB interface {
	dbx.DBTX
	dbx.Beginner
}

type SQLiteRepository struct {
	db  DB
	log logging.Logger
	key string

	// mu serializes read-modify-write cycles inside this process; the
	// transaction covers the storage side.
	mu sync.Mutex
}

func NewSQLiteRepository(db DB, l logging.Logger) *SQLiteRepository {
	return &SQLiteRepository{
		db:  db,
		log: l.With("module", "queue"),
		key: common.OfflineQueueKey,
	}
}

func (r *SQLiteRepository) Enqueue(ctx context.Context, s models.Submission) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	return r.Rewrite(ctx, func(current []models.Submission) []models.Submission {
		return append(current, s)
	})
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Submission, error) {
	return r.load(ctx, metadata.NewSQLiteRepository(r.db))
}

func (r *SQLiteRepository) Replace(ctx context.Context, seq []models.Submission) error {
	return r.Rewrite(ctx, func([]models.Submission) []models.Submission {
		return seq
	})
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	seq, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(seq), nil
}

func (r *SQLiteRepository) Rewrite(ctx context.Context, fn func([]models.Submission) []models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		md := metadata.NewSQLiteRepository(tx)

		current, err := r.load(ctx, md)
		if err != nil {
			return err
		}

		return r.store(ctx, md, fn(current))
	})
}

// load decodes the persisted queue.
//
// KNOWN DATA-LOSS RISK: a payload that fails to decode is reported as an
// empty queue so the app keeps working. The next mutation overwrites the
// corrupted payload and the records in it are gone for good.
func (r *SQLiteRepository) load(ctx context.Context, md metadata.Repository) ([]models.Submission, error) {
	raw, err := md.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("read queue: %w", err)
	}
	if len(raw) == 0 {
		return []models.Submission{}, nil
	}

	var seq []models.Submission
	if err := json.Unmarshal(raw, &seq); err != nil {
		r.log.Error(ctx, "queue payload corrupted, treating as empty; queued submissions will be lost",
			"key", r.key, "bytes", len(raw), "error", err)
		return []models.Submission{}, nil
	}
	if seq == nil {
		seq = []models.Submission{}
	}
	return seq, nil
}

func (r *SQLiteRepository) store(ctx context.Context, md metadata.Repository, seq []models.Submission) error {
	if len(seq) == 0 {
		if err := md.Delete(ctx, r.key); err != nil {
			return fmt.Errorf("clear queue: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(seq)
	if err != nil {
		return fmt.Errorf("encode queue: %w", err)
	}
	if err := md.Set(ctx, r.key, raw); err != nil {
		return fmt.Errorf("write queue: %w", err)
	}
	return nil
}
