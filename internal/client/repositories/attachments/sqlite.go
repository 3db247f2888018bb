package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/culvertcrawlers/fieldsurvey/internal/client/models"
	"github.com/culvertcrawlers/fieldsurvey/internal/common"
	"github.com/culvertcrawlers/fieldsurvey/internal/cryptox"
	"github.com/culvertcrawlers/fieldsurvey/internal/dbx"
	"github.com/culvertcrawlers/fieldsurvey/internal/logging"
	"github.com/gabriel-vasile/mimetype"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	log logging.Logger
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX, l logging.Logger) *SQLiteRepository {
	return &SQLiteRepository{db: db, log: l.With("module", "attachments"), now: time.Now}
}

func (r *SQLiteRepository) Save(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		r.log.Warn(ctx, "skipping empty attachment")
		return "", common.ErrEmptyAttachment
	}

	now := r.now()
	id, err := common.NewAttachmentID(now)
	if err != nil {
		return "", err
	}

	contentType := mimetype.Detect(data).String()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO attachments (id, content_type, size, checksum, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, contentType, len(data), cryptox.Checksum(data), data, now.UTC())
	if err != nil {
		return "", fmt.Errorf("failed to save attachment: %w", err)
	}

	r.log.Debug(ctx, "attachment saved", "id", id, "size", len(data), "content_type", contentType)
	return id, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Attachment, error) {
	a := &models.Attachment{ID: id}
	err := r.db.QueryRowContext(ctx, `
		SELECT content_type, checksum, data, created_at FROM attachments WHERE id = ?
	`, id).Scan(&a.ContentType, &a.Checksum, &a.Data, &a.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment %s: %w", id, err)
	}

	if !cryptox.Verify(a.Data, a.Checksum) {
		r.log.Error(ctx, "attachment checksum mismatch, treating as missing", "id", id, "size", len(a.Data))
		return nil, nil
	}

	return a, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attachment %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Usage(ctx context.Context) (int, int64, error) {
	var count int
	var total int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(size), 0) FROM attachments`).Scan(&count, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read attachment usage: %w", err)
	}
	return count, total, nil
}
