package surveys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/culvertcrawlers/fieldsurvey/internal/dbx"
	"github.com/culvertcrawlers/fieldsurvey/internal/server/models"
)

// PostgresRepository implements survey storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var insertSurveyQuery = buildInsertSurvey()

func buildInsertSurvey() string {
	cols := []string{"client_submission_id", "reporter_name", "report_type", "latitude", "longitude"}
	for _, f := range models.TextFields {
		cols = append(cols, f.Name)
	}
	ph := make([]string, len(cols))
	for i := range cols {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(`
		INSERT INTO culvert_surveys (%s)
		VALUES (%s)
		ON CONFLICT (client_submission_id) DO NOTHING
		RETURNING id`, strings.Join(cols, ", "), strings.Join(ph, ", "))
}

func surveyArgs(s *models.Survey) []any {
	args := []any{s.ClientSubmissionID, s.ReporterName, s.ReportType, s.Latitude, s.Longitude}
	for _, f := range models.TextFields {
		v := *f.Ptr(s)
		if f.Nullable && v == "" {
			args = append(args, nil)
			continue
		}
		args = append(args, v)
	}
	return args
}

func (r *PostgresRepository) Insert(ctx context.Context, s *models.Survey) (int64, bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, insertSurveyQuery, surveyArgs(s)...).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) || !s.ClientSubmissionID.Valid {
		return 0, false, fmt.Errorf("insert survey: %w", err)
	}

	query := `SELECT id FROM culvert_surveys WHERE client_submission_id = $1`
	if err := r.db.QueryRowContext(ctx, query, s.ClientSubmissionID).Scan(&id); err != nil {
		return 0, false, fmt.Errorf("select duplicate survey: %w", err)
	}
	return id, false, nil
}

func (r *PostgresRepository) InsertPhotos(ctx context.Context, surveyID int64, photos []models.Photo) error {
	if len(photos) == 0 {
		return nil
	}

	values := make([]string, 0, len(photos))
	args := make([]any, 0, len(photos)*4+1)
	args = append(args, surveyID)
	for _, p := range photos {
		n := len(args)
		values = append(values, fmt.Sprintf("($1, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4))
		args = append(args, p.Field, p.StorageKey, p.ContentType, p.Size)
	}

	query := `INSERT INTO survey_photos (survey_id, field, storage_key, content_type, size) VALUES ` +
		strings.Join(values, ", ")
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert photos: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != int64(len(photos)) {
		return fmt.Errorf("wrong rows affected count: %d", n)
	}
	return nil
}

func (r *PostgresRepository) History(ctx context.Context, reporter string) ([]models.HistoryItem, error) {
	query := `
		SELECT id, report_type, latitude, longitude, COALESCE(ownership, ''), COALESCE(timestamp, ''), created_at
		FROM culvert_surveys
		WHERE reporter_name = $1
		ORDER BY timestamp DESC NULLS LAST, id DESC`
	rows, err := r.db.QueryContext(ctx, query, reporter)
	if err != nil {
		return nil, fmt.Errorf("failed to select history: %w", err)
	}
	defer rows.Close()

	result := make([]models.HistoryItem, 0)
	for rows.Next() {
		var it models.HistoryItem
		if err := rows.Scan(&it.ID, &it.ReportType, &it.Latitude, &it.Longitude, &it.Ownership, &it.Timestamp, &it.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
