package surveys

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/culvertcrawlers/fieldsurvey/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func anyArgs(n int) []driver.Value {
	args := make([]driver.Value, n)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	return args
}

const insertRe = `(?s)^\s*INSERT\s+INTO\s+culvert_surveys\s*\(client_submission_id, reporter_name.*ON\s+CONFLICT\s*\(client_submission_id\)\s*DO\s+NOTHING\s+RETURNING\s+id$`

func culvert(id uuid.UUID) *models.Survey {
	return &models.Survey{
		ClientSubmissionID: uuid.NullUUID{UUID: id, Valid: true},
		ReporterName:       "crawler@example.org",
		ReportType:         "Culvert",
		Latitude:           43.7,
		Longitude:          -72.3,
		Ownership:          "Public",
		Timestamp:          "2025-06-01T09:30",
	}
}

func TestSurveyArgs_NullsEmptyOptionalColumns(t *testing.T) {
	s := culvert(uuid.New())
	args := surveyArgs(s)

	require.Len(t, args, 5+len(models.TextFields))
	assert.Equal(t, "crawler@example.org", args[1])

	byName := map[string]any{}
	for i, f := range models.TextFields {
		byName[f.Name] = args[5+i]
	}
	assert.Equal(t, "Public", byName["ownership"])
	assert.Nil(t, byName["culvert_type"])
	assert.Equal(t, "", byName["additional_info"], "free text is stored as empty string")
	assert.Equal(t, "", byName["drain_blockage_other"])
}

func TestInsert_Created(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertRe).
		WithArgs(anyArgs(5 + len(models.TextFields))...).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(41)))

	id, created, err := repo.Insert(context.Background(), culvert(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, int64(41), id)
	assert.True(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_DuplicateReturnsExistingID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	sid := uuid.New()
	mock.ExpectQuery(insertRe).
		WithArgs(anyArgs(5 + len(models.TextFields))...).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`^SELECT id FROM culvert_surveys WHERE client_submission_id = \$1$`).
		WithArgs(sid.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))

	id, created, err := repo.Insert(context.Background(), culvert(sid))
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	assert.False(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_NoRowsWithoutClientIDIsError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	s := culvert(uuid.New())
	s.ClientSubmissionID = uuid.NullUUID{}

	mock.ExpectQuery(insertRe).
		WithArgs(anyArgs(5 + len(models.TextFields))...).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.Insert(context.Background(), s)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestInsert_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertRe).WillReturnError(errors.New("conn reset"))

	_, _, err := repo.Insert(context.Background(), culvert(uuid.New()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert survey")
}

func TestInsertPhotos_Batch(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^INSERT INTO survey_photos \(survey_id, field, storage_key, content_type, size\) VALUES \(\$1, \$2, \$3, \$4, \$5\), \(\$1, \$6, \$7, \$8, \$9\)$`).
		WithArgs(int64(5), "inlet_photo", "k1", "image/jpeg", int64(10), "additional_photos", "k2", "image/png", int64(20)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.InsertPhotos(context.Background(), 5, []models.Photo{
		{Field: "inlet_photo", StorageKey: "k1", ContentType: "image/jpeg", Size: 10},
		{Field: "additional_photos", StorageKey: "k2", ContentType: "image/png", Size: 20},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertPhotos_EmptyIsNoop(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	require.NoError(t, repo.InsertPhotos(context.Background(), 5, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertPhotos_WrongRowsAffected(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^INSERT INTO survey_photos`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.InsertPhotos(context.Background(), 5, []models.Photo{{Field: "ditch_photo", StorageKey: "k"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong rows affected count")
}

func TestHistory(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)SELECT id, report_type.*FROM culvert_surveys\s+WHERE reporter_name = \$1\s+ORDER BY timestamp DESC`).
		WithArgs("crawler@example.org").
		WillReturnRows(sqlmock.NewRows([]string{"id", "report_type", "latitude", "longitude", "ownership", "timestamp", "created_at"}).
			AddRow(int64(9), "Culvert", 43.7, -72.3, "Public", "2025-06-01T09:30", created).
			AddRow(int64(4), "Ditch", 43.6, -72.2, "", "2025-05-01T08:00", created))

	items, err := repo.History(context.Background(), "crawler@example.org")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(9), items[0].ID)
	assert.Equal(t, "Public", items[0].Ownership)
	assert.Equal(t, "Ditch", items[1].ReportType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistory_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, report_type`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "report_type", "latitude", "longitude", "ownership", "timestamp", "created_at"}))

	items, err := repo.History(context.Background(), "nobody@example.org")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
