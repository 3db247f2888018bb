package surveys

import (
	"context"

	"github.com/culvertcrawlers/fieldsurvey/internal/server/models"
)

type Repository interface {
	// Insert stores s and returns its id. When a survey with the same client
	// submission id already exists, nothing is written, created is false and
	// id is the existing row's.
	Insert(ctx context.Context, s *models.Survey) (id int64, created bool, err error)

	// InsertPhotos stores the photo rows of one survey in a single statement.
	InsertPhotos(ctx context.Context, surveyID int64, photos []models.Photo) error

	// History lists a reporter's surveys, newest timestamp first.
	History(ctx context.Context, reporter string) ([]models.HistoryItem, error)
}
