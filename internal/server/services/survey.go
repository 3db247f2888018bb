// Package services holds the server's survey use cases: storing a submitted
// survey with its photos and listing a reporter's history.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/culvertcrawlers/fieldsurvey/internal/common"
	"github.com/culvertcrawlers/fieldsurvey/internal/dbx"
	"github.com/culvertcrawlers/fieldsurvey/internal/logging"
	"github.com/culvertcrawlers/fieldsurvey/internal/server/models"
	"github.com/culvertcrawlers/fieldsurvey/internal/server/repositories/repomanager"
	"github.com/culvertcrawlers/fieldsurvey/internal/server/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	surveysReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldsurvey_surveys_received_total",
			Help: "Surveys accepted by submit, by report type and outcome",
		},
		[]string{"report_type", "outcome"},
	)

	photosStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldsurvey_photos_stored_total",
			Help: "Photos written to object storage, by image field",
		},
		[]string{"field"},
	)

	photoBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fieldsurvey_photo_bytes_total",
			Help: "Bytes of photo data written to object storage",
		},
	)
)

// Upload is one received image file.
type Upload struct {
	Field string
	Data  []byte
}

// SubmitResult reports the stored survey id. Duplicate is set when the
// client submission id was already known and nothing new was stored.
type SubmitResult struct {
	ID        int64
	Duplicate bool
}

type SurveyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.PhotoStore
	policy      *bluemonday.Policy
	now         func() time.Time
	log         logging.Logger
}

func NewSurveyService(db *sql.DB, rm repomanager.RepositoryManager, store storage.PhotoStore, l logging.Logger) *SurveyService {
	return &SurveyService{
		db:          db,
		repomanager: rm,
		store:       store,
		policy:      bluemonday.StrictPolicy(),
		now:         time.Now,
		log:         l.With("module", "survey_service"),
	}
}

// Sanitize strips markup from the free-text answers.
func (s *SurveyService) Sanitize(survey *models.Survey) {
	for _, f := range models.TextFields {
		if !f.Free {
			continue
		}
		p := f.Ptr(survey)
		*p = s.policy.Sanitize(*p)
	}
}

func checkUploads(uploads []Upload) error {
	counts := make(map[string]int, len(uploads))
	for _, u := range uploads {
		if !common.IsImageField(u.Field) {
			return fmt.Errorf("%w: %s", common.ErrUnknownImageField, u.Field)
		}
		if len(u.Data) == 0 {
			return fmt.Errorf("%w: %s", common.ErrEmptyAttachment, u.Field)
		}
		counts[u.Field]++
		if counts[u.Field] > common.PhotoLimit(u.Field) {
			return fmt.Errorf("%w: %s", common.ErrTooManyPhotos, u.Field)
		}
	}
	return nil
}

// Submit validates and stores a survey. Photos are uploaded inside the
// database transaction so that a storage failure leaves no survey row and the
// client can safely retry.
func (s *SurveyService) Submit(ctx context.Context, survey *models.Survey, uploads []Upload) (SubmitResult, error) {
	s.Sanitize(survey)
	if err := survey.Validate(); err != nil {
		return SubmitResult{}, err
	}
	if err := checkUploads(uploads); err != nil {
		return SubmitResult{}, err
	}

	var res SubmitResult
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Surveys(tx)

		id, created, err := repo.Insert(ctx, survey)
		if err != nil {
			return err
		}
		res = SubmitResult{ID: id, Duplicate: !created}
		if !created {
			return nil
		}

		photos := make([]models.Photo, 0, len(uploads))
		now := s.now()
		for _, u := range uploads {
			p := models.Photo{
				SurveyID:    id,
				Field:       u.Field,
				StorageKey:  storage.NewPhotoKey(now, u.Field),
				ContentType: mimetype.Detect(u.Data).String(),
				Size:        int64(len(u.Data)),
			}
			if err := s.store.Put(ctx, p.StorageKey, p.ContentType, u.Data); err != nil {
				return err
			}
			photos = append(photos, p)
		}

		return repo.InsertPhotos(ctx, id, photos)
	})
	if err != nil {
		s.log.Error(ctx, "survey not stored", "report_type", survey.ReportType, "error", err)
		return SubmitResult{}, err
	}

	if res.Duplicate {
		surveysReceived.WithLabelValues(survey.ReportType, "duplicate").Inc()
		s.log.Info(ctx, "duplicate submission acknowledged", "id", res.ID, "client_submission_id", survey.ClientSubmissionID.UUID)
		return res, nil
	}

	surveysReceived.WithLabelValues(survey.ReportType, "stored").Inc()
	for _, u := range uploads {
		photosStored.WithLabelValues(u.Field).Inc()
		photoBytes.Add(float64(len(u.Data)))
	}
	s.log.Info(ctx, "survey stored", "id", res.ID, "report_type", survey.ReportType, "photos", len(uploads))
	return res, nil
}

func (s *SurveyService) History(ctx context.Context, reporter string) ([]models.HistoryItem, error) {
	return s.repomanager.Surveys(s.db).History(ctx, reporter)
}

// Ping checks the database connection. It backs the readiness status of the
// gRPC health service.
func (s *SurveyService) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
