package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/culvertcrawlers/fieldsurvey/internal/client/client"
	"github.com/culvertcrawlers/fieldsurvey/internal/client/models"
	"github.com/culvertcrawlers/fieldsurvey/internal/client/repositories/attachments"
	"github.com/culvertcrawlers/fieldsurvey/internal/client/repositories/queue"
	"github.com/culvertcrawlers/fieldsurvey/internal/common"
	"github.com/culvertcrawlers/fieldsurvey/internal/logging"
	"github.com/google/uuid"
)

// ReportService is what the user interface calls.
type ReportService interface {
	// Submit sends the draft live when the link is up and falls back to the
	// offline queue otherwise, or when the live attempt fails.
	Submit(ctx context.Context, d models.Draft) (models.SubmitOutcome, error)

	// History lists the reporter's past submissions. It needs the server.
	History(ctx context.Context, reporter string) ([]models.HistoryItem, error)

	// Queue describes what is waiting to be sent.
	Queue(ctx context.Context) (QueueInfo, error)
}

// QueueInfo summarizes the offline queue and the photo storage it uses.
type QueueInfo struct {
	Records          []models.Submission
	Attachments      int
	AttachmentsBytes int64
}

type reportService struct {
	sync   SyncService
	client client.Client
	queue  queue.Repository
	store  attachments.Repository
	online func() bool
	log    logging.Logger
	now    func() time.Time
}

// NewReportService constructs a ReportService that submits live while online
// and queues otherwise.
func NewReportService(s SyncService, c client.Client, q queue.Repository, st attachments.Repository,
	online func() bool, l logging.Logger) ReportService {
	return &reportService{
		sync:   s,
		client: c,
		queue:  q,
		store:  st,
		online: online,
		log:    l.With("module", "reports"),
		now:    time.Now,
	}
}

func (s *reportService) Submit(ctx context.Context, d models.Draft) (models.SubmitOutcome, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}

	id := uuid.New()

	if s.online() {
		if s.sync.SubmitLive(ctx, d.Payload(id)) {
			return models.SubmittedLive, nil
		}
		s.log.Warn(ctx, "live submit failed, storing report offline", "submission_id", id)
	}

	if err := s.storeOffline(ctx, id, d); err != nil {
		return "", err
	}
	return models.SubmitQueued, nil
}

func (s *reportService) storeOffline(ctx context.Context, id uuid.UUID, d models.Draft) error {
	saved := make(map[string][]string)
	var all []string

	rollback := func() {
		for _, aid := range all {
			if err := s.store.Delete(ctx, aid); err != nil {
				s.log.Warn(ctx, "cannot remove attachment of unsaved report", "attachment_id", aid, "error", err)
			}
		}
	}

	for _, field := range common.ImageFields {
		for _, data := range d.Photos[field] {
			aid, err := s.store.Save(ctx, data)
			if errors.Is(err, common.ErrEmptyAttachment) {
				continue
			}
			if err != nil {
				rollback()
				return fmt.Errorf("store photo %s: %w", field, err)
			}
			saved[field] = append(saved[field], aid)
			all = append(all, aid)
		}
	}

	rec := d.Submission(id, s.now(), saved)
	if err := s.queue.Enqueue(ctx, rec); err != nil {
		rollback()
		return fmt.Errorf("queue report: %w", err)
	}

	s.log.Info(ctx, "report queued offline", "submission_id", id, "photos", len(all))
	return nil
}

func (s *reportService) History(ctx context.Context, reporter string) ([]models.HistoryItem, error) {
	if !s.online() {
		return nil, fmt.Errorf("%w: history needs a connection", client.ErrUnavailable)
	}
	return s.client.History(ctx, reporter)
}

func (s *reportService) Queue(ctx context.Context) (QueueInfo, error) {
	records, err := s.queue.List(ctx)
	if err != nil {
		return QueueInfo{}, err
	}
	n, size, err := s.store.Usage(ctx)
	if err != nil {
		return QueueInfo{}, err
	}
	return QueueInfo{Records: records, Attachments: n, AttachmentsBytes: size}, nil
}
