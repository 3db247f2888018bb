package services

import (
	"context"
	"sync"
	"time"

	"github.com/culvertcrawlers/fieldsurvey/internal/client/client"
	"github.com/culvertcrawlers/fieldsurvey/internal/client/models"
	"github.com/culvertcrawlers/fieldsurvey/internal/client/repositories/attachments"
	"github.com/culvertcrawlers/fieldsurvey/internal/client/repositories/queue"
	"github.com/culvertcrawlers/fieldsurvey/internal/common"
	"github.com/culvertcrawlers/fieldsurvey/internal/logging"
	"github.com/google/uuid"
)

// SyncService delivers submissions and replays the offline queue.
type SyncService interface {
	// SubmitLive sends one payload and reports whether the server accepted
	// it. It never returns an error.
	SubmitLive(ctx context.Context, p models.Payload) bool

	// DrainQueue replays the whole queue once. The error is reserved for
	// local storage failures; network outcomes are part of the result.
	DrainQueue(ctx context.Context) (models.DrainResult, error)

	// OnConnectivityRestored drains the queue if it holds anything.
	OnConnectivityRestored(ctx context.Context)
}

// Prober confirms that the server answers before a drain starts.
type Prober interface {
	ProbeServer(ctx context.Context, maxAttempts int, delay time.Duration) bool
}

// ProbePolicy is how hard a drain tries to reach the server.
type ProbePolicy struct {
	Attempts int
	Delay    time.Duration
}

// Notifier receives the aggregate outcome of drains started by
// OnConnectivityRestored.
type Notifier func(ctx context.Context, r models.DrainResult)

type syncService struct {
	client  client.Client
	queue   queue.Repository
	store   attachments.Repository
	prober  Prober
	policy  ProbePolicy
	notify  Notifier
	log     logging.Logger
	drainMu sync.Mutex
}

// NewSyncService constructs a SyncService. notify receives the result of
// every drain started by OnConnectivityRestored and may be nil.
func NewSyncService(c client.Client, q queue.Repository, st attachments.Repository, p Prober,
	policy ProbePolicy, notify Notifier, l logging.Logger) SyncService {
	if notify == nil {
		notify = func(context.Context, models.DrainResult) {}
	}
	return &syncService{
		client: c,
		queue:  q,
		store:  st,
		prober: p,
		policy: policy,
		notify: notify,
		log:    l.With("module", "sync"),
	}
}

func (s *syncService) SubmitLive(ctx context.Context, p models.Payload) bool {
	ack, err := s.client.Submit(ctx, p)
	if err != nil {
		s.log.Warn(ctx, "submit failed", "submission_id", p.SubmissionID, "error", err)
		return false
	}

	s.log.Info(ctx, "submission delivered", "submission_id", p.SubmissionID,
		"files", p.FileCount(), "server_id", ack.ID, "duplicate", ack.Duplicate)
	return true
}

func (s *syncService) DrainQueue(ctx context.Context) (models.DrainResult, error) {
	s.drainMu.Lock()
	defer s.drainMu.Unlock()

	return s.drain(ctx)
}

func (s *syncService) OnConnectivityRestored(ctx context.Context) {
	s.drainMu.Lock()
	defer s.drainMu.Unlock()

	n, err := s.queue.Count(ctx)
	if err != nil {
		s.log.Error(ctx, "cannot read offline queue", "error", err)
		return
	}
	if n == 0 {
		s.log.Debug(ctx, "link restored, nothing queued")
		return
	}

	s.log.Info(ctx, "link restored, draining offline queue", "queued", n)
	res, err := s.drain(ctx)
	if err != nil {
		s.log.Error(ctx, "drain failed", "error", err)
		return
	}
	s.notify(ctx, res)
}

// drain must be called with drainMu held.
func (s *syncService) drain(ctx context.Context) (models.DrainResult, error) {
	records, err := s.queue.List(ctx)
	if err != nil {
		return models.DrainResult{}, err
	}
	if len(records) == 0 {
		return models.DrainResult{Status: models.DrainNothingToSend}, nil
	}

	if !s.prober.ProbeServer(ctx, s.policy.Attempts, s.policy.Delay) {
		s.log.Warn(ctx, "server unreachable, queue left untouched", "queued", len(records))
		return models.DrainResult{Status: models.DrainUnreachable, Remaining: records}, nil
	}

	snapshot := make(map[uuid.UUID]struct{}, len(records))
	var remainder []models.Submission
	var delivered []models.Submission

	for _, rec := range records {
		snapshot[rec.ID] = struct{}{}

		if s.SubmitLive(ctx, s.rehydrate(ctx, rec)) {
			delivered = append(delivered, rec)
			continue
		}
		remainder = append(remainder, rec)
	}

	// Records enqueued while this drain ran are not in the snapshot and stay
	// queued behind the remainder.
	var final []models.Submission
	err = s.queue.Rewrite(ctx, func(current []models.Submission) []models.Submission {
		final = append([]models.Submission{}, remainder...)
		for _, rec := range current {
			if _, seen := snapshot[rec.ID]; !seen {
				final = append(final, rec)
			}
		}
		return final
	})
	if err != nil {
		return models.DrainResult{}, err
	}

	s.deleteDelivered(ctx, delivered, final)

	res := models.DrainResult{Status: models.DrainCompleted, Delivered: len(delivered), Remaining: remainder}
	s.log.Info(ctx, "drain finished", "delivered", res.Delivered, "remaining", len(res.Remaining))
	return res, nil
}

// rehydrate loads the photos of a queued record. Missing photos are dropped
// so the report still goes out.
func (s *syncService) rehydrate(ctx context.Context, rec models.Submission) models.Payload {
	p := models.Payload{
		SubmissionID: rec.ID,
		Fields:       rec.Fields,
		Files:        make(map[string][]models.Attachment),
	}

	for _, field := range common.ImageFields {
		ref, ok := rec.Attachments[field]
		if !ok {
			continue
		}
		for _, id := range ref.IDs {
			a, err := s.store.Get(ctx, id)
			if err != nil {
				s.log.Warn(ctx, "cannot load attachment, submitting without it", "submission_id", rec.ID, "field", field, "attachment_id", id, "error", err)
				continue
			}
			if a == nil {
				s.log.Warn(ctx, "attachment missing, submitting without it", "submission_id", rec.ID, "field", field, "attachment_id", id)
				continue
			}
			p.Files[field] = append(p.Files[field], *a)
		}
	}
	return p
}

// deleteDelivered removes photos of delivered records unless a record still
// in the queue references them. Failures are logged only: the reports are
// already on the server.
func (s *syncService) deleteDelivered(ctx context.Context, delivered, queued []models.Submission) {
	inUse := make(map[string]struct{})
	for _, rec := range queued {
		for _, id := range rec.AttachmentIDs() {
			inUse[id] = struct{}{}
		}
	}

	for _, rec := range delivered {
		for _, id := range rec.AttachmentIDs() {
			if _, ok := inUse[id]; ok {
				continue
			}
			if err := s.store.Delete(ctx, id); err != nil {
				s.log.Warn(ctx, "cannot delete delivered attachment", "submission_id", rec.ID, "attachment_id", id, "error", err)
			}
		}
	}
}
