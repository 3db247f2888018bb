package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/culvertcrawlers/fieldsurvey/internal/client/client"
	"github.com/culvertcrawlers/fieldsurvey/internal/client/models"
	"github.com/culvertcrawlers/fieldsurvey/internal/client/repositories/attachments"
	"github.com/culvertcrawlers/fieldsurvey/internal/client/repositories/queue"
	"github.com/culvertcrawlers/fieldsurvey/internal/common"
	"github.com/culvertcrawlers/fieldsurvey/internal/logging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	client.Client

	mu       sync.Mutex
	failFor  map[string]bool // by reporter_name
	failAll  bool
	payloads []models.Payload
	onSubmit func(p models.Payload)

	history    []models.HistoryItem
	historyErr error
}

func (f *fakeClient) Submit(ctx context.Context, p models.Payload) (*client.Ack, error) {
	if f.onSubmit != nil {
		f.onSubmit(p)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)

	if f.failAll || f.failFor[p.Fields["reporter_name"].Text] {
		return nil, client.ErrRejected
	}
	return &client.Ack{Success: true, ID: int64(len(f.payloads))}, nil
}

func (f *fakeClient) History(ctx context.Context, reporter string) ([]models.HistoryItem, error) {
	return f.history, f.historyErr
}

func (f *fakeClient) submitted() []models.Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Payload(nil), f.payloads...)
}

type fakeProber struct {
	reachable bool
	calls     atomic.Int32
	attempts  int
	delay     time.Duration
}

func (p *fakeProber) ProbeServer(ctx context.Context, maxAttempts int, delay time.Duration) bool {
	p.calls.Add(1)
	p.attempts, p.delay = maxAttempts, delay
	return p.reachable
}

// failingDeletes wraps a store and fails every Delete.
type failingDeletes struct {
	attachments.Repository
	tried atomic.Int32
}

func (f *failingDeletes) Delete(ctx context.Context, id string) error {
	f.tried.Add(1)
	return errors.New("disk I/O error")
}

type env struct {
	db     *sql.DB
	queue  *queue.SQLiteRepository
	store  *attachments.SQLiteRepository
	client *fakeClient
	prober *fakeProber
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &env{
		db:     db,
		queue:  queue.NewSQLiteRepository(db, logging.Discard()),
		store:  attachments.NewSQLiteRepository(db, logging.Discard()),
		client: &fakeClient{failFor: map[string]bool{}},
		prober: &fakeProber{reachable: true},
	}
}

func (e *env) sync(notify Notifier) SyncService {
	return NewSyncService(e.client, e.queue, e.store, e.prober,
		ProbePolicy{Attempts: 5, Delay: 3 * time.Second}, notify, logging.Discard())
}

// queueRecord stores photos and enqueues a record for reporter.
func (e *env) queueRecord(t *testing.T, reporter string, photos ...[]byte) models.Submission {
	t.Helper()
	ctx := context.Background()

	var ids []string
	for _, p := range photos {
		id, err := e.store.Save(ctx, p)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	rec := models.Submission{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Fields: map[string]models.FieldValue{
			"reporter_name": models.Text(reporter),
			"report_type":   models.Option(models.ReportCulvert),
		},
	}
	if len(ids) > 0 {
		rec.Attachments = map[string]models.AttachmentRef{}
		rec.Attachments[common.FieldInletPhoto] = models.Single(ids[0])
	}
	if len(ids) > 1 {
		rec.Attachments[common.FieldAdditionalPhotos] = models.Multiple(ids[1:]...)
	}
	require.NoError(t, e.queue.Enqueue(ctx, rec))
	return rec
}

func (e *env) exists(t *testing.T, id string) bool {
	t.Helper()
	a, err := e.store.Get(context.Background(), id)
	require.NoError(t, err)
	return a != nil
}

func (e *env) list(t *testing.T) []models.Submission {
	t.Helper()
	seq, err := e.queue.List(context.Background())
	require.NoError(t, err)
	return seq
}

func (e *env) keyPresent(t *testing.T) bool {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM metadata WHERE key = ?`, common.OfflineQueueKey).Scan(&n))
	return n > 0
}
