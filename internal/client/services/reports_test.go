package services

import (
	"context"
	"testing"

	"github.com/culvertcrawlers/fieldsurvey/internal/client/client"
	"github.com/culvertcrawlers/fieldsurvey/internal/client/models"
	"github.com/culvertcrawlers/fieldsurvey/internal/common"
	"github.com/culvertcrawlers/fieldsurvey/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func culvertDraft() models.Draft {
	return models.Draft{
		Report: models.Report{
			ReporterName: "volunteer@example.org",
			Latitude:     44.4759,
			Longitude:    -73.2121,
			ReportType:   models.ReportCulvert,
			Ownership:    "Unknown",
			WaterFlow:    "Dry",
		},
		Photos: map[string][][]byte{
			common.FieldInletPhoto:       {[]byte("inlet")},
			common.FieldAdditionalPhotos: {[]byte("extra-1"), {}, []byte("extra-2")},
		},
	}
}

func (e *env) reports(online bool) ReportService {
	return NewReportService(e.sync(nil), e.client, e.queue, e.store, func() bool { return online }, logging.Discard())
}

func TestSubmit_OfflineQueuesWithPhotos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	out, err := e.reports(false).Submit(ctx, culvertDraft())
	require.NoError(t, err)
	assert.Equal(t, models.SubmitQueued, out)
	assert.Empty(t, e.client.submitted(), "no network use while offline")

	seq := e.list(t)
	require.Len(t, seq, 1)
	rec := seq[0]
	assert.Equal(t, models.Text("volunteer@example.org"), rec.Fields["reporter_name"])
	assert.NotContains(t, rec.Fields, common.FieldInletPhoto)

	ids := rec.AttachmentIDs()
	require.Len(t, ids, 3, "empty photo skipped")
	assert.False(t, rec.Attachments[common.FieldInletPhoto].Multi)
	assert.True(t, rec.Attachments[common.FieldAdditionalPhotos].Multi)
	for _, id := range ids {
		assert.True(t, e.exists(t, id))
	}
}

func TestSubmit_OfflineCountGrowsByOne(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.queueRecord(t, "earlier@x.org", []byte("old"))
	earlier := e.list(t)[0]

	_, err := e.reports(false).Submit(ctx, culvertDraft())
	require.NoError(t, err)

	n, err := e.queue.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, e.exists(t, earlier.AttachmentIDs()[0]))
}

func TestSubmit_OnlineDeliversLive(t *testing.T) {
	e := newEnv(t)

	out, err := e.reports(true).Submit(context.Background(), culvertDraft())
	require.NoError(t, err)
	assert.Equal(t, models.SubmittedLive, out)

	sent := e.client.submitted()
	require.Len(t, sent, 1)
	assert.Equal(t, 3, sent[0].FileCount())
	assert.False(t, e.keyPresent(t))

	n, _, err := e.store.Usage(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "live photos never touch the attachment store")
}

func TestSubmit_OnlineFailureFallsBackToQueue(t *testing.T) {
	e := newEnv(t)
	e.client.failAll = true

	out, err := e.reports(true).Submit(context.Background(), culvertDraft())
	require.NoError(t, err)
	assert.Equal(t, models.SubmitQueued, out)
	require.Len(t, e.list(t), 1)

	sent := e.client.submitted()
	require.Len(t, sent, 1)
	assert.Equal(t, sent[0].SubmissionID, e.list(t)[0].ID, "queued record reuses the id of the failed attempt")
}

func TestSubmit_InvalidDraftRejected(t *testing.T) {
	e := newEnv(t)
	d := culvertDraft()
	d.Report.Ownership = ""

	_, err := e.reports(false).Submit(context.Background(), d)
	require.ErrorIs(t, err, common.ErrInvalidReport)
	assert.Empty(t, e.list(t))

	d = culvertDraft()
	d.Photos[common.FieldDrainPhoto] = [][]byte{[]byte("x")}
	_, err = e.reports(false).Submit(context.Background(), d)
	require.ErrorIs(t, err, common.ErrUnknownImageField)
}

func TestSubmit_EnqueueFailureRemovesSavedPhotos(t *testing.T) {
	e := newEnv(t)
	d := culvertDraft()

	// Enqueue fails once the metadata table is gone.
	_, err := e.db.Exec(`DROP TABLE metadata`)
	require.NoError(t, err)

	_, err = e.reports(false).Submit(context.Background(), d)
	require.Error(t, err)

	n, _, err := e.store.Usage(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHistory(t *testing.T) {
	e := newEnv(t)
	e.client.history = []models.HistoryItem{{ID: 7, ReportType: models.ReportDitch}}

	_, err := e.reports(false).History(context.Background(), "a@x.org")
	require.ErrorIs(t, err, client.ErrUnavailable)

	items, err := e.reports(true).History(context.Background(), "a@x.org")
	require.NoError(t, err)
	assert.Equal(t, e.client.history, items)
}

func TestQueueInfo(t *testing.T) {
	e := newEnv(t)
	e.queueRecord(t, "a@x.org", []byte("12345"), []byte("678"))

	info, err := e.reports(false).Queue(context.Background())
	require.NoError(t, err)
	assert.Len(t, info.Records, 1)
	assert.Equal(t, 2, info.Attachments)
	assert.Equal(t, int64(8), info.AttachmentsBytes)
}
