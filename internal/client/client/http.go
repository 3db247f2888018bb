package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/culvertcrawlers/fieldsurvey/internal/client/models"
	"github.com/culvertcrawlers/fieldsurvey/internal/common"
	"github.com/culvertcrawlers/fieldsurvey/internal/logging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// HTTPClient talks to the survey server's REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, l logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     l.With("module", "http_client"),
	}
}

// Ping calls the health endpoint, bypassing any caches on the way.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/ping", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: ping status %s", ErrUnavailable, resp.Status)
	}
	return nil
}

// Submit posts the payload as multipart/form-data.
func (c *HTTPClient) Submit(ctx context.Context, p models.Payload) (*Ack, error) {
	body, contentType, err := encodeMultipart(p)
	if err != nil {
		return nil, fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/submit", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: submit status %s: %s", ErrRejected, resp.Status, errorMessage(raw))
	}

	ack := &Ack{Success: true}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, ack); err != nil {
			c.log.Warn(ctx, "submit acknowledged with unreadable body", "status", resp.StatusCode, "error", err)
			ack = &Ack{Success: true}
		}
	}
	return ack, nil
}

// History returns the reporter's past submissions, newest first.
func (c *HTTPClient) History(ctx context.Context, reporter string) ([]models.HistoryItem, error) {
	u := c.baseURL + "/api/history?reporter_name=" + url.QueryEscape(reporter)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return nil, fmt.Errorf("%w: history status %s: %s", ErrRejected, resp.Status, errorMessage(raw))
	}

	var items []models.HistoryItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return items, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func encodeMultipart(p models.Payload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	names := make([]string, 0, len(p.Fields))
	for name := range p.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := w.WriteField(name, p.Fields[name].String()); err != nil {
			return nil, "", err
		}
	}

	if p.SubmissionID != uuid.Nil {
		if err := w.WriteField(common.ClientSubmissionIDField, p.SubmissionID.String()); err != nil {
			return nil, "", err
		}
	}

	for _, field := range common.ImageFields {
		for i, a := range p.Files[field] {
			if len(a.Data) == 0 {
				continue
			}
			ct := a.ContentType
			if ct == "" {
				ct = mimetype.Detect(a.Data).String()
			}
			ext := mimetype.Lookup(ct)
			suffix := ".bin"
			if ext != nil && ext.Extension() != "" {
				suffix = ext.Extension()
			}

			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="%s-%d%s"`, field, field, i+1, suffix))
			h.Set("Content-Type", ct)

			part, err := w.CreatePart(h)
			if err != nil {
				return nil, "", err
			}
			if _, err := part.Write(a.Data); err != nil {
				return nil, "", err
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
