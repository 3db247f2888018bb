package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/culvertcrawlers/fieldsurvey/internal/common"
	"github.com/culvertcrawlers/fieldsurvey/internal/logging"
	"github.com/culvertcrawlers/fieldsurvey/internal/server/models"
	"github.com/culvertcrawlers/fieldsurvey/internal/server/services"
	"github.com/google/uuid"
)

// multipartMemory is how much of a submit body is kept in memory before
// spilling files to disk.
const multipartMemory = 8 << 20

// SurveyService is what the handlers need from the survey use cases.
type SurveyService interface {
	Submit(ctx context.Context, s *models.Survey, uploads []services.Upload) (services.SubmitResult, error)
	History(ctx context.Context, reporter string) ([]models.HistoryItem, error)
}

type Handler struct {
	surveys   SurveyService
	maxUpload int64
	log       logging.Logger
}

func NewHandler(s SurveyService, maxUpload int64, l logging.Logger) *Handler {
	return &Handler{surveys: s, maxUpload: maxUpload, log: l}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SubmitResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ID        int64  `json:"id"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err string, message string) {
	writeJSON(w, status, ErrorResponse{Error: err, Message: message})
}

func isBadSubmission(err error) bool {
	return errors.Is(err, models.ErrInvalidSurvey) ||
		errors.Is(err, common.ErrTooManyPhotos) ||
		errors.Is(err, common.ErrUnknownImageField) ||
		errors.Is(err, common.ErrEmptyAttachment)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUpload {
		h.tooLarge(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.tooLarge(w)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "Expected a multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	survey, err := parseSurvey(r.MultipartForm)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_submission", err.Error())
		return
	}

	uploads, err := readUploads(r.MultipartForm)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Cannot read uploaded files")
		return
	}

	res, err := h.surveys.Submit(r.Context(), survey, uploads)
	if err != nil {
		if isBadSubmission(err) {
			writeError(w, http.StatusBadRequest, "invalid_submission", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "database_error", "Failed to save form")
		return
	}

	writeJSON(w, http.StatusOK, SubmitResponse{
		Success:   true,
		Message:   "Form saved successfully",
		ID:        res.ID,
		Duplicate: res.Duplicate,
	})
}

func (h *Handler) tooLarge(w http.ResponseWriter) {
	writeError(w, http.StatusRequestEntityTooLarge, "too_large", fmt.Sprintf("Upload exceeds %d bytes", h.maxUpload))
}

func formValue(f *multipart.Form, name string) string {
	if v := f.Value[name]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

func parseCoordinate(f *multipart.Form, name string) (float64, error) {
	raw := formValue(f, name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", models.ErrInvalidSurvey, name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a number", models.ErrInvalidSurvey, name)
	}
	return v, nil
}

func parseSurvey(f *multipart.Form) (*models.Survey, error) {
	s := &models.Survey{
		ReporterName: formValue(f, "reporter_name"),
		ReportType:   formValue(f, "report_type"),
	}

	var err error
	if s.Latitude, err = parseCoordinate(f, "latitude"); err != nil {
		return nil, err
	}
	if s.Longitude, err = parseCoordinate(f, "longitude"); err != nil {
		return nil, err
	}

	if raw := formValue(f, common.ClientSubmissionIDField); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not a uuid", models.ErrInvalidSurvey, common.ClientSubmissionIDField)
		}
		s.ClientSubmissionID = uuid.NullUUID{UUID: id, Valid: true}
	}

	for _, tf := range models.TextFields {
		*tf.Ptr(s) = formValue(f, tf.Name)
	}
	return s, nil
}

// readUploads returns the files in image-field order. Files under other
// names are passed through so that the service rejects them.
func readUploads(f *multipart.Form) ([]services.Upload, error) {
	names := make([]string, 0, len(f.File))
	names = append(names, common.ImageFields...)
	var extra []string
	for name := range f.File {
		if !common.IsImageField(name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	names = append(names, extra...)

	var uploads []services.Upload
	for _, name := range names {
		for _, fh := range f.File[name] {
			data, err := readFile(fh)
			if err != nil {
				return nil, err
			}
			uploads = append(uploads, services.Upload{Field: name, Data: data})
		}
	}
	return uploads, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	reporter := strings.TrimSpace(r.URL.Query().Get("reporter_name"))
	if reporter == "" {
		writeError(w, http.StatusBadRequest, "missing_fields", "reporter_name is required")
		return
	}

	items, err := h.surveys.History(r.Context(), reporter)
	if err != nil {
		h.log.Error(r.Context(), "history query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "database_error", "Failed to fetch history")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "pong")
}
