package models

import (
	"fmt"
	"time"

	"github.com/culvertcrawlers/fieldsurvey/internal/common"
	"github.com/google/uuid"
)

// Submission is one record of the offline queue: scalar fields plus
// references to photos kept in the attachment store.
type Submission struct {
	ID          uuid.UUID                `json:"id"`
	CreatedAt   time.Time                `json:"created_at"`
	Fields      map[string]FieldValue    `json:"fields"`
	Attachments map[string]AttachmentRef `json:"images,omitempty"`
}

// Validate checks the structural rules of a record.
func (s Submission) Validate() error {
	for name := range s.Fields {
		if common.IsImageField(name) {
			return fmt.Errorf("%w: %s", common.ErrImageFieldInFields, name)
		}
	}
	for name, ref := range s.Attachments {
		if !common.IsImageField(name) {
			return fmt.Errorf("%w: %s", common.ErrUnknownImageField, name)
		}
		if len(ref.IDs) > common.PhotoLimit(name) {
			return fmt.Errorf("%w: %s", common.ErrTooManyPhotos, name)
		}
	}
	return nil
}

// AttachmentIDs returns every attachment id the record references, in image
// field order.
func (s Submission) AttachmentIDs() []string {
	var ids []string
	for _, field := range common.ImageFields {
		if ref, ok := s.Attachments[field]; ok {
			ids = append(ids, ref.IDs...)
		}
	}
	return ids
}

// Attachment is a stored photo blob.
type Attachment struct {
	ID          string
	Data        []byte
	ContentType string
	Checksum    []byte
	CreatedAt   time.Time
}

// Payload is what a single delivery sends: fields plus rehydrated files.
type Payload struct {
	SubmissionID uuid.UUID
	Fields       map[string]FieldValue
	Files        map[string][]Attachment
}

// FileCount returns the total number of files in the payload.
func (p Payload) FileCount() int {
	n := 0
	for _, files := range p.Files {
		n += len(files)
	}
	return n
}
