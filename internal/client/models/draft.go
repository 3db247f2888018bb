package models

import (
	"fmt"
	"time"

	"github.com/culvertcrawlers/fieldsurvey/internal/common"
	"github.com/google/uuid"
)

// Draft is a report about to be submitted with the photos the user picked.
type Draft struct {
	Report Report
	Photos map[string][][]byte
}

// Validate checks the form and the photo selection.
func (d Draft) Validate() error {
	if err := d.Report.Validate(); err != nil {
		return err
	}

	allowed := d.Report.ImageFields()
	for field, photos := range d.Photos {
		if _, ok := allowed[field]; !ok {
			return fmt.Errorf("%w: %s for %s report", common.ErrUnknownImageField, field, d.Report.ReportType)
		}
		if len(photos) > common.PhotoLimit(field) {
			return fmt.Errorf("%w: %s allows %d", common.ErrTooManyPhotos, field, common.PhotoLimit(field))
		}
	}
	return nil
}

// Payload builds a live delivery payload. Empty photos are skipped.
func (d Draft) Payload(id uuid.UUID) Payload {
	p := Payload{
		SubmissionID: id,
		Fields:       d.Report.Fields(),
		Files:        make(map[string][]Attachment),
	}
	for _, field := range common.ImageFields {
		for _, data := range d.Photos[field] {
			if len(data) == 0 {
				continue
			}
			p.Files[field] = append(p.Files[field], Attachment{Data: data})
		}
	}
	return p
}

// Submission builds a queue record whose photos are already in the
// attachment store under the given ids.
func (d Draft) Submission(id uuid.UUID, now time.Time, ids map[string][]string) Submission {
	s := Submission{
		ID:          id,
		CreatedAt:   now.UTC(),
		Fields:      d.Report.Fields(),
		Attachments: make(map[string]AttachmentRef),
	}
	for field, list := range ids {
		if len(list) == 0 {
			continue
		}
		if common.IsMultiImageField(field) {
			s.Attachments[field] = Multiple(list...)
		} else {
			s.Attachments[field] = Single(list[0])
		}
	}
	return s
}
