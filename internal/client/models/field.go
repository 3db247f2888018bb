// Package models defines the client-side data of the survey app: report
// forms, submission records held in the offline queue, and attachments.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FieldKind tags the scalar carried by a FieldValue.
type FieldKind string

const (
	KindText   FieldKind = "text"
	KindNumber FieldKind = "number"
	KindOption FieldKind = "option"
)

// FieldValue is a scalar form value. There is deliberately no binary kind:
// photos travel as attachments, never as fields.
type FieldValue struct {
	Kind   FieldKind `json:"kind"`
	Text   string    `json:"text,omitempty"`
	Number float64   `json:"number,omitempty"`
}

func Text(s string) FieldValue    { return FieldValue{Kind: KindText, Text: s} }
func Option(s string) FieldValue  { return FieldValue{Kind: KindOption, Text: s} }
func Number(n float64) FieldValue { return FieldValue{Kind: KindNumber, Number: n} }

// String renders the value the way it is sent as a multipart form field.
func (v FieldValue) String() string {
	if v.Kind == KindNumber {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return v.Text
}

func (v *FieldValue) UnmarshalJSON(b []byte) error {
	type raw FieldValue
	var r raw
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	switch r.Kind {
	case KindText, KindNumber, KindOption:
	default:
		return fmt.Errorf("unknown field kind %q", r.Kind)
	}
	*v = FieldValue(r)
	return nil
}

// AttachmentRef points from an image field to stored attachment ids. Single
// valued fields marshal as a bare string, multi valued ones as an array.
type AttachmentRef struct {
	IDs   []string
	Multi bool
}

func Single(id string) AttachmentRef { return AttachmentRef{IDs: []string{id}} }

func Multiple(ids ...string) AttachmentRef {
	return AttachmentRef{IDs: append([]string(nil), ids...), Multi: true}
}

func (r AttachmentRef) MarshalJSON() ([]byte, error) {
	if r.Multi {
		ids := r.IDs
		if ids == nil {
			ids = []string{}
		}
		return json.Marshal(ids)
	}
	if len(r.IDs) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(r.IDs[0])
}

func (r *AttachmentRef) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err == nil {
		if s == nil {
			*r = AttachmentRef{}
			return nil
		}
		*r = Single(*s)
		return nil
	}

	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return fmt.Errorf("attachment ref must be a string or an array of strings: %w", err)
	}
	*r = Multiple(ids...)
	return nil
}
