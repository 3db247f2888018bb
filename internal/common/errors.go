// Package common defines shared constants and sentinel errors used across
// client and server layers of the survey system. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Attachment errors.
	ErrEmptyAttachment   = errors.New("attachment is empty")
	ErrUnknownImageField = errors.New("unknown image field")
	ErrTooManyPhotos     = errors.New("too many photos for field")

	// Submission record errors.
	ErrImageFieldInFields = errors.New("image field cannot hold a scalar value")
	ErrInvalidReport      = errors.New("invalid report")
)
