package common

// OfflineQueueKey is the metadata key under which the whole offline queue is
// persisted. Absence of the key means the queue is empty.
const OfflineQueueKey = "offline_survey_queue"

// Image field names accepted by the submit endpoint.
const (
	FieldInletPhoto       = "inlet_photo"
	FieldOutletPhoto      = "outlet_photo"
	FieldDitchPhoto       = "ditch_photo"
	FieldDrainPhoto       = "drain_photo"
	FieldAdditionalPhotos = "additional_photos"
)

// ClientSubmissionIDField carries the client-generated idempotency key of a
// submission as a regular form field.
const ClientSubmissionIDField = "client_submission_id"

// photoLimits holds the maximum number of files per image field.
var photoLimits = map[string]int{
	FieldInletPhoto:       1,
	FieldOutletPhoto:      1,
	FieldDitchPhoto:       1,
	FieldDrainPhoto:       1,
	FieldAdditionalPhotos: 5,
}

// ImageFields lists the image fields in the order they are sent.
var ImageFields = []string{
	FieldInletPhoto,
	FieldOutletPhoto,
	FieldDitchPhoto,
	FieldDrainPhoto,
	FieldAdditionalPhotos,
}

// IsImageField reports whether name is one of the binary attachment fields.
func IsImageField(name string) bool {
	_, ok := photoLimits[name]
	return ok
}

// IsMultiImageField reports whether the field accepts more than one photo.
func IsMultiImageField(name string) bool {
	return PhotoLimit(name) > 1
}

// PhotoLimit returns the maximum number of photos for an image field, or 0
// when name is not an image field.
func PhotoLimit(name string) int {
	return photoLimits[name]
}

// HealthService is the gRPC health service name whose status tracks whether
// the server can accept submissions.
const HealthService = "fieldsurvey.Survey"
