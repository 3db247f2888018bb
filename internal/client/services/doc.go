// Package services holds the field client's use cases.
//
// ReportService turns a filled form into either a live delivery or a queued
// submission. SyncService owns delivery and the offline queue replay:
// photos are rehydrated from the attachment store, each record is sent in
// enqueue order, photos are removed only after the server confirmed the
// record, and failed records stay queued untouched.
package services
