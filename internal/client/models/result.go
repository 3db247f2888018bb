package models

import "fmt"

// DrainStatus is the overall outcome of a queue drain.
type DrainStatus string

const (
	DrainNothingToSend DrainStatus = "nothing_to_send"
	DrainUnreachable   DrainStatus = "unreachable"
	DrainCompleted     DrainStatus = "completed"
)

// DrainResult aggregates one drain so the caller can show one notification.
type DrainResult struct {
	Status    DrainStatus
	Delivered int
	Remaining []Submission
}

// Summary returns the single user-facing message for the drain.
func (r DrainResult) Summary() string {
	switch r.Status {
	case DrainNothingToSend:
		return "No offline submissions to send."
	case DrainUnreachable:
		return fmt.Sprintf("Server unreachable, %d submission(s) remain queued.", len(r.Remaining))
	}
	if len(r.Remaining) == 0 {
		return fmt.Sprintf("%d offline submission(s) sent.", r.Delivered)
	}
	return fmt.Sprintf("%d offline submission(s) sent, %d failed to resend and remain queued.", r.Delivered, len(r.Remaining))
}

// SubmitOutcome tells the user where a submitted report went.
type SubmitOutcome string

const (
	SubmittedLive SubmitOutcome = "submitted"
	SubmitQueued  SubmitOutcome = "queued"
)
