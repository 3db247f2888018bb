package client

import "errors"

var (
	// ErrUnavailable means the server could not be reached or answered that
	// it is not serving.
	ErrUnavailable = errors.New("server unavailable")
	// ErrRejected means the server answered with a non-success status.
	ErrRejected = errors.New("server rejected request")
)
