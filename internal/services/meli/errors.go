package meli

import "fmt"

// AuthError means the stored credentials are missing or the OAuth refresh was
// rejected. It is never retried inline; the caller surfaces it as a
// service-unavailable response.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// FetchError means ID discovery or a detail batch failed. The whole fetch is
// aborted; Batch is -1 for discovery failures.
type FetchError struct {
	Op     string
	Batch  int
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("upstream fetch failed: %s", e.Op)
	if e.Batch >= 0 {
		msg = fmt.Sprintf("%s (batch %d)", msg, e.Batch)
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
