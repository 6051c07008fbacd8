package redmine

import "errors"

// Sentinel errors for the tracker API taxonomy. Callers classify failures
// with errors.Is; every error returned by the client wraps exactly one of
// these (or none, for malformed responses).
var (
	// ErrAuth indicates the API key was rejected (401 or 403). Fatal to a
	// load: no further issue can succeed with the same credentials.
	ErrAuth = errors.New("api key rejected")

	// ErrNotFound indicates the requested issue or attachment does not
	// exist on the tracker (404).
	ErrNotFound = errors.New("not found")

	// ErrTransient indicates a network failure or a server-side error that
	// survived the client's internal retries. Eligible for caller retry.
	ErrTransient = errors.New("transient tracker error")
)
